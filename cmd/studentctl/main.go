package main

import "github.com/jrsteele09/studentdesk/internal/cli"

func main() {
	cli.Execute()
}
