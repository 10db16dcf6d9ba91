package server

import (
	"embed"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"
)

//go:embed static/*
var staticFiles embed.FS

// assets holds the stylesheet, the session poller script and the images.
var assets = mustSub(staticFiles, "static")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic("Failed to open embedded " + dir + ": " + err.Error())
	}
	return sub
}

// writeAsset copies one embedded asset to w with its content type.
func writeAsset(w http.ResponseWriter, name string) error {
	data, err := fs.ReadFile(assets, name)
	if err != nil {
		return fmt.Errorf("asset %s: %w", name, err)
	}

	ctype := mime.TypeByExtension(strings.ToLower(path.Ext(name)))
	if ctype == "" {
		ctype = http.DetectContentType(data)
	}
	if strings.HasPrefix(ctype, "text/") && !strings.Contains(ctype, "charset=") {
		ctype += "; charset=utf-8"
	}

	h := w.Header()
	h.Set("Content-Type", ctype)
	h.Set("X-Content-Type-Options", "nosniff")
	if h.Get("Content-Encoding") == "" {
		h.Set("Content-Length", strconv.Itoa(len(data)))
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write asset %s: %w", name, err)
	}
	return nil
}
