// Package cli implements studentctl, the command line front-end to the
// student records API.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jrsteele09/studentdesk/api"
	"github.com/jrsteele09/studentdesk/internal/config"
	"github.com/jrsteele09/studentdesk/internal/errors"
	"github.com/jrsteele09/studentdesk/internal/logging"
	"github.com/jrsteele09/studentdesk/session"
	"github.com/jrsteele09/studentdesk/session/filestore"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// app holds what every command needs once flags are parsed.
type app struct {
	apiURL          string
	credentialsPath string
	logLevel        string
	timeout         time.Duration

	client  *api.Client
	manager *session.Manager
	in      *bufio.Reader
}

// defaultAPI returns the default API URL, checking STUDENTDESK_API env var first.
func defaultAPI() string {
	return config.GetEnv("STUDENTDESK_API", "http://localhost:5000")
}

// NewRootCmd creates the root cobra command for studentctl.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "studentctl",
		Short: "Student desk command line client",
		Long:  "studentctl logs in to the student records API and manages student profiles.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&a.apiURL, "api", defaultAPI(), "Student records API URL (or STUDENTDESK_API env)")
	root.PersistentFlags().StringVar(&a.credentialsPath, "credentials", "", "Credentials file (default ~/.studentdesk/credentials.json)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 10*time.Second, "API request timeout")

	root.AddCommand(
		a.newLoginCmd(),
		a.newRegisterCmd(),
		a.newLogoutCmd(),
		a.newWhoamiCmd(),
		a.newStudentsCmd(),
	)

	return root
}

func (a *app) init(cmd *cobra.Command) error {
	logging.SetupWithWriter("DEV", a.logLevel, cmd.ErrOrStderr())

	a.client = api.New(a.apiURL, a.timeout)

	path := a.credentialsPath
	if path == "" {
		var err error
		if path, err = filestore.DefaultPath(); err != nil {
			return err
		}
	}
	a.manager = session.NewManager(filestore.New(path))
	a.in = bufio.NewReader(cmd.InOrStdin())

	// A stored credential that is malformed or expired is discarded here,
	// exactly as the web front-end does when it starts a request.
	if _, err := a.manager.Init(cmd.Context()); err != nil {
		if !errors.IsSessionError(err) {
			return fmt.Errorf("read credentials: %w", err)
		}
		log.Debug().Err(err).Msg("stored credential discarded")
		if errors.Is(err, errors.ErrSessionExpired) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Session expired. Please log in again.")
		}
	}
	return nil
}

// requireSession returns the current session or explains how to get one.
func (a *app) requireSession(cmd *cobra.Command) (session.Session, error) {
	sess, err := a.manager.Check(cmd.Context())
	switch {
	case errors.Is(err, errors.ErrSessionExpired):
		return sess, fmt.Errorf("session expired, run `studentctl login`: %w", err)
	case errors.IsSessionError(err):
		return sess, fmt.Errorf("not logged in, run `studentctl login`: %w", err)
	case err != nil:
		return sess, err
	}
	return sess, nil
}

// apiFailed turns an API error into a command error, ending the session
// when the API rejected the credential.
func (a *app) apiFailed(cmd *cobra.Command, action string, err error) error {
	if errors.Is(err, errors.ErrUnauthorized) {
		if logoutErr := a.manager.Logout(cmd.Context()); logoutErr != nil {
			log.Err(logoutErr).Msg("failed to clear rejected credential")
		}
		return fmt.Errorf("%s: session rejected by the API, run `studentctl login`: %w", action, err)
	}
	return fmt.Errorf("%s: %w", action, err)
}

// prompt asks for a value on the command's input when the flag was not given.
func (a *app) prompt(cmd *cobra.Command, label, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ", label)
	line, err := a.in.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	value = strings.TrimSpace(line)
	if value == "" {
		return "", fmt.Errorf("%s cannot be empty", strings.ToLower(label))
	}
	return value, nil
}

// Execute runs studentctl and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
