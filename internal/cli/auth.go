package cli

import (
	"fmt"
	"time"

	"github.com/jrsteele09/studentdesk/api"
	"github.com/jrsteele09/studentdesk/session"
	"github.com/spf13/cobra"
)

func (a *app) newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the student records API",
		Long:  "Exchange an email and password for a credential and store it for later commands.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := a.prompt(cmd, "Email", email)
			if err != nil {
				return err
			}
			password, err := a.prompt(cmd, "Password", password)
			if err != nil {
				return err
			}

			token, err := a.client.Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("login: %s: %w", api.Message(err, "invalid email or password"), err)
			}

			sess, err := a.manager.Login(cmd.Context(), token)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			printSession(cmd, sess)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (prompted if omitted)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted if omitted)")
	return cmd
}

func (a *app) newRegisterCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long:  "Create an account. When the API logs the new account in, the credential is stored.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := a.prompt(cmd, "Name", name)
			if err != nil {
				return err
			}
			email, err := a.prompt(cmd, "Email", email)
			if err != nil {
				return err
			}
			password, err := a.prompt(cmd, "Password", password)
			if err != nil {
				return err
			}

			token, err := a.client.Register(cmd.Context(), name, email, password)
			if err != nil {
				return fmt.Errorf("register: %s: %w", api.Message(err, "registration failed"), err)
			}
			if token == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Registration successful. Run `studentctl login` to continue.")
				return nil
			}

			sess, err := a.manager.Login(cmd.Context(), token)
			if err != nil {
				return fmt.Errorf("register: %w", err)
			}
			printSession(cmd, sess)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Account name (prompted if omitted)")
	cmd.Flags().StringVar(&email, "email", "", "Account email (prompted if omitted)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted if omitted)")
	return cmd
}

func (a *app) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.manager.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func (a *app) newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.requireSession(cmd)
			if err != nil {
				return err
			}
			printSession(cmd, sess)
			return nil
		},
	}
}

func printSession(cmd *cobra.Command, sess session.Session) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Logged in as %s", sess.Role)
	if sess.UserID != "" {
		fmt.Fprintf(out, " (%s)", sess.UserID)
	}
	fmt.Fprintln(out)
	if !sess.ExpiresAt.IsZero() {
		fmt.Fprintf(out, "Session expires %s (in %s)\n",
			sess.ExpiresAt.Local().Format(time.RFC1123),
			sess.Remaining(time.Now()).Round(time.Second))
	}
}
