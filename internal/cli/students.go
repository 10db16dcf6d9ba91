package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jrsteele09/studentdesk/api"
	"github.com/jrsteele09/studentdesk/students"
	"github.com/spf13/cobra"
)

func (a *app) newStudentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "students",
		Aliases: []string{"student"},
		Short:   "Manage student profiles",
	}
	cmd.AddCommand(
		a.newStudentsListCmd(),
		a.newStudentsGetCmd(),
		a.newStudentsCountCmd(),
		a.newStudentsMeCmd(),
		a.newStudentsCreateCmd(),
		a.newStudentsDeleteCmd(),
	)
	return cmd
}

// authorized returns an API client carrying the stored credential.
func (a *app) authorized(cmd *cobra.Command) (*api.Authorized, error) {
	sess, err := a.requireSession(cmd)
	if err != nil {
		return nil, err
	}
	return a.client.As(sess.Token), nil
}

func (a *app) newStudentsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all students (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.authorized(cmd)
			if err != nil {
				return err
			}
			list, err := client.ListStudents(cmd.Context())
			if err != nil {
				return a.apiFailed(cmd, "list students", err)
			}

			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No students found.")
				return nil
			}
			fmt.Fprintf(out, "%-26s  %-30s  %-32s  %s\n", "ID", "NAME", "EMAIL", "CITY")
			fmt.Fprintf(out, "%-26s  %-30s  %-32s  %s\n", "--", "----", "-----", "----")
			for _, s := range list {
				fmt.Fprintf(out, "%-26s  %-30s  %-32s  %s\n", s.ID, s.FullName(), s.Email, s.City)
			}
			return nil
		},
	}
}

func (a *app) newStudentsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one student (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.authorized(cmd)
			if err != nil {
				return err
			}
			s, err := client.GetStudent(cmd.Context(), args[0])
			if err != nil {
				return a.apiFailed(cmd, "get student", err)
			}
			return printJSON(cmd.OutOrStdout(), s)
		},
	}
}

func (a *app) newStudentsCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Show the number of registered students",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.authorized(cmd)
			if err != nil {
				return err
			}
			n, err := client.Count(cmd.Context())
			if err != nil {
				return a.apiFailed(cmd, "count students", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

func (a *app) newStudentsMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show your own profile (student)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.authorized(cmd)
			if err != nil {
				return err
			}
			s, err := client.Me(cmd.Context())
			if err != nil {
				return a.apiFailed(cmd, "get profile", err)
			}
			return printJSON(cmd.OutOrStdout(), s)
		},
	}
}

func (a *app) newStudentsCreateCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a student from a JSON profile (admin)",
		Long:  "Add a student from a JSON profile in the API's format. Use --file - to read standard input.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := readStudent(cmd, file)
			if err != nil {
				return err
			}
			if err := s.Validate().Err(); err != nil {
				return err
			}

			client, err := a.authorized(cmd)
			if err != nil {
				return err
			}
			created, err := client.CreateStudent(cmd.Context(), s)
			if err != nil {
				return a.apiFailed(cmd, "create student", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Registration successful. Login details:")
			fmt.Fprintf(out, "  Email:    %s\n", created.Email)
			fmt.Fprintf(out, "  Password: %s\n", created.Password)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Student profile JSON file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (a *app) newStudentsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a student (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.authorized(cmd)
			if err != nil {
				return err
			}
			if err := client.DeleteStudent(cmd.Context(), args[0]); err != nil {
				return a.apiFailed(cmd, "delete student", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted student %s\n", args[0])
			return nil
		},
	}
}

func readStudent(cmd *cobra.Command, file string) (students.Student, error) {
	var (
		data []byte
		err  error
	)
	if file == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return students.Student{}, fmt.Errorf("read student profile: %w", err)
	}

	var s students.Student
	if err := json.Unmarshal(data, &s); err != nil {
		return students.Student{}, fmt.Errorf("parse student profile: %w", err)
	}
	return s, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
