package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/apiclient"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/export"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/models"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/notify"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/repository"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/session"
)

// cliSessionKey is the client state slot used by command-line sessions.
const cliSessionKey = "cli"

var errNotLoggedIn = errors.New("not logged in; run `oxiadmin login` first")

// cliEnv is the backend client of a CLI invocation, backed by the same
// state database as the server.
type cliEnv struct {
	logger *zap.Logger
	client *apiclient.Client
	close  func()
}

func printNotice(n notify.Notification) {
	fmt.Fprintf(os.Stderr, "[%s] %s\n", n.Level, n.Message)
}

func openCLI(ctx context.Context) (*cliEnv, error) {
	cfg, logger, done, err := setup()
	if err != nil {
		return nil, err
	}
	store, err := openStore(cfg)
	if err != nil {
		done()
		return nil, fmt.Errorf("open state db: %w", err)
	}
	sess := session.New(store, cliSessionKey)
	if err := sess.Init(ctx); err != nil {
		store.Close()
		done()
		return nil, err
	}
	client := apiclient.New(cfg.APIBaseURL, sess,
		apiclient.WithNotifier(notify.Func(printNotice)),
		apiclient.WithLogger(logger),
		apiclient.WithTimeout(cfg.RequestTimeout),
	)
	return &cliEnv{
		logger: logger,
		client: client,
		close: func() {
			store.Close()
			done()
		},
	}, nil
}

// withAuthed runs fn with a client holding a live session.
func withAuthed(cmd *cobra.Command, fn func(ctx context.Context, env *cliEnv) error) error {
	ctx := cmd.Context()
	env, err := openCLI(ctx)
	if err != nil {
		return err
	}
	defer env.close()
	if !env.client.Session().Authenticated() {
		return errNotLoggedIn
	}
	return fn(ctx, env)
}

var loginEmail string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the content backend",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		env, err := openCLI(ctx)
		if err != nil {
			return err
		}
		defer env.close()

		answers := struct {
			Email    string
			Password string
		}{Email: loginEmail}
		var qs []*survey.Question
		if loginEmail == "" {
			qs = append(qs, &survey.Question{
				Name:     "email",
				Prompt:   &survey.Input{Message: "Email:"},
				Validate: survey.Required,
			})
		}
		qs = append(qs, &survey.Question{
			Name:     "password",
			Prompt:   &survey.Password{Message: "Password:"},
			Validate: survey.Required,
		})
		if err := survey.Ask(qs, &answers); err != nil {
			if errors.Is(err, terminal.InterruptErr) {
				return errors.New("login cancelled")
			}
			return err
		}

		user, err := env.client.Login(ctx, strings.TrimSpace(answers.Email), answers.Password)
		if err != nil {
			return err
		}
		fmt.Printf("Signed in as %s (%s)\n", user.Email, user.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored backend session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := openCLI(cmd.Context())
		if err != nil {
			return err
		}
		defer env.close()
		if err := env.client.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Signed out")
		return nil
	},
}

var formsCmd = &cobra.Command{
	Use:   "forms",
	Short: "Inspect form definitions",
}

var formsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List forms with step and field counts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withAuthed(cmd, func(ctx context.Context, env *cliEnv) error {
			docs, err := repository.NewFormRepo(env.client).List(ctx)
			if err != nil {
				return err
			}
			return printForms(cmd.OutOrStdout(), docs)
		})
	},
}

func printForms(w io.Writer, docs []models.FormDocument) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTEPS\tFIELDS")
	for _, d := range docs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", d.ID, d.FormName, len(d.Steps), d.FieldCount())
	}
	return tw.Flush()
}

var exportOut string

// writeOut writes data to the --out file, or stdout when unset.
func writeOut(cmd *cobra.Command, data []byte) error {
	if exportOut == "" || exportOut == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(exportOut, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", exportOut)
	return nil
}

var formsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every form field as CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withAuthed(cmd, func(ctx context.Context, env *cliEnv) error {
			docs, err := repository.NewFormRepo(env.client).List(ctx)
			if err != nil {
				return err
			}
			data, err := export.CSV(export.FormRows(docs))
			if err != nil {
				return err
			}
			return writeOut(cmd, data)
		})
	},
}

var employeesCmd = &cobra.Command{
	Use:   "employees",
	Short: "Employee directory",
}

var employeesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export employees as CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withAuthed(cmd, func(ctx context.Context, env *cliEnv) error {
			items, err := repository.NewEmployeeRepo(env.client).List(ctx)
			if err != nil {
				return err
			}
			return exportRows(cmd, models.EmployeeHeader, items, models.Employee.Row)
		})
	},
}

var companiesCmd = &cobra.Command{
	Use:   "companies",
	Short: "Company directory",
}

var companiesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export companies as CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withAuthed(cmd, func(ctx context.Context, env *cliEnv) error {
			items, err := repository.NewCompanyRepo(env.client).List(ctx)
			if err != nil {
				return err
			}
			return exportRows(cmd, models.CompanyHeader, items, models.Company.Row)
		})
	},
}

func exportRows[T any](cmd *cobra.Command, header []string, items []T, row func(T) []string) error {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, row(it))
	}
	data, err := export.CSV(export.Table(header, rows...))
	if err != nil {
		return err
	}
	return writeOut(cmd, data)
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email (prompted when empty)")
	for _, c := range []*cobra.Command{formsExportCmd, employeesExportCmd, companiesExportCmd} {
		c.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
	}
	formsCmd.AddCommand(formsListCmd, formsExportCmd)
	employeesCmd.AddCommand(employeesExportCmd)
	companiesCmd.AddCommand(companiesExportCmd)
}
