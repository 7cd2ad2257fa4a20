package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func loginCmd(cfg envConfig) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and persist the session",
		Long: `Exchange credentials for a bearer token. The token and profile are
persisted, so subsequent commands run authenticated until logout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Session.Login(cmd.Context(), email, password); err != nil {
				return err
			}

			user := app.Session.User()
			fmt.Printf("Logged in as %s <%s> (%s)\n", user.Name, user.Email, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func logoutCmd(cfg envConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			app.Session.Logout()
			fmt.Println("Logged out")
			return nil
		},
	}
}

func registerCmd(cfg envConfig) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		Long: `Create a new account. Registration does not log you in; run
"shopkit login" afterwards.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Session.Register(cmd.Context(), name, email, password); err != nil {
				return err
			}

			fmt.Printf("Account created for %s. Run \"shopkit login\" to sign in.\n", email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func whoamiCmd(cfg envConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the restored session",
		Long: `Restore the session from storage (verifying the token against the
backend when reachable) and print who is logged in.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			app.Session.Restore(cmd.Context())

			token, user := app.Session.Snapshot()
			switch {
			case token == "":
				fmt.Println("Not logged in")
			case user == nil:
				fmt.Println("Session token present but the profile could not be resolved; treat as not logged in")
			default:
				fmt.Printf("%s <%s> (%s)\n", user.Name, user.Email, user.Role)
			}
			return nil
		},
	}
}
