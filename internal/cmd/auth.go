package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lapdeck/lapdeck/internal/api"
	"github.com/lapdeck/lapdeck/internal/tui"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the catalog service session",
	Long: `Manage the catalog service session.

The session is a server-set cookie stored in .lapdeck/cookies.json; lapdeck
never reads the cookie itself, it only carries it.

Subcommands:
  register  Create a new account
  login     Sign in with email and password
  logout    Sign out and drop the stored cookie
  status    Show who is currently signed in

Examples:
  lapdeck auth register --email user@example.com
  lapdeck auth login --email user@example.com
  lapdeck auth status
  lapdeck auth logout`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// authLoginCmd handles sign in
var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the catalog service",
	Long: `Sign in to the catalog service with your email and password.

The session cookie set by the server is stored for subsequent commands.
Missing credentials are prompted for interactively.

Examples:
  lapdeck auth login --email user@example.com
  lapdeck auth login --email user@example.com --password mypass`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		var err error
		if email == "" {
			if email, err = tui.PromptForString("Email", true); err != nil {
				return err
			}
		}
		if password == "" {
			if password, err = tui.PromptForPassword("Password"); err != nil {
				return err
			}
		}

		store, err := getStore()
		if err != nil {
			return err
		}

		// Let the startup probe settle before logging in. A probe response
		// that lands after the login would be the last transition to
		// complete and would overwrite the state the login just set.
		<-store.Ready()

		if err := store.Login(cmd.Context(), email, password); err != nil {
			return err
		}

		name := email
		if snap := store.Snapshot(); snap.User != nil {
			name = snap.User.DisplayName()
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", name)
		return nil
	},
}

// authRegisterCmd creates a new account
var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	Long: `Create a new account with the catalog service.

Registering does not sign you in; run 'lapdeck auth login' afterwards.

Examples:
  lapdeck auth register --email user@example.com
  lapdeck auth register --email user@example.com --first-name Ann --last-name Lee`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		firstName, _ := cmd.Flags().GetString("first-name")
		lastName, _ := cmd.Flags().GetString("last-name")

		var err error
		if email == "" {
			if email, err = tui.PromptForString("Email", true); err != nil {
				return err
			}
		}
		if password == "" {
			if password, err = tui.PromptForPassword("Password"); err != nil {
				return err
			}
		}

		store, err := getStore()
		if err != nil {
			return err
		}

		req := api.RegisterRequest{
			Email:     email,
			Password:  password,
			FirstName: firstName,
			LastName:  lastName,
		}
		if err := store.Register(cmd.Context(), req); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Account created for %s. Sign in with 'lapdeck auth login'.\n", email)
		return nil
	},
}

// authLogoutCmd signs out
var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	Long: `Sign out of the catalog service.

The server is asked to invalidate the session, and the locally stored cookie
is dropped either way.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := getStore()
		if err != nil {
			return err
		}

		store.Logout(cmd.Context())
		if appJar != nil {
			if err := appJar.Clear(); err != nil {
				return err
			}
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		return nil
	},
}

// authStatusCmd shows the current session
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show who is currently signed in",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := getStore()
		if err != nil {
			return err
		}

		// Wait for the startup probe rather than reporting the initial
		// logged-out snapshot.
		<-store.Ready()

		snap := store.Snapshot()
		if !snap.Authenticated {
			fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
			fmt.Fprintln(cmd.OutOrStdout(), "Use 'lapdeck auth login' to authenticate.")
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Signed in")
		fmt.Fprintf(cmd.OutOrStdout(), "Email: %s\n", snap.User.Email)
		if name := snap.User.DisplayName(); name != snap.User.Email {
			fmt.Fprintf(cmd.OutOrStdout(), "Name:  %s\n", name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authRegisterCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)

	authLoginCmd.Flags().String("email", "", "Email address")
	authLoginCmd.Flags().String("password", "", "Password (prompted when omitted)")

	authRegisterCmd.Flags().String("email", "", "Email address")
	authRegisterCmd.Flags().String("password", "", "Password (prompted when omitted)")
	authRegisterCmd.Flags().String("first-name", "", "First name")
	authRegisterCmd.Flags().String("last-name", "", "Last name")
}
