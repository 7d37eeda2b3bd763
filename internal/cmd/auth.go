package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/newsroomhq/newsroom/internal/api"
	"github.com/newsroomhq/newsroom/internal/flow"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication credentials",
	Long: `Manage authentication credentials for the newsroom platform.

The bearer token is stored in credentials.json inside the state directory
and is shared with the interactive interface.

Examples:
  newsroom auth login --email user@example.com --password mypass
  newsroom auth register --email user@example.com --password mypass --username reader1
  newsroom auth status
  newsroom auth logout`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// authLoginCmd handles user login
var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with email and password",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		if email == "" {
			return fmt.Errorf("--email is required")
		}
		if password == "" {
			return fmt.Errorf("--password is required")
		}

		app, err := bootstrap(false)
		if err != nil {
			return err
		}
		defer app.close()

		route, err := app.controller.LogIn(cmd.Context(), email, password)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		fmt.Println("Login successful!")
		printFollowUp(route)
		return nil
	},
}

// authRegisterCmd registers a new account and logs in
var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new account",
	Long: `Register a new account with the newsroom platform.

After registration you are logged in automatically and asked to pick a role
the next time the interactive interface starts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		phone, _ := cmd.Flags().GetString("phone")

		if email == "" {
			return fmt.Errorf("--email is required")
		}
		if password == "" {
			return fmt.Errorf("--password is required")
		}
		if username == "" {
			username = email
		}

		app, err := bootstrap(false)
		if err != nil {
			return err
		}
		defer app.close()

		route, err := app.controller.SignUp(cmd.Context(), api.RegisterRequest{
			Username: username,
			Email:    email,
			Password: password,
			Phone:    phone,
		})
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}

		fmt.Println("Registration successful! You are now logged in.")
		printFollowUp(route)
		return nil
	},
}

// authStatusCmd shows current auth status
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show authentication status",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := bootstrap(false)
		if err != nil {
			return err
		}
		defer app.close()

		if app.store.Token() == "" {
			fmt.Println("Not logged in.")
			fmt.Println("Use 'newsroom auth login' to authenticate.")
			return nil
		}

		user, err := app.client.CurrentUser(cmd.Context())
		if err != nil {
			fmt.Println("Token may be expired or invalid.")
			fmt.Println("Use 'newsroom auth login' to re-authenticate.")
			return nil
		}

		fmt.Println("Logged in")
		fmt.Printf("Username: %s\n", user.Username)
		fmt.Printf("Email:    %s\n", user.Email)
		fmt.Printf("Role:     %s\n", user.Role)
		fmt.Printf("2FA:      %v\n", user.TOTPEnabled)
		return nil
	},
}

// authLogoutCmd removes the stored credential
var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and remove the stored credential",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := bootstrap(false)
		if err != nil {
			return err
		}
		defer app.close()

		app.controller.Logout()
		fmt.Println("Logged out.")
		return nil
	},
}

// printFollowUp explains a server-demanded next step that needs the TUI
func printFollowUp(route flow.Route) {
	switch route {
	case flow.RouteSetRole:
		fmt.Println("Your account has no role yet; run 'newsroom' to pick one.")
	case flow.RouteTwoFASetup:
		fmt.Println("Two-factor setup is required; run 'newsroom' to finish it.")
	case flow.RouteTwoFAVerify:
		fmt.Println("A two-factor code is required; run 'newsroom' to enter it.")
	}
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authRegisterCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)

	authLoginCmd.Flags().String("email", "", "Email address (required)")
	authLoginCmd.Flags().String("password", "", "Password (required)")

	authRegisterCmd.Flags().String("username", "", "Username (defaults to email)")
	authRegisterCmd.Flags().String("email", "", "Email address (required)")
	authRegisterCmd.Flags().String("password", "", "Password (required)")
	authRegisterCmd.Flags().String("phone", "", "Phone number (optional)")
}
