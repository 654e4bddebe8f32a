package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lapdeck/lapdeck/internal/api"
	apperrors "github.com/lapdeck/lapdeck/internal/errors"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "View and edit your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// profileUpdateCmd edits the profile fields
var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update your profile fields",
	Long: `Update your profile fields.

Omitted flags keep their current value. Changing the email invalidates the
session; the service will ask you to sign in again.

Examples:
  lapdeck profile update --first-name Ann
  lapdeck profile update --email new@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := requireAuth(cmd.Context())
		if err != nil {
			return err
		}

		snap := store.Snapshot()
		upd := api.ProfileUpdate{
			Email:     snap.User.Email,
			FirstName: snap.User.FirstName,
			LastName:  snap.User.LastName,
		}
		if v, _ := cmd.Flags().GetString("email"); v != "" {
			upd.Email = v
		}
		if v, _ := cmd.Flags().GetString("first-name"); v != "" {
			upd.FirstName = v
		}
		if v, _ := cmd.Flags().GetString("last-name"); v != "" {
			upd.LastName = v
		}

		client, err := getClient()
		if err != nil {
			return err
		}

		result, err := client.UpdateProfile(cmd.Context(), upd)
		if err != nil {
			return apperrors.NewProfileUpdateFailedError(err.Error())
		}

		if result.RequireReLogin {
			// The old session is gone; drop local state and the cookie.
			store.Clear()
			if appJar != nil {
				_ = appJar.Clear()
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Message)
			fmt.Fprintln(cmd.OutOrStdout(), "Sign in again with 'lapdeck auth login'.")
			return nil
		}

		if result.User != nil {
			store.UpdateUserData(*result.User)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Profile saved.")
		return nil
	},
}

// profilePictureCmd uploads a new profile picture
var profilePictureCmd = &cobra.Command{
	Use:   "picture <file>",
	Short: "Upload a new profile picture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := requireAuth(cmd.Context())
		if err != nil {
			return err
		}

		client, err := getClient()
		if err != nil {
			return err
		}

		result, err := client.UploadProfilePicture(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		// Completion step: the server confirmed the change, so replace the
		// held record with the new reference.
		user := *store.Snapshot().User
		user.ProfilePictureRef = result.ProfilePictureRef
		store.UpdateUserData(user)

		fmt.Fprintln(cmd.OutOrStdout(), "Picture uploaded.")
		fmt.Fprintf(cmd.OutOrStdout(), "URL: %s\n", client.PictureURL(result.ProfilePictureRef))
		return nil
	},
}

// profileShowCmd prints the current profile
var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := requireAuth(cmd.Context())
		if err != nil {
			return err
		}

		client, err := getClient()
		if err != nil {
			return err
		}

		user := store.Snapshot().User
		fmt.Fprintf(cmd.OutOrStdout(), "Email:      %s\n", user.Email)
		fmt.Fprintf(cmd.OutOrStdout(), "First name: %s\n", user.FirstName)
		fmt.Fprintf(cmd.OutOrStdout(), "Last name:  %s\n", user.LastName)
		if user.ProfilePictureRef != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Picture:    %s\n", client.PictureURL(user.ProfilePictureRef))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileUpdateCmd)
	profileCmd.AddCommand(profilePictureCmd)

	profileUpdateCmd.Flags().String("email", "", "New email address")
	profileUpdateCmd.Flags().String("first-name", "", "New first name")
	profileUpdateCmd.Flags().String("last-name", "", "New last name")
}
