// ABOUTME: CLI commands for managing users and their profiles.
// ABOUTME: Create by email, show, list, and update profile fields.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/shapementor/internal/models"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:     "user",
	Aliases: []string{"users"},
	Short:   "Manage users",
}

var userCreateCmd = &cobra.Command{
	Use:   "create <email>",
	Short: "Create a user (or show the existing one) by email",
	Long: `Create a user from an email address. The display name defaults to the
part before the @. If a user with that email exists, it is shown instead.

EXAMPLES:

  shapementor user create jane@example.com`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, created, err := trk.FindOrCreateUser(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		out := cmd.OutOrStdout()
		if created {
			color.New(color.FgGreen).Fprintf(out, "✓ Created user %d\n", u.ID)
		} else {
			color.New(color.FgYellow).Fprintf(out, "User exists\n")
		}
		printUser(out, u)
		return nil
	},
}

var userShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a user's profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseUserID(args[0])
		if err != nil {
			return err
		}
		u, err := trk.GetUser(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
		printUserDetail(cmd.OutOrStdout(), u)
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := trk.ListUsers(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(users) == 0 {
			fmt.Fprintln(out, "No users found.")
			return nil
		}
		for _, u := range users {
			printUser(out, u)
		}
		return nil
	},
}

var userUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update profile fields",
	Long: `Update profile fields of a user. Only the flags you pass are changed;
passing an empty value (e.g. --race "") clears an optional field.

EXAMPLES:

  shapementor user update 1 --name "Jane Doe" --dob 1990-04-01
  shapementor user update 1 --phone ""`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseUserID(args[0])
		if err != nil {
			return err
		}

		upd := &models.UserUpdate{}
		for flag, field := range map[string]**string{
			"name":   &upd.Name,
			"email":  &upd.Email,
			"dob":    &upd.DOB,
			"gender": &upd.Gender,
			"race":   &upd.Race,
			"phone":  &upd.PhoneNumber,
		} {
			if cmd.Flags().Changed(flag) {
				v, _ := cmd.Flags().GetString(flag)
				*field = &v
			}
		}
		if upd.IsEmpty() {
			return fmt.Errorf("nothing to update: pass at least one field flag")
		}

		u, err := trk.UpdateUserProfile(cmd.Context(), id, upd)
		if err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Updated user %d\n", u.ID)
		printUserDetail(cmd.OutOrStdout(), u)
		return nil
	},
}

func init() {
	userUpdateCmd.Flags().String("name", "", "display name")
	userUpdateCmd.Flags().String("email", "", "email address")
	userUpdateCmd.Flags().String("dob", "", "date of birth (YYYY-MM-DD)")
	userUpdateCmd.Flags().String("gender", "", "gender")
	userUpdateCmd.Flags().String("race", "", "race")
	userUpdateCmd.Flags().String("phone", "", "phone number")

	userCmd.AddCommand(userCreateCmd, userShowCmd, userListCmd, userUpdateCmd)
	rootCmd.AddCommand(userCmd)
}
