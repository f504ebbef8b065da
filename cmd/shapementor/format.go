// ABOUTME: Shared CLI helpers for argument parsing and aligned output.
// ABOUTME: Used by the user, metric, calorie, and lookup commands.
package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/shapementor/internal/models"
	"github.com/spf13/cobra"
)

var faint = color.New(color.Faint)

func parseFloatArg(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", name, s)
	}
	return v, nil
}

func parseUserID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id: %s", s)
	}
	return id, nil
}

// requireUser reads the --user flag shared by record commands.
func requireUser(cmd *cobra.Command) (int64, error) {
	id, err := cmd.Flags().GetInt64("user")
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("--user is required")
	}
	return id, nil
}

func addUserFlag(cmd *cobra.Command) {
	cmd.Flags().Int64P("user", "u", 0, "user id")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func printUser(w io.Writer, u *models.User) {
	fmt.Fprintf(w, "%s %s %s\n", faint.Sprintf("%4d", u.ID), padRight(truncate(u.Name, 24), 24), u.Email)
}

func printUserDetail(w io.Writer, u *models.User) {
	fmt.Fprintf(w, "ID:         %d\n", u.ID)
	fmt.Fprintf(w, "Name:       %s\n", u.Name)
	fmt.Fprintf(w, "Email:      %s\n", u.Email)
	fmt.Fprintf(w, "DOB:        %s\n", deref(u.DOB))
	fmt.Fprintf(w, "Gender:     %s\n", deref(u.Gender))
	fmt.Fprintf(w, "Race:       %s\n", deref(u.Race))
	fmt.Fprintf(w, "Phone:      %s\n", deref(u.PhoneNumber))
	fmt.Fprintf(w, "Activated:  %t\n", u.Activated)
}
