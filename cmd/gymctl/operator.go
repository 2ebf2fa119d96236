package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const passwordEnv = "GYMCTL_PASSWORD"

var (
	operatorUsername string
	operatorName     string
	operatorPassword string
)

var operatorCmd = &cobra.Command{
	Use:   "operator",
	Short: "Manage staff accounts",
}

var operatorCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a staff account",
	Long: `Create a staff account allowed to use the admin API.

The password is taken from --password, then from $GYMCTL_PASSWORD, and
otherwise read from the first line of standard input.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := resolvePassword(operatorPassword, os.Getenv(passwordEnv), cmd.InOrStdin())
		if err != nil {
			return err
		}
		name := operatorName
		if name == "" {
			name = operatorUsername
		}

		op, err := services.Auth.Register(cmd.Context(), operatorUsername, name, password)
		if err != nil {
			return fmt.Errorf("failed to create operator: %w", err)
		}

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintf(out, "✓ Created operator %s\n", op.Username)
		fmt.Fprintf(out, "  %s\n", color.New(color.Faint).Sprint(op.ID.Hex()))
		return nil
	},
}

// resolvePassword picks the flag value, then the environment, then the
// first line of in.
func resolvePassword(flag, env string, in io.Reader) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env != "" {
		return env, nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", fmt.Errorf("no password given (use --password, $%s or stdin)", passwordEnv)
	}
	return password, nil
}

func init() {
	operatorCreateCmd.Flags().StringVar(&operatorUsername, "username", "", "login name")
	operatorCreateCmd.Flags().StringVar(&operatorName, "name", "", "display name (defaults to the username)")
	operatorCreateCmd.Flags().StringVar(&operatorPassword, "password", "", "password (prefer $"+passwordEnv+")")
	_ = operatorCreateCmd.MarkFlagRequired("username")

	operatorCmd.AddCommand(operatorCreateCmd)
	rootCmd.AddCommand(operatorCmd)
}
