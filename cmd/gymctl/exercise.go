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

	"alcyxob/gym-admin/internal/service"
)

var exerciseCmd = &cobra.Command{
	Use:     "exercise",
	Aliases: []string{"ex"},
	Short:   "Manage the exercise catalog",
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an exercise",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ex, err := services.Exercise.CreateExercise(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("failed to add exercise: %w", err)
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Added %s\n", ex.Name)
		return nil
	},
}

var exerciseImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Add exercises from a file, one name per line",
	Long: `Add exercises from a text file with one name per line. Blank lines and
lines starting with # are ignored; names already in the catalog are skipped.
Use - to read standard input.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		names, err := readExerciseNames(in)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		added, skipped := 0, 0
		for _, name := range names {
			_, err := services.Exercise.CreateExercise(cmd.Context(), name)
			switch {
			case errors.Is(err, service.ErrExerciseExists):
				skipped++
			case err != nil:
				return fmt.Errorf("failed to add %q: %w", name, err)
			default:
				added++
			}
		}
		color.New(color.FgGreen).Fprintf(out, "✓ Imported %d exercises", added)
		fmt.Fprintf(out, " %s\n", color.New(color.Faint).Sprintf("(%d already present)", skipped))
		return nil
	},
}

var exerciseListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the catalog by name",
	RunE: func(cmd *cobra.Command, args []string) error {
		exercises, err := services.Exercise.ListExercises(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(exercises) == 0 {
			color.New(color.FgYellow).Fprintln(out, "No exercises yet")
			return nil
		}
		for _, ex := range exercises {
			fmt.Fprintf(out, "%s  %s\n", color.New(color.Faint).Sprint(ex.ID.Hex()), ex.Name)
		}
		return nil
	},
}

// readExerciseNames returns the trimmed, distinct names of r in file order.
func readExerciseNames(r io.Reader) ([]string, error) {
	var names []string
	seen := map[string]bool{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key := strings.ToLower(line)
		if seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, line)
	}
	return names, scanner.Err()
}

func init() {
	exerciseCmd.AddCommand(exerciseAddCmd, exerciseImportCmd, exerciseListCmd)
	rootCmd.AddCommand(exerciseCmd)
}
