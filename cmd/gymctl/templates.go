package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"alcyxob/gym-admin/internal/routine"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Show the section layout of every routine kind",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		bold := color.New(color.Bold)
		faint := color.New(color.Faint)
		for _, l := range routine.Layouts() {
			bold.Fprintf(out, "%s", l.Label)
			fmt.Fprintf(out, " %s\n", faint.Sprintf("(%s)", l.Kind))
			for _, s := range l.Sections {
				fmt.Fprintf(out, "  %-14s %s\n", s.Name, describeSection(s))
			}
		}
		return nil
	},
}

func describeSection(s routine.Section) string {
	if s.Fixed() {
		return "one row each: " + strings.Join(s.FixedCategories, ", ")
	}
	switch {
	case s.MaxRows == 0:
		return fmt.Sprintf("free, starts with %d rows", s.InitialRows)
	case s.MinRows == s.MaxRows:
		return fmt.Sprintf("exactly %d rows", s.MaxRows)
	default:
		return fmt.Sprintf("%d to %d rows", s.InitialRows, s.MaxRows)
	}
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}
