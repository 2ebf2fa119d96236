package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the database indexes",
	Long:  `Create the unique and lookup indexes. Opening a mongo database already ensures them; this command only reports the outcome.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg.Database.Driver != "mongo" {
			color.New(color.FgYellow).Fprintf(out, "Driver %q keeps no indexes\n", cfg.Database.Driver)
			return nil
		}
		color.New(color.FgGreen).Fprintf(out, "✓ Indexes ensured on %s\n", cfg.Database.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexesCmd)
}
