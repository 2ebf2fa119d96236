package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"alcyxob/gym-admin/internal/service"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export data",
}

var exportMembersCmd = &cobra.Command{
	Use:   "members",
	Short: "Write the member spreadsheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Create(exportOut)
		if err != nil {
			return err
		}
		count, err := services.Export.WriteMembers(cmd.Context(), f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(exportOut)
			return fmt.Errorf("failed to export members: %w", err)
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Exported %d members to %s\n", count, exportOut)
		return nil
	},
}

func init() {
	exportMembersCmd.Flags().StringVarP(&exportOut, "out", "o", service.ExportFileName, "output file")
	exportCmd.AddCommand(exportMembersCmd)
	rootCmd.AddCommand(exportCmd)
}
