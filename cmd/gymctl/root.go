package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"alcyxob/gym-admin/internal/app"
	"alcyxob/gym-admin/internal/config"
)

var (
	configPath string
	driverFlag string
	verbose    bool

	cfg        config.Config
	repos      *app.Repositories
	services   *app.Services
	closeRepos func()
)

var rootCmd = &cobra.Command{
	Use:   "gymctl",
	Short: "Administer the gym admin backend",
	Long: `gymctl works directly against the configured database.

It reads config.yaml and the same environment overrides as the server
(DATABASE_URI, JWT_SECRET, ...).

Examples:
  gymctl operator create --username recepcion --name "Recepción"
  gymctl exercise import ejercicios.txt
  gymctl export members --out socios.xlsx
  gymctl templates`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "templates" {
			return nil
		}

		var err error
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if driverFlag != "" {
			cfg.Database.Driver = driverFlag
			if err := cfg.Validate(); err != nil {
				return err
			}
		}

		app.SetupLogger(cfg.App)
		if !verbose {
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
		}

		repos, closeRepos, err = app.OpenRepositories(context.Background(), cfg.Database)
		if err != nil {
			return err
		}
		files, err := app.OpenStorage(context.Background(), cfg.S3)
		if err != nil {
			return err
		}
		services, err = app.NewServices(cfg, repos, files)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if closeRepos != nil {
			closeRepos()
			closeRepos = nil
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "directory holding config.yaml")
	rootCmd.PersistentFlags().StringVar(&driverFlag, "driver", "", "override database.driver (mongo or memory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
}
