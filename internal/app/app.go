// Package app wires configuration into repositories and services for the
// server and the CLI.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"alcyxob/gym-admin/internal/config"
	"alcyxob/gym-admin/internal/repository"
	"alcyxob/gym-admin/internal/repository/memory"
	"alcyxob/gym-admin/internal/repository/mongo"
	"alcyxob/gym-admin/internal/service"
	"alcyxob/gym-admin/internal/storage"
)

// SetupLogger configures the global zerolog logger: JSON in production,
// a console writer otherwise.
func SetupLogger(cfg config.AppConfig) {
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.IsProduction() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
		return
	}
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

// Repositories groups the storage backends of every entity.
type Repositories struct {
	Members   repository.MemberRepository
	Payments  repository.PaymentRepository
	Exercises repository.ExerciseRepository
	Routines  repository.RoutineRepository
	Operators repository.OperatorRepository
	Archives  repository.ExportArchiveRepository
}

// OpenRepositories connects the configured database driver. The returned
// close function releases the connection.
func OpenRepositories(ctx context.Context, cfg config.DatabaseConfig) (*Repositories, func(), error) {
	switch cfg.Driver {
	case "memory":
		log.Warn().Msg("Using the in-memory store; data is lost on exit")
		s := memory.NewStore()
		return &Repositories{
			Members:   s.Members,
			Payments:  s.Payments,
			Exercises: s.Exercises,
			Routines:  s.Routines,
			Operators: s.Operators,
			Archives:  s.Archives,
		}, func() {}, nil
	case "mongo":
		client, err := mongo.ConnectDB(cfg.URI)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to MongoDB: %w", err)
		}
		closeFn := func() {
			if err := mongo.DisconnectDB(client); err != nil {
				log.Error().Err(err).Msg("Failed to disconnect MongoDB")
			}
		}
		db := client.Database(cfg.Name)
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("ensuring indexes: %w", err)
		}
		return &Repositories{
			Members:   mongo.NewMongoMemberRepository(db),
			Payments:  mongo.NewMongoPaymentRepository(db),
			Exercises: mongo.NewMongoExerciseRepository(db),
			Routines:  mongo.NewMongoRoutineRepository(db),
			Operators: mongo.NewMongoOperatorRepository(db),
			Archives:  mongo.NewMongoExportArchiveRepository(db),
		}, closeFn, nil
	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// OpenStorage returns the S3 archive storage, or nil when no bucket is configured.
func OpenStorage(ctx context.Context, cfg config.S3Config) (storage.FileStorage, error) {
	if cfg.BucketName == "" {
		log.Info().Msg("S3 bucket not configured; export archiving disabled")
		return nil, nil
	}
	return storage.NewS3Storage(ctx, cfg)
}

// Services holds every business service.
type Services struct {
	Auth     service.AuthService
	Members  service.MemberService
	Payments service.PaymentService
	Exercise service.ExerciseService
	Routines service.RoutineService
	Clients  service.ClientService
	Export   service.ExportService
}

// NewServices builds the services on top of repos. files may be nil.
func NewServices(cfg config.Config, repos *Repositories, files storage.FileStorage) (*Services, error) {
	loc, err := cfg.App.Location()
	if err != nil {
		return nil, err
	}
	prices, err := cfg.Payments.PlanPrices()
	if err != nil {
		return nil, err
	}
	operatorTokens := service.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Expiration, nil)
	clientTokens := service.NewTokenIssuer(cfg.JWT.Secret, cfg.ClientSession.Expiration, nil)

	return &Services{
		Auth:     service.NewAuthService(repos.Operators, operatorTokens),
		Members:  service.NewMemberService(repos.Members, repos.Payments, repos.Routines, loc, nil),
		Payments: service.NewPaymentService(repos.Payments, repos.Members, prices, cfg.Payments.DefaultPlan, loc, nil),
		Exercise: service.NewExerciseService(repos.Exercises, repos.Routines),
		Routines: service.NewRoutineService(repos.Routines, repos.Members, repos.Exercises, nil),
		Clients:  service.NewClientService(repos.Members, repos.Routines, repos.Exercises, clientTokens),
		Export:   service.NewExportService(repos.Members, repos.Archives, files, nil),
	}, nil
}
