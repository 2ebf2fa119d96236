package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/gym-admin/internal/config"
	"alcyxob/gym-admin/internal/service"
)

func testConfig() config.Config {
	return config.Config{
		App:           config.AppConfig{Env: "development", Timezone: "America/Argentina/Buenos_Aires"},
		Database:      config.DatabaseConfig{Driver: "memory"},
		JWT:           config.JWTConfig{Secret: "secret", Expiration: time.Hour},
		ClientSession: config.ClientSessionConfig{CookieName: "s", Expiration: time.Hour},
		Payments:      config.PaymentsConfig{Plans: map[string]string{"1": "15000"}, DefaultPlan: "1"},
	}
}

func TestMemoryWiring(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()

	repos, closeFn, err := OpenRepositories(ctx, cfg.Database)
	require.NoError(t, err)
	defer closeFn()

	files, err := OpenStorage(ctx, cfg.S3)
	require.NoError(t, err)
	assert.Nil(t, files)

	services, err := NewServices(cfg, repos, files)
	require.NoError(t, err)

	m, err := services.Members.CreateMember(ctx, service.MemberInput{DNI: "1", FullName: "Ana"})
	require.NoError(t, err)
	p, err := services.Payments.ToggleCurrent(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "1", p.Plan)

	_, err = services.Export.Archive(ctx, m.ID)
	assert.ErrorIs(t, err, service.ErrArchiveDisabled)
}

func TestUnknownDriver(t *testing.T) {
	_, _, err := OpenRepositories(context.Background(), config.DatabaseConfig{Driver: "sqlite"})
	assert.Error(t, err)
}
