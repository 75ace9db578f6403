package persistence

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lifeline/donor-registry/internal/config"
)

type fakeMigrator struct {
	upErr      error
	version    uint
	versionErr error
	closed     bool
}

func (f *fakeMigrator) Up() error                    { return f.upErr }
func (f *fakeMigrator) Version() (uint, bool, error) { return f.version, false, f.versionErr }
func (f *fakeMigrator) Close() (error, error)        { f.closed = true; return nil, nil }

func withMigrator(t *testing.T, m migrator, err error) {
	t.Helper()
	orig := newMigrator
	newMigrator = func(string) (migrator, error) { return m, err }
	t.Cleanup(func() { newMigrator = orig })
}

func TestRunMigrations(t *testing.T) {
	logger := zap.NewNop()

	t.Run("no dsn skips", func(t *testing.T) {
		withMigrator(t, nil, errors.New("must not be called"))
		require.NoError(t, RunMigrations("", logger))
	})

	t.Run("open failure", func(t *testing.T) {
		withMigrator(t, nil, errors.New("open"))
		require.EqualError(t, RunMigrations("postgres://x", logger), "open")
	})

	t.Run("up failure", func(t *testing.T) {
		m := &fakeMigrator{upErr: errors.New("dirty database")}
		withMigrator(t, m, nil)
		require.Error(t, RunMigrations("postgres://x", logger))
		assert.True(t, m.closed)
	})

	t.Run("no change is success", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		m := &fakeMigrator{upErr: migrate.ErrNoChange, version: 2}
		withMigrator(t, m, nil)
		require.NoError(t, RunMigrations("postgres://x", zap.New(core)))
		require.Equal(t, 1, logs.FilterMessage("migrations applied").Len())
		assert.Equal(t, uint64(2), logs.All()[0].ContextMap()["version"])
	})

	t.Run("nil version is success", func(t *testing.T) {
		withMigrator(t, &fakeMigrator{versionErr: migrate.ErrNilVersion}, nil)
		require.NoError(t, RunMigrations("postgres://x", logger))
	})
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)

	ups, downs := 0, 0
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		}
	}
	assert.Equal(t, ups, downs)
	assert.GreaterOrEqual(t, ups, 2)

	users, err := fs.ReadFile(migrationsFS, "migrations/000001_create_users.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(users), "UNIQUE INDEX IF NOT EXISTS users_email_key ON users (LOWER(email))")
}

func TestUnconfiguredStores(t *testing.T) {
	ctx := context.Background()

	pg, err := NewPostgres(ctx, config.PostgresConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, pg.Enabled())
	assert.ErrorIs(t, pg.Ping(ctx), ErrNotConfigured)
	pg.Close()

	core, logs := observer.New(zapcore.WarnLevel)
	r := NewRedis(ctx, config.RedisConfig{}, zap.New(core))
	assert.False(t, r.Enabled())
	assert.ErrorIs(t, r.Ping(ctx), ErrNotConfigured)
	assert.Equal(t, 1, logs.Len())
	r.Close()
}

func TestNewPostgresRejectsBadDSN(t *testing.T) {
	_, err := NewPostgres(context.Background(), config.PostgresConfig{DSN: "postgres://%zz"}, zap.NewNop())
	assert.Error(t, err)
}
