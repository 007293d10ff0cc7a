package postgres

import (
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	migrations, err := goose.CollectMigrations(migrationsDir, 0, goose.MaxVersion)
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	assert.Equal(t, int64(1), migrations[0].Version)
	for i, m := range migrations {
		assert.Equal(t, int64(i+1), m.Version, "migration versions must be contiguous: %s", m.Source)
	}
}

func TestEmbeddedMigrations_Annotated(t *testing.T) {
	entries, err := migrationFS.ReadDir(migrationsDir)
	require.NoError(t, err)

	for _, e := range entries {
		body, err := migrationFS.ReadFile(migrationsDir + "/" + e.Name())
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", e.Name())
		assert.Contains(t, string(body), "-- +goose Down", e.Name())
	}
}
