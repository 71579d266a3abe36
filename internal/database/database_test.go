package database_test

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/archdesk/internal/database/migrations"
)

func TestMigrations_Embedded(t *testing.T) {
	names, err := fs.Glob(migrations.Migrations, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for _, name := range names {
		raw, err := fs.ReadFile(migrations.Migrations, name)
		require.NoError(t, err)

		body := string(raw)
		assert.True(t, strings.HasPrefix(body, "-- +goose Up"), name)
		assert.Contains(t, body, "-- +goose Down", name)
	}
}

func TestMigrations_ProjectReferencesNotEnforced(t *testing.T) {
	names, err := fs.Glob(migrations.Migrations, "*.sql")
	require.NoError(t, err)

	for _, name := range names {
		raw, err := fs.ReadFile(migrations.Migrations, name)
		require.NoError(t, err)

		assert.NotContains(t, strings.ToUpper(string(raw)), "REFERENCES PROJECTS", name)
	}
}
