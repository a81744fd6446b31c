package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"medcare-api/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	names, err := fs.Glob(FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	ups, downs := 0, 0
	for _, name := range names {
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups++
		case strings.HasSuffix(name, ".down.sql"):
			downs++
		}
	}
	assert.Equal(t, ups, downs)
}

func TestInitialSchemaGuardsActiveSlot(t *testing.T) {
	body, err := fs.ReadFile(FS, "000001_init_schema.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "idx_appointments_active_slot")
}

func TestDatabaseURL(t *testing.T) {
	got := DatabaseURL(config.DBConfig{
		Host: "db", Port: "5432", User: "app", Password: "p@ss", Name: "medcare", SSLMode: "disable",
	})
	assert.Equal(t, "pgx5://app:p%40ss@db:5432/medcare?sslmode=disable", got)
}
