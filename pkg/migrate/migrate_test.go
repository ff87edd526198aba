package migrate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"

	"github.com/airbear/airbear-backend/pkg/db"
)

func TestInitMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_init.sql"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS users",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (email)",
		"CREATE TABLE IF NOT EXISTS airbears",
		"CHECK (battery_level BETWEEN 0 AND 100)",
		"CHECK (pickup_spot_id <> destination_spot_id)",
		"CHECK (fare >= 0)",
		"CHECK (total_amount >= 0)",
		"DROP TABLE IF EXISTS payments",
	}
	for _, sub := range checks {
		assert.Contains(t, content, sub)
	}
}

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	versions, err := ValidateDir("migrations")
	require.NoError(t, err)
	assert.Equal(t, []string{"20250101000000", "20250301000000"}, versions)
}

func TestCreateThenValidate(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

	path, err := createAt(dir, "Add Ride Ratings!", at)
	require.NoError(t, err)
	assert.Equal(t, "20250304050607_add_ride_ratings.sql", filepath.Base(path))

	_, err = createAt(dir, "add ride ratings", at)
	require.Error(t, err)

	versions, err := ValidateDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"20250304050607"}, versions)
}

func TestValidateDirRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad-name.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	_, err := ValidateDir(dir)
	require.Error(t, err)

	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20250101000000_x.sql"), []byte("-- +goose Up\nSELECT 1;\n"), 0o644))
	_, err = ValidateDir(dir)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "Down"))
}

func TestSlugAndDialect(t *testing.T) {
	assert.Equal(t, "create_rides", Slug("  Create Rides "))
	assert.Equal(t, "", Slug("!!!"))
	assert.Equal(t, "sqlite3", Dialect("sqlite"))
	assert.Equal(t, "postgres", Dialect("postgres"))
}

func TestRunUpOnSQLite(t *testing.T) {
	conn, err := db.Open(sqlite.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared"))
	require.NoError(t, err)
	client := db.NewFromConn(conn)
	t.Cleanup(func() { _ = client.Close() })

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	require.NoError(t, Run(context.Background(), sqlDB, client.Dialect(), "migrations", "up"))

	for _, table := range []string{"users", "spots", "airbears", "rides", "bodega_items", "orders", "payments"} {
		assert.True(t, conn.Migrator().HasTable(table), table)
	}
}
