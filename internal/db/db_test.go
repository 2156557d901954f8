package db

import (
	"errors"
	"os"
	"os/exec"
	"testing"

	"parana-shopper/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(name string) *config.Config {
	return &config.Config{
		DBHost:     "localhost",
		DBUser:     "shopper",
		DBPassword: "secret",
		DBName:     name,
		DBPort:     "5432",
	}
}

func TestBuildDSN(t *testing.T) {
	expected := "host=localhost user=shopper password=secret dbname=parana port=5432 sslmode=disable"
	assert.Equal(t, expected, buildDSN(testConfig("parana")))
}

func TestNewDatabaseWithDriver(t *testing.T) {
	t.Run("Ping Succeeds", func(t *testing.T) {
		cfg := testConfig("ping_ok")
		_, mock, err := sqlmock.NewWithDSN(buildDSN(cfg), sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		mock.ExpectPing()

		database, err := newDatabaseWithDriver(cfg, "sqlmock")

		require.NoError(t, err)
		assert.Equal(t, 10, database.Stats().MaxOpenConnections)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Ping Fails", func(t *testing.T) {
		cfg := testConfig("ping_fail")
		_, mock, err := sqlmock.NewWithDSN(buildDSN(cfg), sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))
		mock.ExpectClose()

		database, err := newDatabaseWithDriver(cfg, "sqlmock")

		assert.Nil(t, database)
		assert.ErrorContains(t, err, "failed to ping DB")
		assert.ErrorContains(t, err, "connection refused")
	})

	t.Run("Unknown Driver", func(t *testing.T) {
		database, err := newDatabaseWithDriver(&config.Config{}, "invalid_driver_name")

		assert.Nil(t, database)
		assert.ErrorContains(t, err, "failed to connect to DB")
	})
}

func TestNewDatabase_Unreachable(t *testing.T) {
	database, err := NewDatabase(&config.Config{DBHost: "invalid_host", DBPort: "5432"})

	assert.Nil(t, database)
	assert.ErrorContains(t, err, "failed to ping DB")
}

func TestInitDB_ExitsWhenUnavailable(t *testing.T) {
	// Re-run this test in a subprocess; InitDB exits the process on failure.
	if os.Getenv("PARANA_INITDB_CRASH") == "1" {
		InitDB(&config.Config{DBHost: "invalid_host", DBPort: "5432"})
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestInitDB_ExitsWhenUnavailable")
	cmd.Env = append(os.Environ(), "PARANA_INITDB_CRASH=1")
	err := cmd.Run()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && !exitErr.Success() {
		return
	}
	t.Fatalf("process ran with err %v, want exit status 1", err)
}
