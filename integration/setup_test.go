package integration_test

import (
	"context"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"gymhub/internal/db"
	"gymhub/internal/gym"
	"gymhub/internal/user"
)

// setupTestDB connects to TEST_DSN, applies migrations and empties every table.
// Tests are skipped when TEST_DSN is unset or unreachable.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	dsn := os.Getenv("TEST_DSN")
	if dsn == "" {
		t.Skip("Skipping integration test: TEST_DSN not set")
	}

	database, err := db.Connect(dsn)
	if err != nil {
		t.Skipf("Skipping integration test: cannot connect to test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(database, "../migrations"))

	_, err = database.Exec(`TRUNCATE memberships, gym_ratings, gyms, goer_dashboards, goers, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return database
}

func createUser(t *testing.T, database *sqlx.DB, name, email, role string) *user.User {
	t.Helper()
	u, err := user.NewRepository(database).Create(context.Background(), &user.User{
		Name:         name,
		Email:        email,
		PasswordHash: "x",
		Role:         role,
	})
	require.NoError(t, err)
	return u
}

func createGym(t *testing.T, database *sqlx.DB, ownerID int, name string, prices map[string]int64) *gym.Gym {
	t.Helper()
	g, err := gym.NewService(gym.NewRepository(database)).CreateGym(context.Background(), ownerID, gym.CreateGymRequest{
		Name:       name,
		Address:    "1 Main St",
		Facilities: []gym.Facility{gym.FacilityCardio},
		Prices:     prices,
	})
	require.NoError(t, err)
	return g
}
