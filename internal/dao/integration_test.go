package dao

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/deppfellow/userstore/internal/config"
	"github.com/deppfellow/userstore/internal/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// openDatabase connects to the database named by the DB_* variables.
// Tests using it are skipped unless USERSTORE_INTEGRATION=1.
func openDatabase(t *testing.T, pool config.PoolEnv) *database.Database {
	t.Helper()

	if os.Getenv("USERSTORE_INTEGRATION") != "1" {
		t.Skip("set USERSTORE_INTEGRATION=1 to run against PostgreSQL")
	}

	creds, err := database.ResolveCredentials("", config.DatabaseConfig{
		LocalFallback: true,
		Host:          envOr("DB_HOST", "localhost"),
		Port:          envOr("DB_PORT", "5432"),
		Name:          envOr("DB_NAME", "postgres"),
		User:          envOr("DB_USER", "postgres"),
		Password:      envOr("DB_PASS", "postgres"),
	})
	require.NoError(t, err)

	if pool.SSLMode == "" {
		pool.SSLMode = envOr("PG_SSLMODE", "disable")
	}

	db, err := database.New(context.Background(), creds, pool, database.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func uniqueEmail() string {
	return uuid.NewString() + "@example.test"
}

func TestIntegration_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openDatabase(t, config.PoolEnv{})

	d, err := Provision(ctx, db)
	require.NoError(t, err)

	// Provisioning twice is harmless.
	_, err = Provision(ctx, db)
	require.NoError(t, err)

	email := uniqueEmail()
	id, err := d.Create(ctx, UserRecord{FirstName: "Ada", LastName: "Lovelace", Email: email})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	got, err := d.Read(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, UserRecord{ID: id, FirstName: "Ada", LastName: "Lovelace", Email: email}, *got)

	all, err := d.ReadAll(ctx)
	require.NoError(t, err)
	assert.Contains(t, all, *got)

	n, err := d.Update(ctx, id, UserRecord{FirstName: "Augusta", LastName: "King", Email: email})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err = d.Read(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Augusta", got.FirstName)
	assert.Equal(t, id, got.ID)

	n, err = d.Delete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err = d.Read(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)

	n, err = d.Delete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = d.Update(ctx, uuid.New(), UserRecord{FirstName: "x", LastName: "y", Email: uniqueEmail()})
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestIntegration_ConcurrentDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	db := openDatabase(t, config.PoolEnv{})

	d, err := Provision(ctx, db)
	require.NoError(t, err)

	email := uniqueEmail()
	const writers = 2

	var wg sync.WaitGroup
	errs := make([]error, writers)
	ids := make([]uuid.UUID, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], errs[i] = d.Create(ctx, UserRecord{FirstName: "Dup", LastName: "Licate", Email: email})
		}(i)
	}
	wg.Wait()

	var created, conflicts int
	for i, err := range errs {
		var unique *UniqueViolationError
		switch {
		case err == nil:
			created++
			t.Cleanup(func() { _, _ = d.Delete(context.Background(), ids[i]) })
		case errors.As(err, &unique):
			conflicts++
			assert.Equal(t, "email", unique.Field)
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, conflicts)
}

func TestIntegration_PoolExhaustion(t *testing.T) {
	ctx := context.Background()
	db := openDatabase(t, config.PoolEnv{MaxConns: "1", MinConns: "0", ConnTimeoutMs: "200"})

	d, err := Provision(ctx, db)
	require.NoError(t, err)

	held, err := db.Pool.Acquire(ctx)
	require.NoError(t, err)
	defer held.Release()

	_, err = d.Read(ctx, uuid.New())

	var unexpected *UnexpectedError
	require.ErrorAs(t, err, &unexpected)
	assert.ErrorIs(t, err, database.ErrPoolTimeout)
}
