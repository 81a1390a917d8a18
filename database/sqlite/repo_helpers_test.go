package sqlite_test

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	_ "modernc.org/sqlite"

	"github.com/picshelf/picshelf"
	"github.com/picshelf/picshelf/database/sqlite"
)

func getRandomString(t *testing.T) string {
	t.Helper()
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	assert.NoError(t, err, "random string")
	return fmt.Sprintf("test%x", n.Int64())
}

// getTestDatabase creates an in-memory SQLite database for testing
func getTestDatabase(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	assert.NoError(t, err, "failed to open sqlite database")

	cleanup := func() {
		if db != nil {
			_ = db.Close()
		}
	}

	return db, cleanup
}

// setupTestRepo creates a repo with unique table names for test isolation
func setupTestRepo(t *testing.T) (picshelf.GalleryRepo, func()) {
	t.Helper()

	db, dbCleanup := getTestDatabase(t)
	ctx := context.Background()

	suffix := getRandomString(t)
	tables := picshelf.Tables{
		Images: fmt.Sprintf("images_%s", suffix),
		Users:  fmt.Sprintf("users_%s", suffix),
	}

	err := sqlite.Migrate(ctx, db, tables)
	assert.NoError(t, err, "failed to migrate")

	err = sqlite.ValidateSchema(ctx, db, tables)
	assert.NoError(t, err, "failed to validate schema")

	repo, err := sqlite.NewRepo(db, tables)
	assert.NoError(t, err, "failed to create repo")

	cleanup := func() {
		_ = sqlite.DropTables(ctx, db, tables)
		dbCleanup()
	}

	return repo, cleanup
}
