// AngelaMos | 2026
// repository_test.go

package user

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/subtracker/internal/config"
	"github.com/carterperez-dev/subtracker/internal/core"
)

// openTestDB connects to TEST_DATABASE_URL and applies the schema. The
// Postgres tests are skipped when it is unset.
func openTestDB(t *testing.T) *core.Database {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := core.NewDatabase(ctx, config.DatabaseConfig{
		URL:             url,
		MaxOpenConns:    5,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := core.Migrate(ctx, db.DB); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func uniqueEmail() string {
	return uuid.NewString() + "@example.com"
}

func countByEmail(t *testing.T, db *core.Database, email string) int {
	t.Helper()

	var n int
	err := db.DB.GetContext(context.Background(), &n,
		`SELECT COUNT(*) FROM users WHERE email = $1`, email)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestRepositoryPostgresCreateDuplicate(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewRepository(db.DB, core.NewMetrics("test"))

	email := uniqueEmail()
	first := &User{Email: email, PasswordHash: "hash-1"}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() { _ = repo.Delete(context.Background(), first.ID) })

	if first.ID == 0 || first.CreatedAt.IsZero() || first.UpdatedAt.IsZero() {
		t.Fatalf("generated columns not populated: %+v", first)
	}

	err := repo.Create(ctx, &User{Email: email, PasswordHash: "hash-2"})
	if !errors.Is(err, core.ErrDuplicateKey) {
		t.Fatalf("second create err = %v, want ErrDuplicateKey", err)
	}

	if n := countByEmail(t, db, email); n != 1 {
		t.Fatalf("rows for %s = %d, want 1", email, n)
	}

	exists, err := repo.ExistsByEmail(ctx, email)
	if err != nil || !exists {
		t.Fatalf("exists = (%v, %v)", exists, err)
	}
}

func TestRepositoryPostgresMissingUser(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewRepository(db.DB, nil)

	if _, err := repo.GetByEmail(ctx, uniqueEmail()); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("GetByEmail err = %v, want ErrNotFound", err)
	}
	if _, err := repo.GetByID(ctx, -1); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("GetByID err = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, -1); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("Delete err = %v, want ErrNotFound", err)
	}
	if err := repo.UpdatePassword(ctx, -1, "x"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("UpdatePassword err = %v, want ErrNotFound", err)
	}
	if err := repo.Update(ctx, &User{ID: -1, Email: uniqueEmail()}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("Update err = %v, want ErrNotFound", err)
	}

	exists, err := repo.ExistsByEmail(ctx, uniqueEmail())
	if err != nil || exists {
		t.Fatalf("exists = (%v, %v)", exists, err)
	}
}

func TestRepositoryPostgresUpdate(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewRepository(db.DB, nil)

	u := &User{Email: uniqueEmail(), PasswordHash: "hash"}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() { _ = repo.Delete(context.Background(), u.ID) })

	createdAt, before := u.CreatedAt, u.UpdatedAt
	time.Sleep(10 * time.Millisecond)

	u.Email = uniqueEmail()
	if err := repo.Update(ctx, u); err != nil {
		t.Fatalf("update: %v", err)
	}
	if !u.UpdatedAt.After(before) {
		t.Fatalf("updated_at did not advance: %v -> %v", before, u.UpdatedAt)
	}

	stored, err := repo.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Email != u.Email || !stored.CreatedAt.Equal(createdAt) {
		t.Fatalf("stored = %+v", stored)
	}

	other := &User{Email: uniqueEmail(), PasswordHash: "hash"}
	if err := repo.Create(ctx, other); err != nil {
		t.Fatalf("create other: %v", err)
	}
	t.Cleanup(func() { _ = repo.Delete(context.Background(), other.ID) })

	other.Email = u.Email
	if err := repo.Update(ctx, other); !errors.Is(err, core.ErrDuplicateKey) {
		t.Fatalf("email collision err = %v, want ErrDuplicateKey", err)
	}

	if err := repo.UpdatePassword(ctx, u.ID, "new-hash"); err != nil {
		t.Fatalf("update password: %v", err)
	}
	stored, _ = repo.GetByID(ctx, u.ID)
	if stored.PasswordHash != "new-hash" {
		t.Fatalf("password hash = %q", stored.PasswordHash)
	}
}
