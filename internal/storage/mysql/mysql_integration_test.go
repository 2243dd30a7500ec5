//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"travela/internal/domain"
	mysqlrepo "travela/internal/storage/mysql"
)

// startMySQL runs an isolated MySQL and returns a migrated connection.
func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockertest: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker not reachable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=travela",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/travela?parseTime=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := mysqlrepo.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestRepo_MySQL_ProfilesAndContact(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	if _, err := repo.GetProfile(ctx, "ana"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.UpdateProfile(ctx, domain.Profile{UID: "ghost", UpdatedAt: now}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}

	p := domain.Profile{
		UID:                 "ana",
		Email:               "ana@example.com",
		Name:                "Ana",
		PreferredLanguage:   "English",
		DietaryRestrictions: map[string]bool{"none": true},
		BudgetRange:         "medium",
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := repo.CreateProfile(ctx, p); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	if err := repo.CreateProfile(ctx, p); !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	p.FullName = "Ana Traveller"
	p.DateOfBirth = "1990-04-01"
	p.TravelPreferences = map[string]bool{"food": true}
	p.PreferredAccommodation = []string{"hotel", "hostel"}
	p.SpecialRequirements = "window seat"
	p.ProfileCompleted = true
	if err := repo.UpdateProfile(ctx, p); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	// unchanged update must not be mistaken for a missing row
	if err := repo.UpdateProfile(ctx, p); err != nil {
		t.Fatalf("UpdateProfile (no-op): %v", err)
	}

	got, err := repo.GetProfile(ctx, "ana")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if !got.ProfileCompleted || got.FullName != "Ana Traveller" || !got.TravelPreferences["food"] ||
		len(got.PreferredAccommodation) != 2 || got.SpecialRequirements != "window seat" {
		t.Fatalf("unexpected profile: %+v", got)
	}

	m := domain.ContactMessage{ID: "6f1c7c1e-0000-4000-8000-000000000001", UID: "ana", Name: "Ana", Email: "ana@example.com", Subject: "Hi", Message: "Hello", CreatedAt: now}
	if err := repo.InsertContactMessage(ctx, m); err != nil {
		t.Fatalf("InsertContactMessage: %v", err)
	}
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contact_messages WHERE uid = ?`, "ana").Scan(&n); err != nil || n != 1 {
		t.Fatalf("contact count: n=%d err=%v", n, err)
	}
}
