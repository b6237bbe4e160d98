package repositories

import (
	"context"
	"database/sql"
	"errors"
	"logistics-sim/internal/domain"
	"logistics-sim/internal/platform/db"
	"logistics-sim/internal/ports"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(db.DriverSqlite, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := Migrate(context.Background(), conn, db.DriverSqlite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func TestRunRepositoryRoundTrip(t *testing.T) {
	repo := NewSQLRunRepository(openTestDB(t), db.DriverSqlite)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		err := repo.SaveRun(ctx, &domain.RunReport{
			ID:        id,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Params:    domain.ScenarioParams{Width: 10, Height: 5, Seed: int64(i + 1)},
			Ticks:     10 * (i + 1),
			Packages:  3,
			Delivered: 3,
			Outcome:   "delivered",
			Trucks:    []domain.TruckStats{{TruckID: 0, DistanceTraveled: 7, Delivered: 3}},
		})
		if err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	got, err := repo.GetRun(ctx, "b")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Ticks != 20 || got.Params.Seed != 2 || len(got.Trucks) != 1 || got.Trucks[0].DistanceTraveled != 7 {
		t.Fatalf("got %+v", got)
	}
	if !got.CreatedAt.Equal(base.Add(time.Minute)) {
		t.Fatalf("created at = %v", got.CreatedAt)
	}

	list, err := repo.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "c" || list[1].ID != "b" {
		t.Fatalf("list order wrong: %d items", len(list))
	}
}

func TestRunRepositoryNotFound(t *testing.T) {
	repo := NewSQLRunRepository(openTestDB(t), db.DriverSqlite)

	_, err := repo.GetRun(context.Background(), "missing")
	if !errors.Is(err, ports.ErrRunNotFound) {
		t.Fatalf("err = %v, want ErrRunNotFound", err)
	}
}

func TestRunRepositoryRejectsDuplicate(t *testing.T) {
	repo := NewSQLRunRepository(openTestDB(t), db.DriverSqlite)
	ctx := context.Background()

	r := &domain.RunReport{ID: "dup", CreatedAt: time.Now()}
	if err := repo.SaveRun(ctx, r); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.SaveRun(ctx, r); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	conn := openTestDB(t)
	if err := Migrate(context.Background(), conn, db.DriverSqlite); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}
