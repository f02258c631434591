package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/infrastructure/memory"
)

func TestDashboardService_Stats(t *testing.T) {
	store := memory.NewSeededStore(memory.Options{})
	svc := NewDashboardService(store, store, zerolog.Nop())

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.TotalUsers != 10 || stats.ActiveUsers != 6 || stats.InactiveUsers != 2 || stats.PendingUsers != 2 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if notActive := stats.InactiveUsers + stats.PendingUsers; notActive != stats.TotalUsers-stats.ActiveUsers {
		t.Fatalf("inactive plus pending must cover every non-active user, got %d", notActive)
	}
	if stats.RecentSignups != RecentSignupsWindow {
		t.Fatalf("expected %d recent signups, got %d", RecentSignupsWindow, stats.RecentSignups)
	}
	want := map[string]int{"Admin": 2, "Manager": 3, "Staff": 5, "Viewer": 0}
	for role, n := range want {
		if stats.UsersByRole[role] != n {
			t.Fatalf("role %s: expected %d, got %d", role, n, stats.UsersByRole[role])
		}
	}
}

func TestDashboardService_Stats_StoreFailure(t *testing.T) {
	store := memory.NewSeededStore(memory.Options{Fault: func(op string) error {
		if op == "list roles" {
			return domain.ErrTransient
		}
		return nil
	}})
	svc := NewDashboardService(store, store, zerolog.Nop())

	if _, err := svc.Stats(context.Background()); !errors.Is(err, domain.ErrTransient) {
		t.Fatalf("expected ErrTransient, got %v", err)
	}
}

func TestGrowth_CumulativeByMonth(t *testing.T) {
	at := func(y int, m time.Month, d int) domain.User {
		return domain.User{CreatedAt: time.Date(y, m, d, 12, 0, 0, 0, time.UTC)}
	}
	users := []domain.User{
		at(2023, time.March, 3),
		at(2023, time.January, 15),
		at(2023, time.January, 31),
		at(2024, time.July, 1),
	}

	points := growth(users)
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d: %+v", len(points), points)
	}
	want := []struct {
		month string
		total int
	}{{"Jan 23", 2}, {"Mar 23", 3}, {"Jul 24", 4}}
	for i, w := range want {
		if points[i].Month != w.month || points[i].TotalUsers != w.total {
			t.Fatalf("point %d: expected %s=%d, got %+v", i, w.month, w.total, points[i])
		}
	}
}

func TestGrowth_Empty(t *testing.T) {
	if points := growth(nil); len(points) != 0 {
		t.Fatalf("expected no points, got %+v", points)
	}
}
