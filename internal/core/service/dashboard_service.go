package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
)

// RecentSignupsWindow caps the "recent signups" card.
const RecentSignupsWindow = 5

// GrowthLabelLayout renders a month as "Jan 23".
const GrowthLabelLayout = "Jan 06"

// DashboardService derives the dashboard cards from the stores.
type DashboardService struct {
	users  ports.UserStore
	roles  ports.RoleStore
	logger zerolog.Logger
}

func NewDashboardService(users ports.UserStore, roles ports.RoleStore, logger zerolog.Logger) *DashboardService {
	return &DashboardService{users: users, roles: roles, logger: logger}
}

// Stats loads users and roles concurrently and counts them.
func (s *DashboardService) Stats(ctx context.Context) (*ports.DashboardStats, error) {
	var (
		users []domain.User
		names map[string]string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = s.users.ListUsers(gctx)
		if err != nil {
			return fmt.Errorf("load users: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		names, err = roleNames(gctx, s.roles)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("dashboard stats failed")
		return nil, err
	}

	stats := &ports.DashboardStats{
		TotalUsers:    len(users),
		UsersByRole:   make(map[string]int, len(names)),
		RecentSignups: min(RecentSignupsWindow, len(users)),
	}
	for _, name := range names {
		stats.UsersByRole[name] = 0
	}
	for _, u := range users {
		switch u.Status {
		case domain.StatusActive:
			stats.ActiveUsers++
		case domain.StatusInactive:
			stats.InactiveUsers++
		case domain.StatusPending:
			stats.PendingUsers++
		}
		if name, ok := names[u.RoleID]; ok {
			stats.UsersByRole[name]++
		}
	}
	return stats, nil
}

// Growth returns the cumulative user count at the end of each month that saw
// at least one signup, oldest first.
func (s *DashboardService) Growth(ctx context.Context) ([]ports.GrowthPoint, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	return growth(users), nil
}

func growth(users []domain.User) []ports.GrowthPoint {
	perMonth := make(map[time.Time]int)
	for _, u := range users {
		c := u.CreatedAt.UTC()
		perMonth[time.Date(c.Year(), c.Month(), 1, 0, 0, 0, 0, time.UTC)]++
	}
	months := make([]time.Time, 0, len(perMonth))
	for m := range perMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	out := make([]ports.GrowthPoint, 0, len(months))
	total := 0
	for _, m := range months {
		total += perMonth[m]
		out = append(out, ports.GrowthPoint{Month: m.Format(GrowthLabelLayout), TotalUsers: total})
	}
	return out
}
