package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fabrikasoft/fabrika-api/internal/repository"
)

// DashboardService aggregates production statistics for the admin dashboard.
type DashboardService struct {
	dashRepo *repository.DashboardRepository
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(dashRepo *repository.DashboardRepository) *DashboardService {
	return &DashboardService{dashRepo: dashRepo}
}

// DashboardStats is the full dashboard payload.
type DashboardStats struct {
	Overall     *repository.OverallStats     `json:"overall"`
	Departments []repository.DepartmentStats `json:"departments"`
}

// GetStats returns overall and per-department aggregates, optionally bounded
// by a YYYY-MM-DD date range. The end date is inclusive.
func (s *DashboardService) GetStats(ctx context.Context, startDate, endDate string) (*DashboardStats, error) {
	from, to, err := parseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	overall, err := s.dashRepo.GetOverallStats(ctx, from, to)
	if err != nil {
		return nil, err
	}
	departments, err := s.dashRepo.GetDepartmentStats(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return &DashboardStats{Overall: overall, Departments: departments}, nil
}

func parseDateRange(startDate, endDate string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if startDate != "" {
		t, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid start date %q", startDate)
		}
		from = &t
	}
	if endDate != "" {
		t, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid end date %q", endDate)
		}
		t = t.Add(24*time.Hour - time.Nanosecond)
		to = &t
	}
	return from, to, nil
}
