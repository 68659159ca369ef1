// Package dashboard aggregates figures from the other domains for the
// hospital overview screens. It owns no storage; every number is computed
// from live data, so bed capacity always reflects actual bed states.
package dashboard

import (
	"context"
	"time"

	"github.com/simrs/simrs/internal/domain/inpatient"
)

// Stats is the headline figures block.
type Stats struct {
	TotalPatients    int     `json:"totalPatients"`
	TodayVisits      int     `json:"todayVisits"`
	ActiveAdmissions int     `json:"activeAdmissions"`
	MonthlyRevenue   float64 `json:"monthlyRevenue"`
}

// Capacity reports bed usage overall and per room type.
type Capacity struct {
	TotalBeds     int                       `json:"totalBeds"`
	OccupiedBeds  int                       `json:"occupiedBeds"`
	OccupancyRate float64                   `json:"occupancyRate"` // occupied / total
	ByRoomType    []inpatient.TypeOccupancy `json:"byRoomType"`
}

// The aggregation sources, one narrow interface per domain so tests can
// substitute any of them.
type (
	PatientCounter interface {
		Count(ctx context.Context) (int, error)
	}
	VisitCounter interface {
		CountByDate(ctx context.Context, date time.Time) (int, error)
	}
	AdmissionCounter interface {
		CountActiveAdmissions(ctx context.Context) (int, error)
		Occupancy(ctx context.Context) ([]inpatient.TypeOccupancy, error)
	}
	RevenueSource interface {
		MonthlyRevenue(ctx context.Context, t time.Time) (float64, error)
	}
)

type Service struct {
	patients   PatientCounter
	visits     VisitCounter
	admissions AdmissionCounter
	revenue    RevenueSource
	now        func() time.Time
}

func NewService(patients PatientCounter, visits VisitCounter, admissions AdmissionCounter, revenue RevenueSource) *Service {
	return &Service{
		patients:   patients,
		visits:     visits,
		admissions: admissions,
		revenue:    revenue,
		now:        time.Now,
	}
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	now := s.now()
	var st Stats
	var err error

	if st.TotalPatients, err = s.patients.Count(ctx); err != nil {
		return nil, err
	}
	if st.TodayVisits, err = s.visits.CountByDate(ctx, now); err != nil {
		return nil, err
	}
	if st.ActiveAdmissions, err = s.admissions.CountActiveAdmissions(ctx); err != nil {
		return nil, err
	}
	if st.MonthlyRevenue, err = s.revenue.MonthlyRevenue(ctx, now); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *Service) Capacity(ctx context.Context) (*Capacity, error) {
	byType, err := s.admissions.Occupancy(ctx)
	if err != nil {
		return nil, err
	}
	out := &Capacity{ByRoomType: byType}
	for _, t := range byType {
		out.TotalBeds += t.Total
		out.OccupiedBeds += t.Occupied
	}
	if out.TotalBeds > 0 {
		out.OccupancyRate = float64(out.OccupiedBeds) / float64(out.TotalBeds)
	}
	return out, nil
}
