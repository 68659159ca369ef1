package laboratory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Order(ctx context.Context, o *Order) error {
	if o.PatientID == uuid.Nil {
		return fmt.Errorf("patientId is required")
	}
	if o.DoctorID == uuid.Nil {
		return fmt.Errorf("doctorId is required")
	}
	if len(o.Tests) == 0 {
		return fmt.Errorf("an order needs at least one test")
	}
	for _, t := range o.Tests {
		if t.Name == "" {
			return fmt.Errorf("every test needs a name")
		}
	}
	o.Status = StatusOrdered
	o.CompletedAt = nil
	return s.repo.Create(ctx, o)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Order, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

// Start marks an ordered order as being worked on by the lab.
func (s *Service) Start(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status != StatusOrdered {
		return nil, fmt.Errorf("only ordered orders can be started, this one is %s", o.Status)
	}
	o.Status = StatusInProgress
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// ResultEntry carries one test result keyed by the test row id.
type ResultEntry struct {
	TestID   uuid.UUID `json:"testId"`
	Result   string    `json:"result"`
	Unit     string    `json:"unit"`
	RefRange string    `json:"refRange"`
	Flag     string    `json:"flag"`
}

// EnterResults records results for every test and completes the order.
// Completed orders are immutable.
func (s *Service) EnterResults(ctx context.Context, id uuid.UUID, results []ResultEntry) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status == StatusCompleted {
		return nil, ErrClosed
	}

	byID := make(map[uuid.UUID]ResultEntry, len(results))
	for _, res := range results {
		byID[res.TestID] = res
	}
	for i := range o.Tests {
		res, ok := byID[o.Tests[i].ID]
		if !ok {
			return nil, fmt.Errorf("missing result for test %s", o.Tests[i].Name)
		}
		if res.Result == "" {
			return nil, fmt.Errorf("empty result for test %s", o.Tests[i].Name)
		}
		o.Tests[i].Result = res.Result
		if res.Unit != "" {
			o.Tests[i].Unit = res.Unit
		}
		if res.RefRange != "" {
			o.Tests[i].RefRange = res.RefRange
		}
		if res.Flag != "" {
			o.Tests[i].Flag = res.Flag
		}
	}

	now := time.Now().UTC()
	o.Status = StatusCompleted
	o.CompletedAt = &now
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}
