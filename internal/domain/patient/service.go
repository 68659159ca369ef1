package patient

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Syncer receives newly registered patients for forwarding to external
// registries. Implementations must not block registration on network calls.
type Syncer interface {
	PatientRegistered(ctx context.Context, p *Patient)
}

type Service struct {
	repo   Repository
	syncer Syncer
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SetSyncer attaches an external registry hook. A nil syncer disables
// forwarding.
func (s *Service) SetSyncer(sync Syncer) { s.syncer = sync }

var validGenders = map[string]bool{"male": true, "female": true}

func (s *Service) Register(ctx context.Context, p *Patient) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Gender == "" || !validGenders[p.Gender] {
		return fmt.Errorf("gender must be male or female")
	}
	if p.BirthDate.IsZero() {
		return fmt.Errorf("birthDate is required")
	}
	if p.NIK != nil && len(*p.NIK) != 16 {
		return fmt.Errorf("nik must be 16 digits")
	}
	if p.MRN == "" {
		p.MRN = generateMRN(time.Now())
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}
	if s.syncer != nil && p.NIK != nil {
		s.syncer.PatientRegistered(ctx, p)
	}
	return nil
}

// generateMRN builds a medical record number of the form MRN-YYYYMM-XXXXXX
// with a random hex suffix. Uniqueness is enforced by the store.
func generateMRN(now time.Time) string {
	var b [3]byte
	_, _ = rand.Read(b[:])
	return fmt.Sprintf("MRN-%s-%s", now.Format("200601"), strings.ToUpper(hex.EncodeToString(b[:])))
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByMRN(ctx context.Context, mrn string) (*Patient, error) {
	return s.repo.GetByMRN(ctx, mrn)
}

func (s *Service) Update(ctx context.Context, p *Patient) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Gender != "" && !validGenders[p.Gender] {
		return fmt.Errorf("gender must be male or female")
	}
	if p.NIK != nil && len(*p.NIK) != 16 {
		return fmt.Errorf("nik must be 16 digits")
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Patient, int, error) {
	return s.repo.Search(ctx, params, limit, offset)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
