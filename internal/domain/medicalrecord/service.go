package medicalrecord

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// icd10Pattern matches codes like A09, J06.9, S72.01.
var icd10Pattern = regexp.MustCompile(`^[A-Z][0-9]{2}(\.[0-9]{1,2})?$`)

// Syncer receives completed encounters for forwarding to external
// registries. Implementations must not block charting on network calls.
type Syncer interface {
	EncounterCreated(ctx context.Context, rec *Record)
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

func (s *Service) Create(ctx context.Context, rec *Record) error {
	if err := validate(rec); err != nil {
		return err
	}
	if rec.Date == "" {
		rec.Date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", rec.Date); err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD")
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return err
	}
	if s.syncer != nil {
		s.syncer.EncounterCreated(ctx, rec)
	}
	return nil
}

func validate(rec *Record) error {
	if rec.PatientID == uuid.Nil {
		return fmt.Errorf("patientId is required")
	}
	if rec.DoctorID == uuid.Nil {
		return fmt.Errorf("doctorId is required")
	}
	if rec.Subjective == "" && rec.Assessment == "" {
		return fmt.Errorf("an encounter needs a subjective note or an assessment")
	}
	if rec.DiagnosisCode != "" && !icd10Pattern.MatchString(rec.DiagnosisCode) {
		return fmt.Errorf("diagnosisCode is not a valid ICD-10 code")
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, rec *Record) error {
	if rec.DiagnosisCode != "" && !icd10Pattern.MatchString(rec.DiagnosisCode) {
		return fmt.Errorf("diagnosisCode is not a valid ICD-10 code")
	}
	return s.repo.Update(ctx, rec)
}

func (s *Service) History(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Record, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}
