package main

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/simrs/simrs/internal/domain/inpatient"
	"github.com/simrs/simrs/internal/domain/patient"
	"github.com/simrs/simrs/internal/domain/pharmacy"
	"github.com/simrs/simrs/internal/domain/staff"
	"github.com/simrs/simrs/internal/platform/db"
)

func seedCmd() *cobra.Command {
	var patients int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with demo data",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.UseMemoryStore() {
				return fmt.Errorf("DATABASE_URL is required for seeding")
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, db.PoolConfig{URL: cfg.DatabaseURL, MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer pool.Close()

			return seed(ctx, pool, patients)
		},
	}
	cmd.Flags().IntVar(&patients, "patients", 50, "number of demo patients")
	return cmd
}

var specialties = []struct{ specialty, polyclinic string }{
	{"Umum", "Poli Umum"},
	{"Anak", "Poli Anak"},
	{"Penyakit Dalam", "Poli Penyakit Dalam"},
	{"Obgyn", "Poli Kandungan"},
	{"Gigi", "Poli Gigi"},
}

var demoMedications = []pharmacy.Medication{
	{Code: "MED-001", Name: "Paracetamol 500mg", Category: "analgesik", Unit: "tablet", Stock: 500, MinStock: 100, Price: 500},
	{Code: "MED-002", Name: "Amoxicillin 500mg", Category: "antibiotik", Unit: "kapsul", Stock: 300, MinStock: 50, Price: 1500},
	{Code: "MED-003", Name: "Omeprazole 20mg", Category: "antasida", Unit: "kapsul", Stock: 200, MinStock: 40, Price: 2000},
	{Code: "MED-004", Name: "OBH Combi 100ml", Category: "batuk", Unit: "botol", Stock: 80, MinStock: 20, Price: 15000},
	{Code: "MED-005", Name: "Cetirizine 10mg", Category: "antihistamin", Unit: "tablet", Stock: 150, MinStock: 30, Price: 800},
}

func seed(ctx context.Context, pool *pgxpool.Pool, nPatients int) error {
	gofakeit.Seed(0)

	patientSvc := patient.NewService(patient.NewPGRepo(pool))
	staffSvc := staff.NewService(staff.NewPGRepo(pool))
	pharmacySvc := pharmacy.NewService(pharmacy.NewPGRepo(pool))
	inpatientSvc := inpatient.NewService(inpatient.NewPGRepo(pool), nil)

	for i := 0; i < nPatients; i++ {
		nik := fmt.Sprintf("31%014d", gofakeit.Number(0, 99999999999999))
		gender := "male"
		if gofakeit.Bool() {
			gender = "female"
		}
		phone := gofakeit.Phone()
		address := gofakeit.Address().Address
		insurance := "BPJS"
		p := &patient.Patient{
			Name:      gofakeit.Name(),
			NIK:       &nik,
			Gender:    gender,
			BirthDate: gofakeit.DateRange(time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)),
			Phone:     &phone,
			Address:   &address,
			Insurance: &insurance,
		}
		if err := patientSvc.Register(ctx, p); err != nil {
			return fmt.Errorf("seed patient: %w", err)
		}
	}

	for i, sp := range specialties {
		nik := fmt.Sprintf("31%014d", gofakeit.Number(0, 99999999999999))
		phone := gofakeit.Phone()
		d := &staff.Doctor{
			SIP:        fmt.Sprintf("SIP/2026/%04d", i+1),
			NIK:        &nik,
			Name:       "dr. " + gofakeit.Name(),
			Specialty:  sp.specialty,
			Polyclinic: sp.polyclinic,
			Phone:      &phone,
		}
		if err := staffSvc.Create(ctx, d); err != nil {
			return fmt.Errorf("seed doctor: %w", err)
		}
	}

	for i := range demoMedications {
		m := demoMedications[i]
		if err := pharmacySvc.CreateMedication(ctx, &m); err != nil {
			return fmt.Errorf("seed medication: %w", err)
		}
	}

	rooms := []inpatient.Room{
		{Number: "201", Ward: "Melati", Type: "regular", BedCount: 4, CostPerDay: 350000},
		{Number: "202", Ward: "Melati", Type: "regular", BedCount: 4, CostPerDay: 350000},
		{Number: "301", Ward: "Anggrek", Type: "vip", BedCount: 1, CostPerDay: 900000},
		{Number: "401", Ward: "ICU", Type: "icu", BedCount: 2, CostPerDay: 1500000},
	}
	for i := range rooms {
		r := rooms[i]
		if err := inpatientSvc.CreateRoom(ctx, &r); err != nil {
			return fmt.Errorf("seed room: %w", err)
		}
		for b := 0; b < r.BedCount; b++ {
			bed := inpatient.Bed{RoomID: r.ID, Number: fmt.Sprintf("%s-%c", r.Number, 'A'+b)}
			if err := inpatientSvc.CreateBed(ctx, &bed); err != nil {
				return fmt.Errorf("seed bed: %w", err)
			}
		}
	}

	fmt.Printf("seeded %d patients, %d doctors, %d medications, %d rooms\n",
		nPatients, len(specialties), len(demoMedications), len(rooms))
	return nil
}
