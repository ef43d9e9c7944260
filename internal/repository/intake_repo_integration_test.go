package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/saeid-a/AssessmentIntake/internal/intake"
	"github.com/saeid-a/AssessmentIntake/internal/models"
)

var (
	testDBOnce sync.Once
	testDBPool *pgxpool.Pool
	testDBErr  error
)

func TestPhoneRepositoryMarkersFollowSubmissions(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	phones := NewPhoneRepository(pool)

	entry := createTestPhone(t, ctx, phones)
	t.Cleanup(func() { cleanupTestPhones(t, ctx, pool, entry.ID) })

	found, err := phones.FindByPhone(ctx, entry.Phone)
	if err != nil {
		t.Fatalf("FindByPhone: %v", err)
	}
	if found.HasPhysical || found.HasNutritional {
		t.Fatalf("expected no submissions yet, got %+v", found)
	}

	record := intake.PhysicalRecord{
		Sex: "masculino", AgeRange: "18-60", Objective: "hipertrofia",
		InactivePeriod: "nao-parado", ExperiencePeriod: "1-2-anos", Availability: "3-dias",
		TrainingLevel: "intermediario", ChestPainAnswered: true, Agreement: true,
		Medication: "nao", PreExistingCondition: "nao", RiskCondition: "nao", Injury: "sim",
	}
	row, err := intake.PreparePhysicalSubmission(entry.ID, record)
	if err != nil {
		t.Fatalf("PreparePhysicalSubmission: %v", err)
	}
	receipt, err := NewAssessmentRepository(pool).Create(ctx, row)
	if err != nil {
		t.Fatalf("Create assessment: %v", err)
	}
	if receipt.PhoneID != entry.ID {
		t.Fatalf("expected phone id %s, got %s", entry.ID, receipt.PhoneID)
	}

	nutritional := intake.NewNutritionalRecord(intake.VariantFeminino)
	nutritional.FullName = "Ana"
	nutritional.BirthDate = "1992-01-30"
	nutritional.Weight = 61
	nutritional.Height = 1.62
	nrow, err := intake.PrepareNutritionalSubmission(entry.ID, intake.VariantFeminino, nutritional)
	if err != nil {
		t.Fatalf("PrepareNutritionalSubmission: %v", err)
	}
	if _, err := NewNutritionalAssessmentRepository(pool).Create(ctx, nrow); err != nil {
		t.Fatalf("Create nutritional assessment: %v", err)
	}

	byID, err := phones.GetByID(ctx, entry.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !byID.HasPhysical || !byID.HasNutritional {
		t.Fatalf("expected both markers, got %+v", byID)
	}
}

func TestPhoneRepositoryUnknownPhone(t *testing.T) {
	pool := integrationTestPool(t)

	_, err := NewPhoneRepository(pool).FindByPhone(context.Background(), "550000000000")
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows, got %v", err)
	}
}

func integrationTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	testDBOnce.Do(func() {
		_ = godotenv.Load(".env")
		_ = godotenv.Load(filepath.Join("..", "..", ".env"))

		dbURL := os.Getenv("DB_URL")
		if dbURL == "" {
			testDBErr = fmt.Errorf("DB_URL is not set")
			return
		}

		cfg, err := pgxpool.ParseConfig(dbURL)
		if err != nil {
			testDBErr = err
			return
		}

		testDBPool, testDBErr = pgxpool.NewWithConfig(context.Background(), cfg)
		if testDBErr != nil {
			return
		}
		testDBErr = testDBPool.Ping(context.Background())
	})

	if testDBErr != nil {
		t.Skipf("skipping integration test: %v", testDBErr)
	}
	return testDBPool
}

func createTestPhone(t *testing.T, ctx context.Context, phones *PhoneRepository) *models.PhoneEntry {
	t.Helper()

	phone := fmt.Sprintf("55119%08d", time.Now().UnixNano()%100000000)
	entry, err := phones.Create(ctx, phone, true)
	if err != nil {
		t.Fatalf("Create phone: %v", err)
	}
	return entry
}

func cleanupTestPhones(t *testing.T, ctx context.Context, pool *pgxpool.Pool, ids ...string) {
	t.Helper()

	if _, err := pool.Exec(ctx, "DELETE FROM phone_numbers WHERE id::text = ANY($1)", ids); err != nil {
		t.Fatalf("cleanup phone numbers: %v", err)
	}
}
