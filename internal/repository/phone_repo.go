package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/saeid-a/AssessmentIntake/internal/models"
)

type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PhoneRepository struct {
	db DBTX
}

func NewPhoneRepository(db DBTX) *PhoneRepository {
	return &PhoneRepository{db: db}
}

const phoneEntryColumns = `
	p.id::text,
	p.phone,
	p.verified,
	EXISTS (SELECT 1 FROM assessments a WHERE a.phone_id = p.id),
	EXISTS (SELECT 1 FROM nutritional_assessments n WHERE n.phone_id = p.id)
`

func (r *PhoneRepository) FindByPhone(ctx context.Context, phone string) (*models.PhoneEntry, error) {
	query := `SELECT ` + phoneEntryColumns + ` FROM phone_numbers p WHERE p.phone = $1`
	return scanPhoneEntry(r.db.QueryRow(ctx, query, phone))
}

func (r *PhoneRepository) GetByID(ctx context.Context, id string) (*models.PhoneEntry, error) {
	query := `SELECT ` + phoneEntryColumns + ` FROM phone_numbers p WHERE p.id::text = $1`
	return scanPhoneEntry(r.db.QueryRow(ctx, query, id))
}

// Create registers a phone number. Used by fixtures and operators; the
// intake flow itself never creates phones.
func (r *PhoneRepository) Create(ctx context.Context, phone string, verified bool) (*models.PhoneEntry, error) {
	query := `
		INSERT INTO phone_numbers (phone, verified)
		VALUES ($1, $2)
		RETURNING id::text, phone, verified
	`
	var entry models.PhoneEntry
	if err := r.db.QueryRow(ctx, query, phone, verified).Scan(&entry.ID, &entry.Phone, &entry.Verified); err != nil {
		return nil, err
	}
	return &entry, nil
}

func scanPhoneEntry(row pgx.Row) (*models.PhoneEntry, error) {
	var entry models.PhoneEntry
	err := row.Scan(
		&entry.ID,
		&entry.Phone,
		&entry.Verified,
		&entry.HasPhysical,
		&entry.HasNutritional,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
