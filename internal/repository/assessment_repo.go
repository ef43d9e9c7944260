package repository

import (
	"context"

	"github.com/saeid-a/AssessmentIntake/internal/intake"
	"github.com/saeid-a/AssessmentIntake/internal/models"
)

type AssessmentRepository struct {
	db DBTX
}

func NewAssessmentRepository(db DBTX) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

func (r *AssessmentRepository) Create(ctx context.Context, row intake.PhysicalRow) (*models.AssessmentReceipt, error) {
	query := `
		INSERT INTO assessments (
			phone_id, sex, age_range, objective, inactive_period, experience_period,
			availability, training_level, chest_pain, medical_clearance, medical_document_url,
			medication, pre_existing_condition, life_threatening_condition, injury, agreement
		)
		VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id::text, phone_id::text, created_at
	`

	var receipt models.AssessmentReceipt
	err := r.db.QueryRow(
		ctx,
		query,
		row.PhoneID,
		row.Sex,
		row.AgeRange,
		row.Objective,
		row.InactivePeriod,
		row.ExperiencePeriod,
		row.Availability,
		row.TrainingLevel,
		row.ChestPain,
		row.MedicalClearance,
		row.MedicalDocumentURL,
		row.Medication,
		row.PreExistingCondition,
		row.LifeThreateningCondition,
		row.Injury,
		row.Agreement,
	).Scan(&receipt.ID, &receipt.PhoneID, &receipt.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}
