package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/saeid-a/AssessmentIntake/internal/intake"
	"github.com/saeid-a/AssessmentIntake/internal/models"
)

type NutritionalAssessmentRepository struct {
	db DBTX
}

func NewNutritionalAssessmentRepository(db DBTX) *NutritionalAssessmentRepository {
	return &NutritionalAssessmentRepository{db: db}
}

func (r *NutritionalAssessmentRepository) Create(ctx context.Context, row intake.NutritionalRow) (*models.AssessmentReceipt, error) {
	healthHistory, err := json.Marshal(row.HealthHistory)
	if err != nil {
		return nil, fmt.Errorf("marshal health history: %w", err)
	}
	lifestyle, err := json.Marshal(row.Lifestyle)
	if err != nil {
		return nil, fmt.Errorf("marshal lifestyle: %w", err)
	}
	eatingHabits, err := json.Marshal(row.EatingHabits)
	if err != nil {
		return nil, fmt.Errorf("marshal eating habits: %w", err)
	}
	var weightChanges []byte
	if row.WeightChanges != nil {
		if weightChanges, err = json.Marshal(row.WeightChanges); err != nil {
			return nil, fmt.Errorf("marshal weight changes: %w", err)
		}
	}

	query := `
		INSERT INTO nutritional_assessments (
			phone_id, form_type, full_name, birth_date, weight, height, usual_weight,
			weight_changes, marital_status, children, health_history, lifestyle, eating_habits
		)
		VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8::jsonb, $9, $10, $11::jsonb, $12::jsonb, $13::jsonb)
		RETURNING id::text, phone_id::text, created_at
	`

	var receipt models.AssessmentReceipt
	err = r.db.QueryRow(
		ctx,
		query,
		row.PhoneID,
		string(row.FormType),
		row.FullName,
		row.BirthDate,
		row.Weight,
		row.Height,
		row.UsualWeight,
		nullableJSON(weightChanges),
		row.MaritalStatus,
		row.Children,
		string(healthHistory),
		string(lifestyle),
		string(eatingHabits),
	).Scan(&receipt.ID, &receipt.PhoneID, &receipt.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

func nullableJSON(raw []byte) *string {
	if raw == nil {
		return nil
	}
	s := string(raw)
	return &s
}
