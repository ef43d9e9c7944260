package intake

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNutritionalWizard(t *testing.T, variant FormVariant) *NutritionalWizard {
	t.Helper()
	catalog, err := DefaultCatalog()
	require.NoError(t, err)
	return NewNutritionalWizard(&catalog.Nutritional, variant)
}

func TestNutritionalWizardSteps(t *testing.T) {
	w := newNutritionalWizard(t, VariantMasculino)
	assert.Equal(t, "Etapa 1 de 4", w.View().Progress)

	for step := 2; step <= 4; step++ {
		tr := w.Advance()
		require.True(t, tr.Advanced)
		assert.Equal(t, step, w.Step())
	}

	tr := w.Advance()
	assert.True(t, tr.SubmitRequested)
	assert.Equal(t, 4, w.Step())

	assert.True(t, w.Retreat())
	assert.Equal(t, 3, w.Step())
}

func TestNutritionalWizardSetDoesNotAdvance(t *testing.T) {
	w := newNutritionalWizard(t, VariantMasculino)

	require.NoError(t, w.Set("full_name", "João"))

	assert.Equal(t, 1, w.Step())
	assert.Equal(t, "João", w.View().Values["full_name"])
}

func TestNutritionalWizardSelectOptions(t *testing.T) {
	w := newNutritionalWizard(t, VariantMasculino)

	err := w.Set("marital_status", "noivo")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	require.NoError(t, w.Set("marital_status", "casado"))
	require.NoError(t, w.Set("marital_status", ""))
}

func TestNutritionalWizardSetAllIsAtomic(t *testing.T) {
	w := newNutritionalWizard(t, VariantMasculino)

	err := w.SetAll(map[string]any{
		"full_name":                    "João",
		"health_history.anxiety_level": 42,
	})

	require.Error(t, err)
	assert.Equal(t, "", w.Record().FullName)
}

func TestNutritionalWizardBackAndForwardKeepsValues(t *testing.T) {
	w := newNutritionalWizard(t, VariantFeminino)
	require.NoError(t, w.SetAll(map[string]any{
		"full_name":  "Ana",
		"birth_date": "1992-01-30",
		"weight":     61.0,
		"height":     1.62,
	}))
	w.Advance()
	require.NoError(t, w.Set("health_history.has_gynecological_diseases", "sim"))
	before := w.Record()

	w.Retreat()
	w.Advance()

	assert.Equal(t, before, w.Record())
	assert.Equal(t, true, w.View().Values["health_history.has_gynecological_diseases"])
}

func TestNutritionalVariantShapes(t *testing.T) {
	masculino := newNutritionalWizard(t, VariantMasculino)
	feminino := newNutritionalWizard(t, VariantFeminino)

	male, err := json.Marshal(masculino.Record().HealthHistory)
	require.NoError(t, err)
	female, err := json.Marshal(feminino.Record().HealthHistory)
	require.NoError(t, err)

	assert.NotContains(t, string(male), "gynecological")
	assert.Contains(t, string(female), `"has_gynecological_diseases":null`)

	masculino.Advance()
	feminino.Advance()
	assert.Len(t, masculino.View().Current.Fields, 6)
	assert.Len(t, feminino.View().Current.Fields, 7)
	assert.NotContains(t, masculino.View().Values, "health_history.gynecological_diseases")
	assert.Contains(t, feminino.View().Values, "health_history.gynecological_diseases")
}
