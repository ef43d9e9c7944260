package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	catalog, err := DefaultCatalog()
	require.NoError(t, err)

	physical := &catalog.Physical
	assert.Len(t, physical.Questions, 12)
	assert.Equal(t, 14, physical.TotalSteps())
	assert.Equal(t, 8, physical.ChestPainStep())
	assert.Equal(t, "Termo de Acordo", physical.Step(13).Title)
	assert.Equal(t, KindReview, physical.Step(14).Kind)
	for _, q := range physical.Questions {
		assert.Equal(t, KindChoice, q.Kind, q.Title)
	}

	nutritional := &catalog.Nutritional
	require.Equal(t, 4, nutritional.TotalSteps())
	titles := []string{"Dados Pessoais", "Histórico de Saúde", "Estilo de Vida", "Hábitos Alimentares"}
	counts := []int{7, 6, 7, 8}
	for i, title := range titles {
		step := nutritional.StepFor(i+1, VariantMasculino)
		assert.Equal(t, title, step.Title)
		assert.Len(t, step.Fields, counts[i], title)
	}

	def, ok := nutritional.Field("health_history.chronic_diseases")
	require.True(t, ok)
	assert.Equal(t, "health_history.has_chronic_diseases", def.Path)
}

func TestParseCatalogRejectsUnknownPath(t *testing.T) {
	doc := []byte(`
physical:
  questions:
    - title: "1. Sexo"
      field: gender
      options: [{value: masculino, label: Masculino}]
  clearance: {field: medical_clearance}
  agreement: {field: agreement}
nutritional:
  steps:
    - title: "Dados"
      fields: [{path: full_name, label: Nome, kind: text}]
`)

	_, err := ParseCatalog(doc)

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown field "gender"`)
}

func TestParseCatalogRequiresChestPain(t *testing.T) {
	doc := []byte(`
physical:
  questions:
    - title: "1. Sexo"
      field: sex
      options: [{value: masculino, label: Masculino}]
  clearance: {field: medical_clearance}
  agreement: {field: agreement}
nutritional:
  steps:
    - title: "Dados"
      fields: [{path: full_name, label: Nome, kind: text}]
`)

	_, err := ParseCatalog(doc)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "chest_pain")
}
