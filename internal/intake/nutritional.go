package intake

import (
	"fmt"
	"sort"
)

// NutritionalWizard walks the four nutritional steps. Fields never advance
// the wizard on their own; only Advance does.
type NutritionalWizard struct {
	catalog *NutritionalCatalog
	variant FormVariant
	step    cursor
	record  NutritionalRecord
}

func NewNutritionalWizard(catalog *NutritionalCatalog, variant FormVariant) *NutritionalWizard {
	return &NutritionalWizard{
		catalog: catalog,
		variant: variant,
		step:    newCursor(catalog.TotalSteps()),
		record:  NewNutritionalRecord(variant),
	}
}

func (w *NutritionalWizard) Step() int                 { return w.step.index }
func (w *NutritionalWizard) TotalSteps() int           { return w.step.total }
func (w *NutritionalWizard) Variant() FormVariant      { return w.variant }
func (w *NutritionalWizard) Record() NutritionalRecord { return w.record }

func (w *NutritionalWizard) Get(path string) any {
	return GetNutritionalField(w.record, path)
}

// Set writes one field. Select fields only take one of their options.
func (w *NutritionalWizard) Set(path string, value any) error {
	record, err := w.apply(w.record, path, value)
	if err != nil {
		return err
	}
	w.record = record
	return nil
}

// SetAll writes every field or none of them. Paths are applied in sorted
// order so the first reported failure is stable.
func (w *NutritionalWizard) SetAll(values map[string]any) error {
	paths := make([]string, 0, len(values))
	for path := range values {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	record := w.record
	for _, path := range paths {
		next, err := w.apply(record, path, values[path])
		if err != nil {
			return err
		}
		record = next
	}
	w.record = record
	return nil
}

func (w *NutritionalWizard) apply(record NutritionalRecord, path string, value any) (NutritionalRecord, error) {
	if def, ok := w.catalog.Field(path); ok && def.Path == path && def.Kind == KindSelect {
		s, _ := value.(string)
		if !def.allows(s) {
			return record, Validationf("Opção inválida para %s", def.Label)
		}
	}
	return SetNutritionalField(record, path, value)
}

func (w *NutritionalWizard) Advance() Transition { return w.step.forward() }

func (w *NutritionalWizard) Retreat() bool { return w.step.back() }

type NutritionalView struct {
	Step       int            `json:"step"`
	TotalSteps int            `json:"total_steps"`
	Progress   string         `json:"progress"`
	Variant    FormVariant    `json:"variant"`
	Current    StepDefinition `json:"current"`
	// Values holds the current value of every field on the step, detail
	// texts included.
	Values map[string]any    `json:"values"`
	Record NutritionalRecord `json:"record"`
}

func (w *NutritionalWizard) View() NutritionalView {
	current := w.catalog.StepFor(w.step.index, w.variant)
	values := make(map[string]any, len(current.Fields))
	for _, f := range current.Fields {
		values[f.Path] = w.Get(f.Path)
		if f.Detail != "" {
			values[f.Detail] = w.Get(f.Detail)
		}
	}
	return NutritionalView{
		Step:       w.step.index,
		TotalSteps: w.step.total,
		Progress:   fmt.Sprintf("Etapa %d de %d", w.step.index, w.step.total),
		Variant:    w.variant,
		Current:    current,
		Values:     values,
		Record:     w.record,
	}
}
