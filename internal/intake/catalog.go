package intake

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// InputKind is how a step or field is answered.
type InputKind string

const (
	KindChoice   InputKind = "choice"
	KindBoolean  InputKind = "boolean"
	KindText     InputKind = "text"
	KindNumber   InputKind = "number"
	KindDate     InputKind = "date"
	KindTime     InputKind = "time"
	KindSelect   InputKind = "select"
	KindTextarea InputKind = "textarea"
	KindFile     InputKind = "file"
	KindCheckbox InputKind = "checkbox"
	KindReview   InputKind = "review"
	KindSection  InputKind = "section"
)

type Option struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

type FieldDefinition struct {
	Path         string    `yaml:"path" json:"path"`
	Label        string    `yaml:"label" json:"label"`
	Kind         InputKind `yaml:"kind" json:"kind"`
	Step         string    `yaml:"step" json:"step,omitempty"`
	Min          *float64  `yaml:"min" json:"min,omitempty"`
	Max          *float64  `yaml:"max" json:"max,omitempty"`
	Options      []Option  `yaml:"options" json:"options,omitempty"`
	Detail       string    `yaml:"detail" json:"detail,omitempty"`
	FeminineOnly bool      `yaml:"feminine_only" json:"feminine_only,omitempty"`
}

func (f FieldDefinition) allows(value string) bool {
	if len(f.Options) == 0 || value == "" {
		return true
	}
	return hasOption(f.Options, value)
}

type StepDefinition struct {
	Title        string            `yaml:"title" json:"title"`
	Field        string            `yaml:"field" json:"field,omitempty"`
	Kind         InputKind         `yaml:"kind" json:"kind"`
	Text         string            `yaml:"text" json:"text,omitempty"`
	UploadPrompt string            `yaml:"upload_prompt" json:"upload_prompt,omitempty"`
	Options      []Option          `yaml:"options" json:"options,omitempty"`
	Fields       []FieldDefinition `yaml:"fields" json:"fields,omitempty"`
}

type PhysicalCatalog struct {
	Questions []StepDefinition `yaml:"questions"`
	Clearance StepDefinition   `yaml:"clearance"`
	Agreement StepDefinition   `yaml:"agreement"`
	Review    StepDefinition   `yaml:"review"`

	chestPainStep int
}

// TotalSteps counts the questions plus the agreement and review steps.
func (c *PhysicalCatalog) TotalSteps() int { return len(c.Questions) + 2 }

func (c *PhysicalCatalog) AgreementStep() int { return len(c.Questions) + 1 }

func (c *PhysicalCatalog) ReviewStep() int { return len(c.Questions) + 2 }

// ChestPainStep is the 1-based index of the branching question.
func (c *PhysicalCatalog) ChestPainStep() int { return c.chestPainStep }

// Step returns the definition rendered at the 1-based index.
func (c *PhysicalCatalog) Step(index int) StepDefinition {
	switch {
	case index >= 1 && index <= len(c.Questions):
		return c.Questions[index-1]
	case index == c.AgreementStep():
		return c.Agreement
	default:
		return c.Review
	}
}

type NutritionalCatalog struct {
	Steps []StepDefinition `yaml:"steps"`

	byPath map[string]FieldDefinition
}

func (c *NutritionalCatalog) TotalSteps() int { return len(c.Steps) }

// StepFor returns the step at the 1-based index with the fields that apply
// to variant.
func (c *NutritionalCatalog) StepFor(index int, variant FormVariant) StepDefinition {
	if index < 1 || index > len(c.Steps) {
		return StepDefinition{}
	}
	step := c.Steps[index-1]
	fields := make([]FieldDefinition, 0, len(step.Fields))
	for _, f := range step.Fields {
		if f.FeminineOnly && variant != VariantFeminino {
			continue
		}
		fields = append(fields, f)
	}
	step.Fields = fields
	return step
}

// Field looks a definition up by its path or by the path of its detail
// text.
func (c *NutritionalCatalog) Field(path string) (FieldDefinition, bool) {
	f, ok := c.byPath[path]
	return f, ok
}

type Catalog struct {
	Physical    PhysicalCatalog    `yaml:"physical"`
	Nutritional NutritionalCatalog `yaml:"nutritional"`
}

//go:embed catalog.yaml
var embeddedCatalog []byte

var (
	defaultCatalog     *Catalog
	defaultCatalogErr  error
	defaultCatalogOnce sync.Once
)

// DefaultCatalog returns the catalog compiled into the binary.
func DefaultCatalog() (*Catalog, error) {
	defaultCatalogOnce.Do(func() {
		defaultCatalog, defaultCatalogErr = ParseCatalog(embeddedCatalog)
	})
	return defaultCatalog, defaultCatalogErr
}

// ParseCatalog decodes and checks a catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := catalog.Physical.prepare(); err != nil {
		return nil, fmt.Errorf("physical catalog: %w", err)
	}
	if err := catalog.Nutritional.prepare(); err != nil {
		return nil, fmt.Errorf("nutritional catalog: %w", err)
	}
	return &catalog, nil
}

func (c *PhysicalCatalog) prepare() error {
	if len(c.Questions) == 0 {
		return errors.New("no questions")
	}
	seen := make(map[string]struct{}, len(c.Questions))
	for i := range c.Questions {
		q := &c.Questions[i]
		if q.Kind == "" {
			q.Kind = KindChoice
		}
		if q.Kind != KindChoice {
			return fmt.Errorf("question %d: kind %q, want choice", i+1, q.Kind)
		}
		if _, ok := physicalFields.lookup(q.Field); !ok {
			return fmt.Errorf("question %d: unknown field %q", i+1, q.Field)
		}
		if _, dup := seen[q.Field]; dup {
			return fmt.Errorf("question %d: field %q asked twice", i+1, q.Field)
		}
		seen[q.Field] = struct{}{}
		if len(q.Options) == 0 {
			return fmt.Errorf("question %d: no options", i+1)
		}
		if q.Field == "chest_pain" {
			if !hasOption(q.Options, "sim") || !hasOption(q.Options, "nao") {
				return errors.New("chest_pain question needs sim and nao options")
			}
			c.chestPainStep = i + 1
		}
	}
	if c.chestPainStep == 0 {
		return errors.New("chest_pain question missing")
	}
	for _, step := range []StepDefinition{c.Clearance, c.Agreement} {
		if _, ok := physicalFields.lookup(step.Field); !ok {
			return fmt.Errorf("step %q: unknown field %q", step.Title, step.Field)
		}
	}
	return nil
}

func (c *NutritionalCatalog) prepare() error {
	if len(c.Steps) == 0 {
		return errors.New("no steps")
	}
	c.byPath = make(map[string]FieldDefinition)
	for i := range c.Steps {
		step := &c.Steps[i]
		step.Kind = KindSection
		if len(step.Fields) == 0 {
			return fmt.Errorf("step %d: no fields", i+1)
		}
		for _, f := range step.Fields {
			for _, path := range []string{f.Path, f.Detail} {
				if path == "" {
					continue
				}
				if _, ok := nutritionalFields.lookup(path); !ok {
					return fmt.Errorf("step %d: unknown field %q", i+1, path)
				}
				c.byPath[path] = f
			}
			if f.Kind == KindSelect && len(f.Options) == 0 {
				return fmt.Errorf("step %d: select %q without options", i+1, f.Path)
			}
		}
	}
	return nil
}

func hasOption(options []Option, value string) bool {
	for _, o := range options {
		if o.Value == value {
			return true
		}
	}
	return false
}
