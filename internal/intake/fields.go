package intake

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// field addresses one value of a record type R. get and set always receive a
// private copy of the record, so set may replace anything reachable from it
// as long as shared pointers are copied before being written through.
type field[R any] struct {
	kind InputKind
	// available reports whether the field exists on this record at all.
	available func(*R) bool
	get       func(*R) any
	set       func(*R, any) error
}

type fieldTable[R any] map[string]field[R]

func (t fieldTable[R]) lookup(path string) (field[R], bool) {
	f, ok := t[strings.TrimSpace(path)]
	return f, ok
}

// read never fails: unknown or unavailable paths yield the empty-string
// sentinel.
func (t fieldTable[R]) read(record R, path string) any {
	f, ok := t.lookup(path)
	if !ok {
		return ""
	}
	if f.available != nil && !f.available(&record) {
		return ""
	}
	return f.get(&record)
}

func (t fieldTable[R]) write(record R, path string, value any) (R, error) {
	f, ok := t.lookup(path)
	if !ok {
		return record, &Error{Kind: KindValidation, Message: "Campo desconhecido: " + path, Err: ErrUnknownField}
	}
	next := record
	if f.available != nil && !f.available(&next) {
		return record, &Error{Kind: KindValidation, Message: "Campo indisponível para este formulário: " + path, Err: ErrFieldNotAvailable}
	}
	if err := f.set(&next, value); err != nil {
		return record, &Error{Kind: KindValidation, Message: fmt.Sprintf("Valor inválido para %s", path), Err: err}
	}
	return next, nil
}

func textField[R any](kind InputKind, ref func(*R) *string) field[R] {
	return field[R]{
		kind: kind,
		get:  func(r *R) any { return *ref(r) },
		set: func(r *R, v any) error {
			s, err := coerceString(v)
			if err != nil {
				return err
			}
			if err := checkFormat(kind, s); err != nil {
				return err
			}
			*ref(r) = s
			return nil
		},
	}
}

func numberField[R any](ref func(*R) *float64) field[R] {
	return field[R]{
		kind: KindNumber,
		get:  func(r *R) any { return *ref(r) },
		set: func(r *R, v any) error {
			n, err := coerceFloat(v)
			if err != nil {
				return err
			}
			*ref(r) = n
			return nil
		},
	}
}

func intField[R any](min, max int, ref func(*R) *int) field[R] {
	return field[R]{
		kind: KindNumber,
		get:  func(r *R) any { return *ref(r) },
		set: func(r *R, v any) error {
			n, err := coerceFloat(v)
			if err != nil {
				return err
			}
			i := int(math.Trunc(n))
			if i < min || i > max {
				return fmt.Errorf("%d outside [%d, %d]", i, min, max)
			}
			*ref(r) = i
			return nil
		},
	}
}

func flagField[R any](ref func(*R) **bool) field[R] {
	return field[R]{
		kind: KindBoolean,
		get: func(r *R) any {
			if p := *ref(r); p != nil {
				return *p
			}
			return nil
		},
		set: func(r *R, v any) error {
			b, err := coerceOptionalBool(v)
			if err != nil {
				return err
			}
			*ref(r) = b
			return nil
		},
	}
}

func listField[R any](ref func(*R) *[]string) field[R] {
	return field[R]{
		kind: KindText,
		get: func(r *R) any {
			items := *ref(r)
			return append(make([]string, 0, len(items)), items...)
		},
		set: func(r *R, v any) error {
			items, err := coerceStrings(v)
			if err != nil {
				return err
			}
			*ref(r) = items
			return nil
		},
	}
}

func onlyWhen[R any](f field[R], available func(*R) bool) field[R] {
	f.available = available
	return f
}

func checkFormat(kind InputKind, s string) error {
	if s == "" {
		return nil
	}
	switch kind {
	case KindDate:
		if _, err := time.Parse(time.DateOnly, s); err != nil {
			return fmt.Errorf("date %q: %w", s, err)
		}
	case KindTime:
		if _, err := time.Parse("15:04", s); err != nil {
			return fmt.Errorf("time %q: %w", s, err)
		}
	}
	return nil
}

func coerceString(v any) (string, error) {
	switch value := v.(type) {
	case nil:
		return "", nil
	case string:
		return value, nil
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(value), nil
	case json.Number:
		return value.String(), nil
	default:
		return "", fmt.Errorf("expected text, got %T", v)
	}
}

// coerceFloat follows form-input semantics: an unparseable string reads as 0.
func coerceFloat(v any) (float64, error) {
	switch value := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return value, nil
	case float32:
		return float64(value), nil
	case int:
		return float64(value), nil
	case int64:
		return float64(value), nil
	case json.Number:
		n, err := value.Float64()
		if err != nil {
			return 0, nil
		}
		return n, nil
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(value, ",", ".")), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, nil
		}
		return n, nil
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}

func coerceOptionalBool(v any) (*bool, error) {
	var b bool
	switch value := v.(type) {
	case nil:
		return nil, nil
	case bool:
		b = value
	case *bool:
		if value == nil {
			return nil, nil
		}
		b = *value
	case string:
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "":
			return nil, nil
		case "sim", "true", "1", "yes":
			b = true
		case "nao", "não", "false", "0", "no":
			b = false
		default:
			return nil, fmt.Errorf("expected sim/não, got %q", value)
		}
	default:
		return nil, fmt.Errorf("expected boolean, got %T", v)
	}
	return &b, nil
}

// coerceStrings accepts a JSON array or a comma separated string.
func coerceStrings(v any) ([]string, error) {
	items := []string{}
	switch value := v.(type) {
	case nil:
		return items, nil
	case string:
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
	case []string:
		for _, part := range value {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
	case []any:
		for _, raw := range value {
			s, err := coerceString(raw)
			if err != nil {
				return nil, err
			}
			if s = strings.TrimSpace(s); s != "" {
				items = append(items, s)
			}
		}
	default:
		return nil, fmt.Errorf("expected list, got %T", v)
	}
	return items, nil
}

func boolPtr(b bool) *bool { return &b }
