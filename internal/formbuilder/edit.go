// Package formbuilder edits dynamic form definitions (documents made of
// steps made of fields) without ever touching the fetched originals.
//
// Every Edit returns a new document whose changed path, from the touched
// field or step up to the root, is freshly allocated. Untouched siblings are
// shared with the input.
package formbuilder

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/models"
)

var (
	ErrStepRange       = errors.New("step index out of range")
	ErrFieldRange      = errors.New("field index out of range")
	ErrStepHidden      = errors.New("step is hidden")
	ErrFieldType       = errors.New("unknown field type")
	ErrUnknownDocument = errors.New("form not found")
)

// Edit produces a new document from doc. It must not modify doc.
type Edit func(doc models.FormDocument) (models.FormDocument, error)

func updateStep(doc models.FormDocument, i int, fn func(models.Step) (models.Step, error)) (models.FormDocument, error) {
	if i < 0 || i >= len(doc.Steps) {
		return doc, fmt.Errorf("%w: %d", ErrStepRange, i)
	}
	next, err := fn(doc.Steps[i])
	if err != nil {
		return doc, err
	}
	steps := slices.Clone(doc.Steps)
	steps[i] = next
	doc.Steps = steps
	return doc, nil
}

func updateField(s models.Step, j int, fn func(models.Field) (models.Field, error)) (models.Step, error) {
	if j < 0 || j >= len(s.Fields) {
		return s, fmt.Errorf("%w: %d", ErrFieldRange, j)
	}
	next, err := fn(s.Fields[j])
	if err != nil {
		return s, err
	}
	fields := slices.Clone(s.Fields)
	fields[j] = next
	s.Fields = fields
	return s, nil
}

// visibleStep applies fn only when the step accepts field edits.
func visibleStep(step int, fn func(models.Step) (models.Step, error)) Edit {
	return func(doc models.FormDocument) (models.FormDocument, error) {
		return updateStep(doc, step, func(s models.Step) (models.Step, error) {
			if !s.Visible {
				return s, fmt.Errorf("%w: %d", ErrStepHidden, step)
			}
			return fn(s)
		})
	}
}

func fieldEdit(step, field int, fn func(models.Field) (models.Field, error)) Edit {
	return visibleStep(step, func(s models.Step) (models.Step, error) {
		return updateField(s, field, fn)
	})
}

func setField(step, field int, fn func(*models.Field)) Edit {
	return fieldEdit(step, field, func(f models.Field) (models.Field, error) {
		fn(&f)
		return f, nil
	})
}

var labelWithDescription = regexp.MustCompile(`^(.+?)\s+\(([^()]+)\)$`)

// SetLabel assigns a field label. Input shaped like "Sell (Property Sell)"
// is split into the label "Sell" and the description "Property Sell";
// anything else becomes the label verbatim and leaves the description alone.
func SetLabel(step, field int, raw string) Edit {
	return setField(step, field, func(f *models.Field) {
		if m := labelWithDescription.FindStringSubmatch(raw); m != nil {
			desc := m[2]
			f.Label = m[1]
			f.Description = &desc
			return
		}
		f.Label = raw
	})
}

func SetName(step, field int, v string) Edit {
	return setField(step, field, func(f *models.Field) { f.Name = v })
}

func SetPlaceholder(step, field int, v string) Edit {
	return setField(step, field, func(f *models.Field) { f.Placeholder = v })
}

func SetType(step, field int, t models.FieldType) Edit {
	return fieldEdit(step, field, func(f models.Field) (models.Field, error) {
		if !t.Valid() {
			return f, fmt.Errorf("%w: %q", ErrFieldType, t)
		}
		f.Type = t
		return f, nil
	})
}

// SplitOptions splits a comma separated option list and trims each token.
// Empty tokens are kept: "a,,b" yields ["a", "", "b"].
func SplitOptions(raw string) []string {
	parts := strings.Split(raw, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// JoinOptions renders options the way the editing boundary shows them.
func JoinOptions(opts []string) string {
	return strings.Join(opts, ", ")
}

func SetOptions(step, field int, csv string) Edit {
	return setField(step, field, func(f *models.Field) { f.Options = SplitOptions(csv) })
}

func ToggleRequired(step, field int) Edit {
	return setField(step, field, func(f *models.Field) { f.Required = !f.Required })
}

func ToggleFieldVisible(step, field int) Edit {
	return setField(step, field, func(f *models.Field) { f.Visible = !f.Visible })
}

func DeleteField(step, field int) Edit {
	return visibleStep(step, func(s models.Step) (models.Step, error) {
		if field < 0 || field >= len(s.Fields) {
			return s, fmt.Errorf("%w: %d", ErrFieldRange, field)
		}
		s.Fields = slices.Delete(slices.Clone(s.Fields), field, field+1)
		return s, nil
	})
}

// AddField appends a default field to the end of the step.
func AddField(step int) Edit {
	return visibleStep(step, func(s models.Step) (models.Step, error) {
		fields := make([]models.Field, len(s.Fields), len(s.Fields)+1)
		copy(fields, s.Fields)
		s.Fields = append(fields, models.NewField())
		return s, nil
	})
}

func MoveField(step, from, to int) Edit {
	return visibleStep(step, func(s models.Step) (models.Step, error) {
		fields, err := move(s.Fields, from, to, ErrFieldRange)
		if err != nil {
			return s, err
		}
		s.Fields = fields
		return s, nil
	})
}

func SetStepTitle(step int, v string) Edit {
	return func(doc models.FormDocument) (models.FormDocument, error) {
		return updateStep(doc, step, func(s models.Step) (models.Step, error) {
			s.StepTitle = v
			return s, nil
		})
	}
}

// SetStepOrder assigns the display position. Orders are not renumbered or
// checked for duplicates.
func SetStepOrder(step, order int) Edit {
	return func(doc models.FormDocument) (models.FormDocument, error) {
		return updateStep(doc, step, func(s models.Step) (models.Step, error) {
			s.StepOrder = order
			return s, nil
		})
	}
}

// ToggleStepVisibility flips the step flag only; field flags are untouched.
func ToggleStepVisibility(step int) Edit {
	return func(doc models.FormDocument) (models.FormDocument, error) {
		return updateStep(doc, step, func(s models.Step) (models.Step, error) {
			s.Visible = !s.Visible
			return s, nil
		})
	}
}

func DeleteStep(step int) Edit {
	return func(doc models.FormDocument) (models.FormDocument, error) {
		if step < 0 || step >= len(doc.Steps) {
			return doc, fmt.Errorf("%w: %d", ErrStepRange, step)
		}
		doc.Steps = slices.Delete(slices.Clone(doc.Steps), step, step+1)
		return doc, nil
	}
}

// AddStep appends an empty visible step.
func AddStep() Edit {
	return func(doc models.FormDocument) (models.FormDocument, error) {
		steps := make([]models.Step, len(doc.Steps), len(doc.Steps)+1)
		copy(steps, doc.Steps)
		doc.Steps = append(steps, models.NewStep())
		return doc, nil
	}
}

func MoveStep(from, to int) Edit {
	return func(doc models.FormDocument) (models.FormDocument, error) {
		steps, err := move(doc.Steps, from, to, ErrStepRange)
		if err != nil {
			return doc, err
		}
		doc.Steps = steps
		return doc, nil
	}
}

func SetFormName(v string) Edit {
	return func(doc models.FormDocument) (models.FormDocument, error) {
		doc.FormName = v
		return doc, nil
	}
}

func SetDescription(v string) Edit {
	return func(doc models.FormDocument) (models.FormDocument, error) {
		doc.Description = v
		return doc, nil
	}
}

func move[T any](s []T, from, to int, rangeErr error) ([]T, error) {
	if from < 0 || from >= len(s) {
		return nil, fmt.Errorf("%w: %d", rangeErr, from)
	}
	if to < 0 || to >= len(s) {
		return nil, fmt.Errorf("%w: %d", rangeErr, to)
	}
	out := slices.Clone(s)
	item := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, item), nil
}

// Chain applies edits in order and stops at the first error.
func Chain(edits ...Edit) Edit {
	return func(doc models.FormDocument) (models.FormDocument, error) {
		var err error
		for _, e := range edits {
			if doc, err = e(doc); err != nil {
				return doc, err
			}
		}
		return doc, nil
	}
}
