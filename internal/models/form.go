package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FieldType names the input widget a field renders as.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldNumber   FieldType = "number"
	FieldDate     FieldType = "date"
	FieldTextArea FieldType = "textArea"
	FieldDropdown FieldType = "dropdown"
	FieldCheckbox FieldType = "checkbox"
	FieldRadio    FieldType = "radio"
)

var fieldTypes = map[FieldType]bool{
	FieldText: true, FieldEmail: true, FieldNumber: true, FieldDate: true,
	FieldTextArea: true, FieldDropdown: true, FieldCheckbox: true, FieldRadio: true,
}

// Valid reports whether t is one of the known field types.
func (t FieldType) Valid() bool { return fieldTypes[t] }

// HasOptions reports whether fields of this type carry an options list.
func (t FieldType) HasOptions() bool {
	return t == FieldDropdown || t == FieldCheckbox || t == FieldRadio
}

// Field is a single input definition within a step.
//
// Keys the admin does not know about are kept aside on decode and written
// back on encode, and known keys the backend left out stay out unless they
// are edited, so an unedited document survives a load/save untouched.
type Field struct {
	Label       string    `json:"label"`
	Description *string   `json:"description,omitempty"`
	Name        string    `json:"name"`
	Placeholder string    `json:"placeholder"`
	Type        FieldType `json:"type"`
	Options     []string  `json:"options"`
	Required    bool      `json:"required"`
	// Visible defaults to true when the key is missing.
	Visible bool `json:"visible"`

	extra  map[string]json.RawMessage
	absent map[string]bool
}

// NewField returns a field with the defaults used when a step grows a field.
func NewField() Field {
	return Field{Type: FieldText, Options: []string{}, Visible: true}
}

var fieldKeys = []string{"label", "description", "name", "placeholder", "type", "options", "required", "visible"}

func (f *Field) UnmarshalJSON(b []byte) error {
	type plain Field
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	extra, absent, err := splitKeys(b, fieldKeys)
	if err != nil {
		return err
	}
	*f = Field(p)
	f.extra, f.absent = extra, absent
	if absent["visible"] {
		f.Visible = true
	}
	return nil
}

func (f Field) MarshalJSON() ([]byte, error) {
	type plain Field
	o, err := encodeObject(plain(f))
	if err != nil {
		return nil, err
	}
	o.omitUnset(f.absent, "label", f.Label == "")
	o.omitUnset(f.absent, "name", f.Name == "")
	o.omitUnset(f.absent, "placeholder", f.Placeholder == "")
	o.omitUnset(f.absent, "type", f.Type == "")
	o.omitUnset(f.absent, "options", f.Options == nil)
	o.omitUnset(f.absent, "required", !f.Required)
	o.omitUnset(f.absent, "visible", f.Visible)
	return o.marshal(f.extra)
}

// Step is an ordered group of fields.
type Step struct {
	StepTitle string `json:"stepTitle"`
	// StepOrder is decoded from a number or a numeric string. The member is
	// written back in its original form until it is changed.
	StepOrder int `json:"stepOrder"`
	// Visible defaults to true when the key is missing.
	Visible bool    `json:"visible"`
	Fields  []Field `json:"fields"`

	extra    map[string]json.RawMessage
	absent   map[string]bool
	orderRaw json.RawMessage
	orderN   int
}

// NewStep returns an empty visible step.
func NewStep() Step {
	return Step{Visible: true, Fields: []Field{}}
}

var stepKeys = []string{"stepTitle", "stepOrder", "visible", "fields"}

// parseOrder reads a step order leniently. Text that is not a number reads
// as zero.
func parseOrder(raw json.RawMessage) int {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		n, _ := strconv.Atoi(strings.TrimSpace(s))
		return n
	}
	var f float64
	if json.Unmarshal(raw, &f) == nil {
		return int(f)
	}
	return 0
}

func (s *Step) UnmarshalJSON(b []byte) error {
	type plain Step
	var p struct {
		plain
		StepOrder json.RawMessage `json:"stepOrder"`
	}
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	extra, absent, err := splitKeys(b, stepKeys)
	if err != nil {
		return err
	}
	*s = Step(p.plain)
	s.extra, s.absent = extra, absent
	if len(p.StepOrder) > 0 {
		s.orderRaw = p.StepOrder
		s.orderN = parseOrder(p.StepOrder)
		s.StepOrder = s.orderN
	}
	if absent["visible"] {
		s.Visible = true
	}
	return nil
}

func (s Step) MarshalJSON() ([]byte, error) {
	type plain Step
	o, err := encodeObject(plain(s))
	if err != nil {
		return nil, err
	}
	o.omitUnset(s.absent, "stepTitle", s.StepTitle == "")
	o.omitUnset(s.absent, "stepOrder", s.StepOrder == 0)
	o.omitUnset(s.absent, "visible", s.Visible)
	o.omitUnset(s.absent, "fields", s.Fields == nil)
	if len(s.orderRaw) > 0 {
		switch {
		case s.StepOrder == s.orderN:
			o["stepOrder"] = s.orderRaw
		case s.orderRaw[0] == '"':
			o["stepOrder"], _ = json.Marshal(strconv.Itoa(s.StepOrder))
		}
	}
	return o.marshal(s.extra)
}

// FormDocument is one dynamic form definition.
// IsChanged marks unsaved local edits and is never serialised.
type FormDocument struct {
	ID          string `json:"_id"`
	FormName    string `json:"formName"`
	Description string `json:"description"`
	Steps       []Step `json:"steps"`
	IsChanged   bool   `json:"-"`

	extra  map[string]json.RawMessage
	absent map[string]bool
}

// isChanged is listed so a stray marker from the backend is dropped on decode.
var formKeys = []string{"_id", "formName", "description", "steps", "isChanged"}

func (d *FormDocument) UnmarshalJSON(b []byte) error {
	type plain FormDocument
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	extra, absent, err := splitKeys(b, formKeys)
	if err != nil {
		return err
	}
	*d = FormDocument(p)
	d.extra, d.absent = extra, absent
	return nil
}

func (d FormDocument) MarshalJSON() ([]byte, error) {
	type plain FormDocument
	o, err := encodeObject(plain(d))
	if err != nil {
		return nil, err
	}
	o.omitUnset(d.absent, "_id", d.ID == "")
	o.omitUnset(d.absent, "formName", d.FormName == "")
	o.omitUnset(d.absent, "description", d.Description == "")
	o.omitUnset(d.absent, "steps", d.Steps == nil)
	return o.marshal(d.extra)
}

// FieldCount returns the number of fields across all steps.
func (d FormDocument) FieldCount() int {
	n := 0
	for _, s := range d.Steps {
		n += len(s.Fields)
	}
	return n
}
