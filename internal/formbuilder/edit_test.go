package formbuilder

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/models"
)

const listingForm = `{
  "_id": "f1",
  "formName": "Listing request",
  "description": "Sell or rent",
  "theme": "dark",
  "steps": [
    {
      "stepTitle": "Contact",
      "stepOrder": 1,
      "visible": true,
      "layout": {"columns": 2},
      "fields": [
        {"label": "Name", "name": "name", "placeholder": "Jane", "type": "text", "options": [], "required": true, "visible": true},
        {"label": "Deal", "name": "deal", "placeholder": "", "type": "dropdown", "options": ["Sell", "Rent"], "required": false, "visible": true, "width": 6}
      ]
    }
  ]
}`

func decodeForm(t *testing.T, raw string) models.FormDocument {
	t.Helper()
	var doc models.FormDocument
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func encode(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestSetLabel(t *testing.T) {
	doc := decodeForm(t, listingForm)

	got, err := SetLabel(0, 0, "Sell (Property Sell)")(doc)
	require.NoError(t, err)
	f := got.Steps[0].Fields[0]
	assert.Equal(t, "Sell", f.Label)
	require.NotNil(t, f.Description)
	assert.Equal(t, "Property Sell", *f.Description)

	got, err = SetLabel(0, 0, "Rent")(got)
	require.NoError(t, err)
	f = got.Steps[0].Fields[0]
	assert.Equal(t, "Rent", f.Label)
	require.NotNil(t, f.Description)
	assert.Equal(t, "Property Sell", *f.Description, "description is left alone")

	got, err = SetLabel(0, 1, "Phone")(doc)
	require.NoError(t, err)
	assert.Nil(t, got.Steps[0].Fields[1].Description)
}

func TestSplitOptions(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a, b ,c", []string{"a", "b", "c"}},
		{"a,,b", []string{"a", "", "b"}},
		{" only ", []string{"only"}},
		{"", []string{""}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, SplitOptions(tt.in)); diff != "" {
			t.Errorf("SplitOptions(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
	assert.Equal(t, "a, b", JoinOptions([]string{"a", "b"}))
}

func TestFieldEditsKeepFieldCount(t *testing.T) {
	doc := decodeForm(t, listingForm)
	inPlace := []Edit{
		SetLabel(0, 1, "Deal type"),
		SetName(0, 1, "dealType"),
		SetPlaceholder(0, 1, "pick one"),
		SetType(0, 1, models.FieldRadio),
		SetOptions(0, 1, "Sell, Rent, Lease"),
		ToggleRequired(0, 1),
		ToggleFieldVisible(0, 1),
	}
	for i, e := range inPlace {
		got, err := e(doc)
		require.NoError(t, err, "edit %d", i)
		assert.Len(t, got.Steps[0].Fields, 2, "edit %d", i)
	}

	added, err := AddField(0)(doc)
	require.NoError(t, err)
	assert.Len(t, added.Steps[0].Fields, 3)
	assert.Equal(t, models.NewField(), added.Steps[0].Fields[2])

	deleted, err := DeleteField(0, 0)(doc)
	require.NoError(t, err)
	require.Len(t, deleted.Steps[0].Fields, 1)
	assert.Equal(t, "deal", deleted.Steps[0].Fields[0].Name)
}

func TestEditsNeverTouchInput(t *testing.T) {
	doc := decodeForm(t, listingForm)
	before := encode(t, doc)

	edits := []Edit{
		SetLabel(0, 0, "Full name (as on ID)"),
		SetOptions(0, 1, "x,y"),
		ToggleRequired(0, 0),
		DeleteField(0, 1),
		AddField(0),
		MoveField(0, 0, 1),
		SetStepTitle(0, "Who"),
		SetStepOrder(0, 7),
		ToggleStepVisibility(0),
		AddStep(),
		DeleteStep(0),
		SetFormName("renamed"),
	}
	for i, e := range edits {
		_, err := e(doc)
		require.NoError(t, err, "edit %d", i)
		assert.JSONEq(t, before, encode(t, doc), "edit %d mutated its input", i)
	}
}

func TestToggleStepVisibilityLeavesFields(t *testing.T) {
	doc := decodeForm(t, listingForm)
	doc, err := ToggleFieldVisible(0, 1)(doc)
	require.NoError(t, err)

	got, err := ToggleStepVisibility(0)(doc)
	require.NoError(t, err)
	assert.False(t, got.Steps[0].Visible)
	assert.True(t, got.Steps[0].Fields[0].Visible)
	assert.False(t, got.Steps[0].Fields[1].Visible)
}

func TestHiddenStepGatesFieldEdits(t *testing.T) {
	doc := decodeForm(t, listingForm)
	hidden, err := ToggleStepVisibility(0)(doc)
	require.NoError(t, err)

	for i, e := range []Edit{AddField(0), DeleteField(0, 0), SetName(0, 0, "x"), ToggleRequired(0, 1), MoveField(0, 0, 1)} {
		_, err := e(hidden)
		assert.ErrorIs(t, err, ErrStepHidden, "edit %d", i)
	}

	// Step-level edits still work and fields stay present.
	renamed, err := SetStepTitle(0, "Later")(hidden)
	require.NoError(t, err)
	assert.Len(t, renamed.Steps[0].Fields, 2)
}

func TestRangeAndTypeErrors(t *testing.T) {
	doc := decodeForm(t, listingForm)

	_, err := SetName(3, 0, "x")(doc)
	assert.ErrorIs(t, err, ErrStepRange)
	_, err = SetName(0, 9, "x")(doc)
	assert.ErrorIs(t, err, ErrFieldRange)
	_, err = DeleteStep(-1)(doc)
	assert.ErrorIs(t, err, ErrStepRange)
	_, err = SetType(0, 0, "slider")(doc)
	assert.ErrorIs(t, err, ErrFieldType)
	_, err = MoveStep(0, 4)(doc)
	assert.ErrorIs(t, err, ErrStepRange)
}

func TestStepEdits(t *testing.T) {
	doc := decodeForm(t, listingForm)

	got, err := Chain(AddStep(), SetStepTitle(1, "Property"), SetStepOrder(1, 1), MoveStep(1, 0))(doc)
	require.NoError(t, err)
	require.Len(t, got.Steps, 2)
	assert.Equal(t, "Property", got.Steps[0].StepTitle)
	assert.Equal(t, 1, got.Steps[0].StepOrder, "duplicate orders are tolerated")
	assert.True(t, got.Steps[0].Visible)
	assert.Empty(t, got.Steps[0].Fields)

	got, err = DeleteStep(0)(got)
	require.NoError(t, err)
	require.Len(t, got.Steps, 1)
	assert.Equal(t, "Contact", got.Steps[0].StepTitle)
}

func TestCommandEdit(t *testing.T) {
	doc := decodeForm(t, listingForm)

	cmds := []Command{
		{Op: "addField", Step: 0},
		{Op: "setLabel", Step: 0, Field: 2, Value: "Budget (EUR)"},
		{Op: "setType", Step: 0, Field: 2, Value: "number"},
		{Op: "setOrder", Step: 0, Value: "3"},
	}
	edits, err := Edits(cmds)
	require.NoError(t, err)
	got, err := Chain(edits...)(doc)
	require.NoError(t, err)

	f := got.Steps[0].Fields[2]
	assert.Equal(t, "Budget", f.Label)
	assert.Equal(t, models.FieldNumber, f.Type)
	assert.Equal(t, 3, got.Steps[0].StepOrder)

	_, err = Command{Op: "explode"}.Edit()
	assert.ErrorIs(t, err, ErrUnknownOp)
	_, err = Command{Op: "setOrder", Value: "first"}.Edit()
	assert.Error(t, err)
}
