package formbuilder

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/models"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/notify"
)

// fakeStore serves documents from their JSON text so every List hands out
// freshly decoded values, like a real backend would.
type fakeStore struct {
	mu         sync.Mutex
	docs       map[string]string
	order      []string
	lists      int
	replaced   []string
	replaceErr error
}

func newFakeStore(raws ...string) *fakeStore {
	s := &fakeStore{docs: map[string]string{}}
	for _, raw := range raws {
		var probe struct {
			ID string `json:"_id"`
		}
		_ = json.Unmarshal([]byte(raw), &probe)
		s.docs[probe.ID] = raw
		s.order = append(s.order, probe.ID)
	}
	return s
}

func (s *fakeStore) List(context.Context) ([]models.FormDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	out := make([]models.FormDocument, 0, len(s.order))
	for _, id := range s.order {
		var d models.FormDocument
		if err := json.Unmarshal([]byte(s.docs[id]), &d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *fakeStore) Replace(_ context.Context, doc models.FormDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.replaceErr != nil {
		return s.replaceErr
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	s.replaced = append(s.replaced, string(b))
	s.docs[doc.ID] = string(b)
	return nil
}

const secondForm = `{"_id": "f2", "formName": "Valuation", "description": "", "steps": []}`

func loadedEditor(t *testing.T, store *fakeStore, opts ...Option) *Editor {
	t.Helper()
	e := NewEditor(store, opts...)
	require.NoError(t, e.Load(context.Background()))
	return e
}

func TestEditorAddFieldAndSave(t *testing.T) {
	store := newFakeStore(listingForm, secondForm)
	q := notify.NewQueue(0)
	e := loadedEditor(t, store, WithNotifier(q))
	require.Equal(t, 1, store.lists)
	assert.False(t, e.CanSave("f1"))

	doc, err := e.Apply("f1", AddField(0))
	require.NoError(t, err)
	assert.Len(t, doc.Steps[0].Fields, 3)
	assert.True(t, doc.IsChanged)
	assert.True(t, e.CanSave("f1"))
	assert.False(t, e.CanSave("f2"))

	res := e.Save(context.Background(), "f1")
	require.True(t, res.OK(), "save: %v", res.Err)
	require.NoError(t, res.RefetchErr)

	require.Len(t, store.replaced, 1)
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(store.replaced[0]), &payload))
	assert.NotContains(t, payload, "isChanged")
	steps := payload["steps"].([]any)
	assert.Len(t, steps[0].(map[string]any)["fields"], 3)

	assert.Equal(t, 2, store.lists, "collection is refetched after save")
	assert.False(t, e.CanSave("f1"))
	assert.Equal(t, []notify.Notification{{Level: notify.LevelSuccess, Message: `Form "Listing request" saved`}}, q.Drain())
}

func TestEditorRoundTripWithoutEdits(t *testing.T) {
	store := newFakeStore(listingForm)
	e := loadedEditor(t, store)

	res := e.Save(context.Background(), "f1")
	require.True(t, res.OK())
	require.Len(t, store.replaced, 1)
	assert.JSONEq(t, listingForm, store.replaced[0])
}

const sparseForm = `{"_id": "s1", "formName": "Sparse", "steps": [{"stepTitle": "A", "fields": [{"label": "Name", "name": "n", "type": "text"}]}]}`

func TestEditorRoundTripSparseDocument(t *testing.T) {
	store := newFakeStore(sparseForm)
	e := loadedEditor(t, store)

	doc, ok := e.Document("s1")
	require.True(t, ok)
	assert.True(t, doc.Steps[0].Visible, "a step without a visible key is shown")
	assert.True(t, doc.Steps[0].Fields[0].Visible)

	_, err := e.Apply("s1")
	require.NoError(t, err)
	assert.False(t, e.CanSave("s1"), "no edits leave the copy clean")

	res := e.Save(context.Background(), "s1")
	require.True(t, res.OK())
	require.Len(t, store.replaced, 1)
	assert.JSONEq(t, sparseForm, store.replaced[0])
}

func TestEditorEditsSparseStep(t *testing.T) {
	store := newFakeStore(sparseForm)
	e := loadedEditor(t, store)

	_, err := e.Apply("s1", AddField(0), SetPlaceholder(0, 0, "Jane"))
	require.NoError(t, err)
	require.True(t, e.Save(context.Background(), "s1").OK())

	assert.JSONEq(t, `{"_id": "s1", "formName": "Sparse", "steps": [{"stepTitle": "A", "fields": [
		{"label": "Name", "name": "n", "type": "text", "placeholder": "Jane"},
		{"label": "", "name": "", "placeholder": "", "type": "text", "options": [], "required": false, "visible": true}
	]}]}`, store.replaced[0])
}

func TestEditorNeverEditsFetchedCollection(t *testing.T) {
	store := newFakeStore(listingForm)
	e := loadedEditor(t, store)
	before := encode(t, e.Fetched())

	_, err := e.Apply("f1", SetOptions(0, 1, "Buy"), SetStepTitle(0, "Changed"), AddField(0))
	require.NoError(t, err)

	assert.JSONEq(t, before, encode(t, e.Fetched()))
	assert.NotEqual(t, before, encode(t, e.Documents()))
}

func TestEditorApplyIsAtomic(t *testing.T) {
	store := newFakeStore(listingForm)
	e := loadedEditor(t, store)

	_, err := e.Apply("f1", SetName(0, 0, "first"), DeleteField(0, 9))
	assert.ErrorIs(t, err, ErrFieldRange)

	doc, ok := e.Document("f1")
	require.True(t, ok)
	assert.Equal(t, "name", doc.Steps[0].Fields[0].Name)
	assert.False(t, doc.IsChanged)

	_, err = e.Apply("missing", AddStep())
	assert.ErrorIs(t, err, ErrUnknownDocument)
}

func TestEditorAddStep(t *testing.T) {
	e := loadedEditor(t, newFakeStore(secondForm))

	doc, err := e.AddStep("f2")
	require.NoError(t, err)
	require.Len(t, doc.Steps, 1)
	assert.Equal(t, models.NewStep(), doc.Steps[0])
	assert.True(t, e.CanSave("f2"))
}

func TestEditorSaveFailureKeepsEdits(t *testing.T) {
	store := newFakeStore(listingForm)
	store.replaceErr = errors.New("backend down")
	q := notify.NewQueue(0)
	e := loadedEditor(t, store, WithNotifier(q))

	_, err := e.Apply("f1", SetFormName("Draft"))
	require.NoError(t, err)

	res := e.Save(context.Background(), "f1")
	assert.False(t, res.OK())
	assert.EqualError(t, res.Err, "backend down")
	assert.Equal(t, 1, store.lists, "no refetch after a failed save")

	doc, _ := e.Document("f1")
	assert.Equal(t, "Draft", doc.FormName)
	assert.True(t, doc.IsChanged)
	assert.Zero(t, q.Len(), "the editor does not claim success")
}

func TestEditorRefetchPolicies(t *testing.T) {
	for _, tt := range []struct {
		name      string
		policy    RefetchPolicy
		keepOther bool
	}{
		{"all", RefetchAll, false},
		{"keep dirty", RefetchKeepDirty, true},
	} {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore(listingForm, secondForm)
			e := loadedEditor(t, store, WithRefetchPolicy(tt.policy))

			_, err := e.Apply("f2", SetDescription("pending"))
			require.NoError(t, err)
			_, err = e.Apply("f1", SetFormName("Listing"))
			require.NoError(t, err)

			require.True(t, e.Save(context.Background(), "f1").OK())

			f1, _ := e.Document("f1")
			assert.Equal(t, "Listing", f1.FormName)
			assert.False(t, f1.IsChanged)

			f2, _ := e.Document("f2")
			assert.Equal(t, tt.keepOther, f2.IsChanged)
			if tt.keepOther {
				assert.Equal(t, "pending", f2.Description)
			} else {
				assert.Empty(t, f2.Description)
			}
		})
	}
}

func TestParseRefetchPolicy(t *testing.T) {
	assert.Equal(t, RefetchKeepDirty, ParseRefetchPolicy("keep-dirty"))
	assert.Equal(t, RefetchAll, ParseRefetchPolicy("all"))
	assert.Equal(t, RefetchAll, ParseRefetchPolicy(""))
}
