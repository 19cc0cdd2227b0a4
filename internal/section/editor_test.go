package section

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/models"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/notify"
)

type fakeStore struct {
	data   map[string]string
	gets   int
	puts   []string
	getErr error
	putErr error
	onPut  func()
}

func (s *fakeStore) Get(_ context.Context, name string, out any) error {
	s.gets++
	if s.getErr != nil {
		return s.getErr
	}
	raw, ok := s.data[name]
	if !ok {
		return nil
	}
	return json.Unmarshal([]byte(raw), out)
}

func (s *fakeStore) Put(_ context.Context, name string, v any) error {
	if s.onPut != nil {
		s.onPut()
	}
	if s.putErr != nil {
		return s.putErr
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.puts = append(s.puts, string(b))
	s.data[name] = string(b)
	return nil
}

func TestLoadMergesOverDefaults(t *testing.T) {
	store := &fakeStore{data: map[string]string{About: `{"title": "About us", "mission": {"title": "Why"}}`}}
	e := NewEditor(AboutSpec, store)
	assert.Equal(t, StateIdle, e.State())

	require.NoError(t, e.Load(context.Background()))
	assert.Equal(t, StateLoaded, e.State())

	v := e.Value()
	assert.Equal(t, "About us", v.Title)
	assert.Equal(t, "Why", v.Mission.Title)
	assert.Equal(t, "", v.Body)
	assert.NotNil(t, v.Values)
	assert.NotNil(t, v.SEO.Keywords)
}

func TestLoadFailureKeepsValue(t *testing.T) {
	store := &fakeStore{data: map[string]string{}, getErr: errors.New("offline")}
	e := NewEditor(QuotesSpec, store)
	e.Set(models.QuotesSection{Quotes: []models.Quote{{Text: "Home", Author: "Ann"}}})

	err := e.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateError, e.State())
	assert.ErrorContains(t, e.Err(), "offline")
	assert.Len(t, e.Value().Quotes, 1)
}

func TestSaveValidatesFirst(t *testing.T) {
	store := &fakeStore{data: map[string]string{}}
	q := notify.NewQueue(0)
	e := NewEditor(HomepageSpec, store, WithNotifier(q))
	require.NoError(t, e.Load(context.Background()))

	e.Update(func(v models.HomepageSection) models.HomepageSection {
		v.Hero = models.Hero{Title: "Find a home", Subtitle: "Fast", Image: "/hero.jpg", CTA: models.CallToAction{Label: "Search"}}
		v.FAQ = []models.FAQ{{Question: "Fees?"}}
		return v
	})
	assert.Equal(t, StateEditing, e.State())

	res := e.Save(context.Background())
	assert.Equal(t, Invalid, res.Status)
	var paths []string
	for _, fe := range res.Errors {
		paths = append(paths, fe.Path)
	}
	assert.Equal(t, []string{"hero.cta.url", "faq[0].answer"}, paths)
	assert.Empty(t, store.puts)
	assert.Equal(t, StateEditing, e.State())
	assert.Equal(t, []notify.Notification{{Level: notify.LevelError, Message: "Please fill in all required fields."}}, q.Drain())
}

func TestSaveSuccessRefetches(t *testing.T) {
	store := &fakeStore{data: map[string]string{PrivacyPolicy: `{"title": "Privacy", "body": "<p>old</p>"}`}}
	q := notify.NewQueue(0)
	e := NewEditor(PrivacyPolicySpec, store, WithNotifier(q))
	require.NoError(t, e.Load(context.Background()))

	e.Update(func(v models.LegalSection) models.LegalSection {
		v.Body = `<p onclick="steal()">new</p><script>alert(1)</script>`
		return v
	})
	res := e.Save(context.Background())
	require.True(t, res.OK(), "%v", res.Err)

	require.Len(t, store.puts, 1)
	assert.NotContains(t, store.puts[0], "script")
	assert.NotContains(t, store.puts[0], "onclick")
	assert.Equal(t, 2, store.gets)
	assert.Equal(t, StateLoaded, e.State())
	assert.Equal(t, "<p>new</p>", e.Value().Body)
	assert.Equal(t, []notify.Notification{{Level: notify.LevelSuccess, Message: "Privacy policy saved"}}, q.Drain())
}

func TestSaveWithoutRefetch(t *testing.T) {
	store := &fakeStore{data: map[string]string{}}
	e := NewEditor(SitemapSpec, store)
	e.Set(models.SitemapSection{Entries: []models.SitemapEntry{{Loc: "/listings", Priority: 0}}})

	require.True(t, e.Save(context.Background()).OK())
	assert.Zero(t, store.gets)
	assert.Equal(t, StateLoaded, e.State())
}

func TestSaveKeepsServerMembers(t *testing.T) {
	store := &fakeStore{data: map[string]string{PrivacyPolicy: `{"_id": "abc", "title": "Privacy", "body": "<p>x</p>",
		"lastUpdated": "2024", "updatedBy": "ann", "sections": [{"h": "1"}]}`}}
	e := NewEditor(PrivacyPolicySpec, store)
	require.NoError(t, e.Load(context.Background()))

	e.Update(func(v models.LegalSection) models.LegalSection {
		v.Body = "<p>y</p>"
		return v
	})
	require.True(t, e.Save(context.Background()).OK())

	require.Len(t, store.puts, 1)
	assert.JSONEq(t, `{"_id": "abc", "title": "Privacy", "body": "<p>y</p>",
		"lastUpdated": "2024", "updatedBy": "ann", "sections": [{"h": "1"}]}`, store.puts[0])
}

func TestSaveKeepsNestedServerMembers(t *testing.T) {
	store := &fakeStore{data: map[string]string{Homepage: `{"hero": {"title": "Home", "video": "/intro.mp4"}, "layout": "wide"}`}}
	e := NewEditor(HomepageSpec, store)
	require.NoError(t, e.Load(context.Background()))

	e.Update(func(v models.HomepageSection) models.HomepageSection {
		v.Hero.Subtitle = "Fast"
		v.Hero.Image = "/hero.jpg"
		v.Hero.CTA = models.CallToAction{Label: "Search", URL: "/search"}
		v.FAQ = []models.FAQ{{Question: "Fees?", Answer: "None"}}
		return v
	})
	res := e.Save(context.Background())
	require.True(t, res.OK(), "%v", res.Errors)

	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(store.puts[0]), &sent))
	assert.Equal(t, "wide", sent["layout"])
	hero := sent["hero"].(map[string]any)
	assert.Equal(t, "/intro.mp4", hero["video"])
	assert.Equal(t, "Fast", hero["subtitle"])
}

func TestSaveKeepsEditsMadeInFlight(t *testing.T) {
	store := &fakeStore{data: map[string]string{}}
	e := NewEditor(QuotesSpec, store)
	e.Set(models.QuotesSection{Quotes: []models.Quote{{Text: "Great", Author: "Bo"}}})
	store.onPut = func() {
		e.Update(func(v models.QuotesSection) models.QuotesSection {
			v.Quotes = append(v.Quotes, models.Quote{Text: "Fast", Author: "Cy"})
			return v
		})
	}

	require.True(t, e.Save(context.Background()).OK())
	assert.Len(t, e.Value().Quotes, 2)
	assert.Equal(t, StateEditing, e.State())

	store.onPut = nil
	require.True(t, e.Save(context.Background()).OK())
	assert.Equal(t, StateLoaded, e.State())
	assert.Len(t, e.Value().Quotes, 2)
}

func TestSaveFailureKeepsEdits(t *testing.T) {
	store := &fakeStore{data: map[string]string{}, putErr: errors.New("500")}
	e := NewEditor(QuotesSpec, store)
	e.Set(models.QuotesSection{Quotes: []models.Quote{{Text: "Great", Author: "Bo"}}})

	res := e.Save(context.Background())
	assert.Equal(t, Failed, res.Status)
	assert.Equal(t, "failed", res.Status.String())
	assert.Equal(t, StateError, e.State())
	assert.Equal(t, "Great", e.Value().Quotes[0].Text)

	store.putErr = nil
	assert.True(t, e.Save(context.Background()).OK())
}

func TestRegistry(t *testing.T) {
	store := &fakeStore{data: map[string]string{}}
	r := NewRegistry(store)

	var names []string
	for _, h := range r.All() {
		names = append(names, h.Name())
	}
	assert.Equal(t, []string{Homepage, About, Articles, RealEstateAgents, Partners, Quotes, PrivacyPolicy, TermsOfService, Sitemap, SEO}, names)

	h, ok := r.Get(Partners)
	require.True(t, ok)
	require.NoError(t, h.Replace(json.RawMessage(`{"title": "Friends", "partners": [{"name": "Bank", "logo": ""}]}`)))
	assert.Equal(t, StateEditing, h.State())
	errs := h.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "partners[0].logo", errs[0].Path)

	snap, ok := h.Snapshot().(models.PartnerSection)
	require.True(t, ok)
	assert.Equal(t, "Friends", snap.Title)

	assert.Error(t, h.Replace(json.RawMessage(`[1,2]`)))
	_, ok = r.Get("nope")
	assert.False(t, ok)
}
