package tracker

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/laundry/internal/model"
	"github.com/Makepad-fr/laundry/internal/view"
)

type memStore struct {
	st    model.AppState
	saves int
	fail  error
}

func (m *memStore) Load() (model.AppState, error) { return m.st.Clone(), nil }

func (m *memStore) Save(st model.AppState) error {
	if m.fail != nil {
		return m.fail
	}
	m.saves++
	m.st = st.Clone()
	return nil
}

var fixedNow = time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)

func newTracker(t *testing.T) (*Tracker, *memStore) {
	t.Helper()
	store := &memStore{st: model.NewState(model.DefaultSettings())}
	n := 0
	tr, err := New(store,
		WithClock(func() time.Time { return fixedNow }),
		WithIDFunc(func() string { n++; return fmt.Sprintf("id-%d", n) }),
	)
	require.NoError(t, err)
	return tr, store
}

func TestAddItem(t *testing.T) {
	tr, store := newTracker(t)

	it, err := tr.AddItem("  Blue shirt ", model.StatusInLaundry, "")
	require.NoError(t, err)
	assert.Equal(t, "Blue shirt", it.Name)
	assert.Equal(t, "id-1", it.ID)
	assert.Equal(t, fixedNow, it.DateAdded)
	assert.Equal(t, 1, store.saves)

	_, err = tr.AddItem("Jeans", model.StatusInCupboard, "data:image/png;base64,AAAA")
	require.NoError(t, err)

	items := tr.Items(view.FilterAll)
	require.Len(t, items, 2)
	assert.Equal(t, "Blue shirt", items[0].Name)
	assert.Equal(t, "Jeans", items[1].Name)
	assert.True(t, items[1].HasImage())
}

func TestAddItemValidation(t *testing.T) {
	tr, store := newTracker(t)

	_, err := tr.AddItem("   ", model.StatusInLaundry, "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = tr.AddItem("Hat", model.Status("drawer"), "")
	assert.ErrorIs(t, err, ErrValidation)

	assert.Empty(t, tr.Items(view.FilterAll))
	assert.Zero(t, store.saves)
}

func TestAddThenDeleteRestoresItems(t *testing.T) {
	tr, _ := newTracker(t)
	_, err := tr.AddItem("Towel", model.StatusInCupboard, "")
	require.NoError(t, err)
	before := tr.Items(view.FilterAll)

	it, err := tr.AddItem("Scarf", model.StatusInLaundry, "")
	require.NoError(t, err)
	require.NoError(t, tr.DeleteItem(it.ID))

	assert.Equal(t, before, tr.Items(view.FilterAll))
}

func TestDeleteItemUnknown(t *testing.T) {
	tr, _ := newTracker(t)
	assert.ErrorIs(t, tr.DeleteItem("nope"), ErrNotFound)
}

func TestToggleStatus(t *testing.T) {
	tr, _ := newTracker(t)
	it, err := tr.AddItem("Socks", model.StatusInLaundry, "")
	require.NoError(t, err)

	got, err := tr.ToggleStatus(it.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInCupboard, got.Status)

	got, err = tr.ToggleStatus(it.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInLaundry, got.Status)

	_, err = tr.ToggleStatus("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateItemPartial(t *testing.T) {
	tr, _ := newTracker(t)
	it, err := tr.AddItem("Coat", model.StatusInCupboard, "data:image/jpeg;base64,xx")
	require.NoError(t, err)

	name := " Winter coat "
	got, err := tr.UpdateItem(it.ID, ItemUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Winter coat", got.Name)
	assert.Equal(t, "data:image/jpeg;base64,xx", got.Image)

	none := ""
	got, err = tr.UpdateItem(it.ID, ItemUpdate{Image: &none})
	require.NoError(t, err)
	assert.Equal(t, "Winter coat", got.Name)
	assert.False(t, got.HasImage())

	blank := "  "
	_, err = tr.UpdateItem(it.ID, ItemUpdate{Name: &blank})
	assert.ErrorIs(t, err, ErrValidation)
	cur, err := tr.Item(it.ID)
	require.NoError(t, err)
	assert.Equal(t, "Winter coat", cur.Name)

	_, err = tr.UpdateItem("missing", ItemUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitLaundryScenario(t *testing.T) {
	tr, _ := newTracker(t)
	_, err := tr.AddItem("Shirt", model.StatusInLaundry, "")
	require.NoError(t, err)
	_, err = tr.AddItem("Pants", model.StatusInCupboard, "")
	require.NoError(t, err)

	rec, err := tr.SubmitLaundry(model.MustDate("2026-03-09"), 10)
	require.NoError(t, err)

	assert.Equal(t, 35.0, tr.Settings().CurrentWeight)
	h := tr.History()
	require.Len(t, h, 1)
	assert.Equal(t, rec, h[0])
	assert.Equal(t, 10.0, rec.Weight)
	assert.Equal(t, 1, rec.ItemsCount)
	assert.Equal(t, "2026-03-09", rec.Date.String())
	assert.Equal(t, fixedNow, rec.Timestamp)
}

func TestSubmitLaundryInsufficientBudget(t *testing.T) {
	tr, store := newTracker(t)
	s := tr.Settings()
	s.CurrentWeight = 5
	require.NoError(t, tr.UpdateSettings(s))
	saves := store.saves

	_, err := tr.SubmitLaundry(model.MustDate("2026-03-09"), 10)
	require.ErrorIs(t, err, ErrInsufficientBudget)
	var ib *InsufficientBudgetError
	require.True(t, errors.As(err, &ib))
	assert.Equal(t, 5.0, ib.Available)
	assert.Contains(t, err.Error(), "only 5.0 kg left")

	assert.Equal(t, 5.0, tr.Settings().CurrentWeight)
	assert.Empty(t, tr.History())
	assert.Equal(t, saves, store.saves)
}

func TestSubmitLaundryValidation(t *testing.T) {
	tr, _ := newTracker(t)
	d := model.MustDate("2026-03-09")

	for _, w := range []float64{0, -1, 1e-7} {
		_, err := tr.SubmitLaundry(d, w)
		assert.ErrorIs(t, err, ErrValidation)
	}
	_, err := tr.SubmitLaundry(model.Date{}, 3)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 45.0, tr.Settings().CurrentWeight)
	assert.Empty(t, tr.History())
}

func TestHistoryNewestFirst(t *testing.T) {
	tr, _ := newTracker(t)
	r1, err := tr.SubmitLaundry(model.MustDate("2026-03-01"), 3)
	require.NoError(t, err)
	r2, err := tr.SubmitLaundry(model.MustDate("2026-03-02"), 4)
	require.NoError(t, err)

	h := tr.History()
	require.Len(t, h, 2)
	assert.Equal(t, r2.ID, h[0].ID)
	assert.Equal(t, r1.ID, h[1].ID)

	first, err := tr.RecordAt(1)
	require.NoError(t, err)
	assert.Equal(t, r2.ID, first.ID)
	_, err = tr.RecordAt(3)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := tr.Record(r1.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got.Weight)
	_, err = tr.Record("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitThenDeleteRestoresWeightExactly(t *testing.T) {
	for _, w := range []float64{0.1, 0.3, 2.7, 10, 44.99} {
		tr, _ := newTracker(t)
		before := tr.Settings().CurrentWeight

		rec, err := tr.SubmitLaundry(model.MustDate("2026-03-01"), w)
		require.NoError(t, err)
		got, err := tr.DeleteRecord(rec.ID)
		require.NoError(t, err)

		assert.Equal(t, rec, got)
		assert.Equal(t, before, tr.Settings().CurrentWeight, "weight %v", w)
		assert.Empty(t, tr.History())
	}
}

func TestDeleteRecordDoesNotClamp(t *testing.T) {
	tr, _ := newTracker(t)
	rec, err := tr.SubmitLaundry(model.MustDate("2026-03-01"), 20)
	require.NoError(t, err)

	s := tr.Settings()
	s.TotalPackageWeight = 30
	s.CurrentWeight = 25
	require.NoError(t, tr.UpdateSettings(s))

	_, err = tr.DeleteRecord(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 45.0, tr.Settings().CurrentWeight)

	_, err = tr.DeleteRecord(rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateSettingsValidation(t *testing.T) {
	base := model.DefaultSettings()
	cases := []struct {
		name   string
		mutate func(*model.Settings)
	}{
		{"negative current", func(s *model.Settings) { s.CurrentWeight = -1 }},
		{"nan total", func(s *model.Settings) { s.TotalPackageWeight = nan() }},
		{"zero total", func(s *model.Settings) { s.TotalPackageWeight = 0; s.CurrentWeight = 0 }},
		{"total rounds to zero", func(s *model.Settings) { s.TotalPackageWeight = 1e-7; s.CurrentWeight = 0 }},
		{"min above max", func(s *model.Settings) { s.MinLoadWeight = 11 }},
		{"current above total", func(s *model.Settings) { s.CurrentWeight = 91 }},
		{"no expiration", func(s *model.Settings) { s.ExpirationDate = model.Date{} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr, _ := newTracker(t)
			s := base
			tc.mutate(&s)
			assert.ErrorIs(t, tr.UpdateSettings(s), ErrValidation)
			assert.Equal(t, base, tr.Settings())
		})
	}
}

func nan() float64 {
	var zero float64
	return zero / zero
}

func TestFailedSaveLeavesStateUnchanged(t *testing.T) {
	tr, store := newTracker(t)
	_, err := tr.AddItem("Shirt", model.StatusInLaundry, "")
	require.NoError(t, err)

	store.fail = errors.New("disk full")
	_, err = tr.AddItem("Pants", model.StatusInLaundry, "")
	assert.ErrorContains(t, err, "disk full")
	_, err = tr.SubmitLaundry(model.MustDate("2026-03-01"), 1)
	assert.Error(t, err)

	assert.Len(t, tr.Items(view.FilterAll), 1)
	assert.Equal(t, 45.0, tr.Settings().CurrentWeight)
	assert.Empty(t, tr.History())
}

func TestSummaryAndItemAt(t *testing.T) {
	tr, _ := newTracker(t)
	_, err := tr.AddItem("A", model.StatusInCupboard, "")
	require.NoError(t, err)
	b, err := tr.AddItem("B", model.StatusInLaundry, "")
	require.NoError(t, err)

	got, err := tr.ItemAt(1, view.FilterInLaundry)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
	_, err = tr.ItemAt(0, view.FilterAll)
	assert.ErrorIs(t, err, ErrNotFound)

	s := tr.Summary()
	assert.Equal(t, 1, s.ItemsInLaundry)
	assert.Equal(t, 1, s.ItemsInCupboard)
	assert.Equal(t, 7, s.LoadsRemaining)
}

func TestExport(t *testing.T) {
	tr, _ := newTracker(t)
	_, err := tr.AddItem("Shirt", model.StatusInLaundry, "")
	require.NoError(t, err)
	_, err = tr.SubmitLaundry(model.MustDate("2026-03-01"), 2)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tr.Export(&buf))

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Contains(t, doc, "items")
	assert.Contains(t, doc, "settings")
	assert.Contains(t, doc, "exportDate")
	assert.NotContains(t, doc, "laundryHistory")
	assert.Contains(t, buf.String(), "\n  \"items\"")

	assert.Equal(t, "laundry-tracker-backup-2026-03-10.json", BackupFileName(fixedNow))
}

func TestImportRejectsMissingFields(t *testing.T) {
	for _, doc := range []string{
		`{"settings":{"currentWeight":10}}`,
		`{"items":[]}`,
		`{"items":null,"settings":{}}`,
		`{"items":[],"settings":null}`,
		`not json`,
	} {
		tr, store := newTracker(t)
		_, err := tr.AddItem("Keep me", model.StatusInLaundry, "")
		require.NoError(t, err)
		saves := store.saves

		err = tr.Import(strings.NewReader(doc))
		assert.ErrorIs(t, err, ErrImportFormat, doc)
		assert.Len(t, tr.Items(view.FilterAll), 1)
		assert.Equal(t, saves, store.saves)
	}
}

func TestImportReplacesItemsAndMergesSettings(t *testing.T) {
	tr, _ := newTracker(t)
	_, err := tr.AddItem("Old", model.StatusInLaundry, "")
	require.NoError(t, err)
	rec, err := tr.SubmitLaundry(model.MustDate("2026-03-01"), 5)
	require.NoError(t, err)

	doc := `{
	  "items": [
	    {"id":"x1","name":"Dress","status":"cupboard","dateAdded":"2025-12-01T10:00:00Z"},
	    {"name":"Cap","status":"laundry"},
	    {"id":"x1","name":"Dup","status":"laundry"}
	  ],
	  "settings": {"currentWeight": 20, "expirationDate": "2027-01-01"}
	}`
	require.NoError(t, tr.Import(strings.NewReader(doc)))

	items := tr.Items(view.FilterAll)
	require.Len(t, items, 3)
	assert.Equal(t, "x1", items[0].ID)
	assert.NotEmpty(t, items[1].ID)
	assert.NotEqual(t, "x1", items[2].ID)
	assert.Equal(t, fixedNow, items[1].DateAdded)

	s := tr.Settings()
	assert.Equal(t, 20.0, s.CurrentWeight)
	assert.Equal(t, 90.0, s.TotalPackageWeight)
	assert.Equal(t, "2027-01-01", s.ExpirationDate.String())

	h := tr.History()
	require.Len(t, h, 1)
	assert.Equal(t, rec.ID, h[0].ID)
}

func TestImportRejectsBadItems(t *testing.T) {
	tr, _ := newTracker(t)
	err := tr.Import(strings.NewReader(`{"items":[{"name":"","status":"laundry"}],"settings":{}}`))
	assert.ErrorIs(t, err, ErrImportFormat)

	err = tr.Import(strings.NewReader(`{"items":[{"name":"Hat","status":"drawer"}],"settings":{}}`))
	assert.ErrorIs(t, err, ErrImportFormat)

	err = tr.Import(strings.NewReader(`{"items":[],"settings":{"minLoadWeight":50}}`))
	assert.ErrorIs(t, err, ErrImportFormat)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestExportImportRoundTrip(t *testing.T) {
	src, _ := newTracker(t)
	_, err := src.AddItem("Shirt", model.StatusInLaundry, "")
	require.NoError(t, err)
	_, err = src.AddItem("Pants", model.StatusInCupboard, "")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, src.Export(&buf))

	dst, _ := newTracker(t)
	require.NoError(t, dst.Import(&buf))
	assert.Equal(t, src.Items(view.FilterAll), dst.Items(view.FilterAll))
	assert.Equal(t, src.Settings(), dst.Settings())
}

func TestNewLoadsFromStore(t *testing.T) {
	st := model.NewState(model.DefaultSettings())
	st.Items = append(st.Items, model.Item{ID: "a", Name: "Robe", Status: model.StatusInCupboard})
	st.LaundryHistory = nil

	tr, err := New(&memStore{st: st})
	require.NoError(t, err)
	assert.Len(t, tr.Items(view.FilterAll), 1)
	assert.NotNil(t, tr.History())
	assert.Equal(t, model.DefaultSettings().ExpirationDate.Time, tr.ExpirationDate())
}
