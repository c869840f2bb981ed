package web

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/my2ndangelic/mapletrack/internal/config"
	"github.com/my2ndangelic/mapletrack/internal/model"
	"github.com/my2ndangelic/mapletrack/internal/pipeline"
)

func testDataset(level int) model.Dataset {
	return model.Dataset{
		Accounts: []model.Account{
			{IGN: "Alpha", Level: level, JobName: "hero"},
			{IGN: "Beta", Level: 250, JobName: "xenon"},
		},
		Jobs: []model.Job{
			{JobName: "hero", Faction: "Explorer", Archetype: "Warrior", FullName: "Hero"},
			{JobName: "xenon", Faction: "Resistance", Archetype: "Thief Pirate", FullName: "Xenon"},
		},
		Symbols: []model.SymbolRecord{{IGN: "Alpha", Kind: config.Arcane, Levels: []model.SymbolLevel{
			{Region: "Vanishing Journey", Level: 20},
		}}},
	}
}

// staticLoader serves datasets in order, repeating the last one.
func staticLoader(sets ...model.Dataset) LoadFunc {
	i := 0
	return func(context.Context) (*pipeline.LoadReport, error) {
		ds := sets[i]
		if i < len(sets)-1 {
			i++
		}
		return &pipeline.LoadReport{
			LoadResult: &pipeline.LoadResult{Dataset: ds, Format: "csv"},
			Origin:     "test",
		}, nil
	}
}

func newTestService(t *testing.T, sets ...model.Dataset) *Service {
	t.Helper()
	s := New(Config{Interval: 10 * time.Second, EventsBuffer: 10}, nil)
	s.SetLoader(staticLoader(sets...))
	return s
}

func get(t *testing.T, h http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{Characters: 10, TotalLevel: 2500, ArcaneForce: 1000, SacredForce: 100, MaxedSymbols: 3}
	curr := Snapshot{Characters: 11, TotalLevel: 2760, ArcaneForce: 1030, SacredForce: 100, MaxedSymbols: 4}

	delta := diffSnapshots(prev, curr)
	assert.Equal(t, Delta{Characters: 1, TotalLevel: 260, ArcaneForce: 30, MaxedSymbols: 1}, delta)
	assert.False(t, delta.isZero())
	assert.True(t, diffSnapshots(curr, curr).isZero())
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{Interval: 10 * time.Second, EventsBuffer: 2}, nil)

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()
	require.Len(t, s.events, 2)
	assert.Equal(t, int64(2), s.events[0].ID)
	assert.Equal(t, int64(3), s.events[1].ID)
}

func TestPollOnce_Events(t *testing.T) {
	changed := testDataset(260)
	changed.Equipment = []model.EquipmentRecord{{IGN: "Alpha", Group: model.GroupArmor, Slots: map[string]string{"Hat": "Absolab Hat"}}}
	s := newTestService(t, testDataset(260), testDataset(260), testDataset(261), changed)
	ctx := context.Background()

	s.PollOnce(ctx)
	s.PollOnce(ctx) // unchanged
	s.PollOnce(ctx) // level up
	s.PollOnce(ctx) // equipment only

	s.mu.RLock()
	events := append([]Event(nil), s.events...)
	s.mu.RUnlock()

	require.Len(t, events, 3)
	assert.Equal(t, EventSnapshot, events[0].Type)
	assert.Equal(t, EventDelta, events[1].Type)
	assert.Equal(t, 1, events[1].Delta.TotalLevel)
	assert.Equal(t, EventChanged, events[2].Type)
	assert.NotEqual(t, events[1].Snapshot.Fingerprint, events[2].Snapshot.Fingerprint)

	st := s.Status()
	assert.Equal(t, int64(4), st.PollCount)
	assert.Equal(t, 2, st.Summary.Characters)
	assert.Equal(t, "csv", st.Format)
}

func TestPollOnce_ErrorKeepsRoster(t *testing.T) {
	s := newTestService(t, testDataset(260))
	s.PollOnce(context.Background())
	require.NotNil(t, s.Roster())

	s.SetLoader(func(context.Context) (*pipeline.LoadReport, error) {
		return nil, errors.New("disk gone")
	})
	s.PollOnce(context.Background())

	assert.NotNil(t, s.Roster())
	assert.Equal(t, "disk gone", s.Status().LastError)

	w := get(t, s.Handler(), "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Data could not be loaded: disk gone")
	assert.Contains(t, w.Body.String(), "Alpha")
}

func TestHandler_Pages(t *testing.T) {
	s := newTestService(t, testDataset(260))
	s.PollOnce(context.Background())
	h := s.Handler()

	w := get(t, h, "/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `<table id="charTable">`)
	assert.Contains(t, body, "<td>Alpha</td>")
	assert.Contains(t, body, `href="/static/style.css"`)
	assert.Contains(t, body, "2 characters")

	w = get(t, h, "/arcane.html")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<td class="symbol-max">20</td>`)

	w = get(t, h, "/progression")
	assert.Contains(t, w.Body.String(), `class="thief-pirate"`)

	w = get(t, h, "/nowhere")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_BeforeFirstPoll(t *testing.T) {
	s := newTestService(t, testDataset(260))
	w := get(t, s.Handler(), "/cash")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Data is still loading.")
	assert.Contains(t, w.Body.String(), `<table id="cashTable">`)
}

func TestHandler_DarkMode(t *testing.T) {
	s := newTestService(t, testDataset(260))
	h := s.Handler()

	w := get(t, h, "/theme?dark=true&next=/sacred")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/sacred", w.Header().Get("Location"))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "darkMode", cookies[0].Name)
	assert.Equal(t, "true", cookies[0].Value)

	w = get(t, h, "/sacred", cookies[0])
	assert.Contains(t, w.Body.String(), `href="/static/style-dark.css"`)
	assert.Contains(t, w.Body.String(), "Light Mode")

	w = get(t, h, "/theme?dark=false&next=https://example.com")
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = get(t, h, "/static/style-dark.css")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ".symbol-max")
	assert.Equal(t, http.StatusNotFound, get(t, h, "/static/secret.txt").Code)
}

func TestHandler_DarkModeDefault(t *testing.T) {
	s := New(Config{DarkMode: true}, nil)
	s.SetLoader(staticLoader(testDataset(260)))
	w := get(t, s.Handler(), "/about")
	assert.Contains(t, w.Body.String(), `href="/static/style-dark.css"`)
}

func TestHandler_API(t *testing.T) {
	s := newTestService(t, testDataset(260))
	s.PollOnce(context.Background())
	h := s.Handler()

	w := get(t, h, "/healthz")
	assert.Equal(t, "ok\n", w.Body.String())

	w = get(t, h, "/v1/status")
	require.Equal(t, http.StatusOK, w.Code)
	var st Status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.Equal(t, 2, st.Summary.Characters)
	assert.Equal(t, 1, st.EventCount)

	w = get(t, h, "/v1/tables/arcane")
	require.Equal(t, http.StatusOK, w.Code)
	var tbl model.Table
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tbl))
	assert.Equal(t, "arcaneTable", tbl.ID)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "Alpha", tbl.Rows[0].IGN)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/v1/tables/bogus").Code)

	w = get(t, h, "/v1/events")
	var events []Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, EventSnapshot, events[0].Type)

	w = get(t, h, "/v1/roster")
	var roster model.Roster
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &roster))
	assert.Len(t, roster.Characters, 2)
}

func TestHandler_StreamSendsSnapshot(t *testing.T) {
	s := newTestService(t, testDataset(260))
	s.PollOnce(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/v1/stream", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		s.Handler().ServeHTTP(w, req)
		close(done)
	}()
	require.Eventually(t, func() bool { return s.Status().SubscriberCount == 1 }, time.Second, 10*time.Millisecond)
	cancel()
	<-done

	assert.True(t, strings.HasPrefix(w.Body.String(), "event: snapshot\ndata: "))
	assert.Equal(t, 0, s.Status().SubscriberCount)
}

func TestRenderPage_Static(t *testing.T) {
	page, err := pipeline.ResolvePage("/equipment")
	require.NoError(t, err)
	r := pipeline.Build(func() *model.Dataset { ds := testDataset(260); return &ds }(), pipeline.Options{})

	var buf bytes.Buffer
	require.NoError(t, RenderPage(&buf, NewPageData(page, r, false, true)))
	out := buf.String()
	assert.Contains(t, out, `href="style.css"`)
	assert.Contains(t, out, `href="overview.html"`)
	assert.Contains(t, out, `<button class="active">Equipment</button>`)
	assert.Contains(t, out, "localStorage")
}
