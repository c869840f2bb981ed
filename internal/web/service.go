// Package web serves the roster pages, the JSON API and the live event stream.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/hashstructure/v2"
	"go.uber.org/zap"

	"github.com/my2ndangelic/mapletrack/internal/logging"
	"github.com/my2ndangelic/mapletrack/internal/model"
	"github.com/my2ndangelic/mapletrack/internal/pipeline"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Config controls the server runtime behavior.
type Config struct {
	Load         pipeline.LoadOptions
	Build        pipeline.Options
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	DarkMode     bool // default theme when no cookie is set
}

// Snapshot is a compact roster state for status and event payloads.
type Snapshot struct {
	At           time.Time `json:"at"`
	Characters   int       `json:"characters"`
	TotalLevel   int       `json:"total_level"`
	ArcaneForce  int       `json:"arcane_force"`
	SacredForce  int       `json:"sacred_force"`
	MaxedSymbols int       `json:"maxed_symbols"`
	Warnings     int       `json:"warnings"`
	Fingerprint  uint64    `json:"fingerprint"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Characters   int `json:"characters"`
	TotalLevel   int `json:"total_level"`
	ArcaneForce  int `json:"arcane_force"`
	SacredForce  int `json:"sacred_force"`
	MaxedSymbols int `json:"maxed_symbols"`
}

func (d Delta) isZero() bool {
	return d == Delta{}
}

// Event types.
const (
	EventSnapshot = "snapshot"
	EventDelta    = "roster_delta"
	EventChanged  = "roster_changed"
)

// Event is emitted whenever the roster changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	Origin          string    `json:"origin"`
	Format          string    `json:"format,omitempty"`
	Sort            string    `json:"sort"`
	JobFilter       string    `json:"job_filter,omitempty"`
	FactionFilter   string    `json:"faction_filter,omitempty"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// LoadFunc produces a fresh load report.
type LoadFunc func(ctx context.Context) (*pipeline.LoadReport, error)

// Service holds the current roster, polls for changes and serves HTTP.
type Service struct {
	cfg  Config
	log  *zap.Logger
	load LoadFunc

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	format      string
	hasSnapshot bool
	snapshot    Snapshot
	roster      *model.Roster
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a service that loads data with cfg.Load. A nil logger
// discards output.
func New(cfg Config, log *zap.Logger) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 15 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &Service{
		cfg:       cfg,
		log:       log,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
	s.load = func(ctx context.Context) (*pipeline.LoadReport, error) {
		return pipeline.LoadData(ctx, s.cfg.Load)
	}
	return s
}

// SetLoader replaces the data source.
func (s *Service) SetLoader(fn LoadFunc) { s.load = fn }

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("listening", zap.String("addr", s.cfg.Addr), zap.String("origin", s.cfg.Load.Origin()))

	// Seed initial snapshot so pages are populated immediately.
	s.PollOnce(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.PollOnce(ctx)
		case err := <-errCh:
			return fmt.Errorf("http server: %w", err)
		}
	}
}

// PollOnce reloads the data and publishes an event when the roster changed.
// A failed load keeps the previous roster.
func (s *Service) PollOnce(ctx context.Context) {
	start := time.Now()
	rep, err := s.load(ctx)
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = time.Now()
		s.pollCount++
		s.mu.Unlock()
		s.log.Error("poll failed", zap.Error(err))
		return
	}

	roster := pipeline.Build(&rep.Dataset, s.cfg.Build)
	roster.Warnings = append(append([]string(nil), rep.Warnings...), roster.Warnings...)
	for _, e := range rep.Errors {
		roster.Warnings = append(roster.Warnings, e.Error())
	}

	now := time.Now()
	snap := snapshotFromRoster(roster, now)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.roster = roster
	s.format = string(rep.Format)
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	switch {
	case !prevExists:
		ev = Event{Type: EventSnapshot, Snapshot: snap}
		publish = true
	default:
		delta := diffSnapshots(prev, snap)
		if !delta.isZero() {
			ev = Event{Type: EventDelta, Snapshot: snap, Delta: delta}
			publish = true
		} else if prev.Fingerprint != snap.Fingerprint {
			ev = Event{Type: EventChanged, Snapshot: snap}
			publish = true
		}
	}
	if publish {
		s.nextEventID++
		ev.ID = s.nextEventID
		ev.Timestamp = now
	}
	s.mu.Unlock()

	if publish {
		s.publishEvent(ev)
		logging.Warnings(s.log, rep.Origin, roster.Warnings)
	}
	s.log.Debug("poll",
		zap.Int("characters", snap.Characters),
		zap.Int("files", rep.TotalFiles),
		zap.Bool("changed", publish),
		zap.Duration("took", time.Since(start)),
	)
}

// Roster returns the most recently loaded roster, or nil before the first poll.
func (s *Service) Roster() *model.Roster {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roster
}

func snapshotFromRoster(r *model.Roster, at time.Time) Snapshot {
	sum := pipeline.Summarize(r)
	fp, err := hashstructure.Hash(r.Characters, hashstructure.FormatV2, nil)
	if err != nil {
		fp = 0
	}
	return Snapshot{
		At:           at,
		Characters:   sum.Characters,
		TotalLevel:   sum.TotalLevel,
		ArcaneForce:  sum.ArcaneForce,
		SacredForce:  sum.SacredForce,
		MaxedSymbols: sum.MaxedSymbols,
		Warnings:     sum.Warnings,
		Fingerprint:  fp,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Characters:   curr.Characters - prev.Characters,
		TotalLevel:   curr.TotalLevel - prev.TotalLevel,
		ArcaneForce:  curr.ArcaneForce - prev.ArcaneForce,
		SacredForce:  curr.SacredForce - prev.SacredForce,
		MaxedSymbols: curr.MaxedSymbols - prev.MaxedSymbols,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

// Status returns the current service status.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		Origin:          s.cfg.Load.Origin(),
		Format:          s.format,
		Sort:            string(s.cfg.Build.Sort),
		JobFilter:       s.cfg.Build.Filter.Job,
		FactionFilter:   s.cfg.Build.Filter.Faction,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
