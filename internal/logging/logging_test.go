package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	for _, debug := range []bool{true, false} {
		log, err := New(debug)
		if err != nil {
			t.Fatalf("New(%v): %v", debug, err)
		}
		if got := log.Core().Enabled(zapcore.DebugLevel); got != debug {
			t.Errorf("New(%v) debug enabled = %v", debug, got)
		}
	}
}

func TestWarnings(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	Warnings(zap.New(core), "roster", []string{"a", "b"})

	if logs.Len() != 2 {
		t.Fatalf("logged %d entries, want 2", logs.Len())
	}
	first := logs.All()[0]
	if first.ContextMap()["source"] != "roster" || first.ContextMap()["detail"] != "a" {
		t.Errorf("context = %v", first.ContextMap())
	}
}
