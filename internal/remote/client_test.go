package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data/account.csv":
			_, _ = w.Write([]byte("IGN,level,jobName\n"))
		case "/data/secret.csv":
			w.WriteHeader(http.StatusForbidden)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL + "/data")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	body, err := c.Fetch(context.Background(), "account.csv")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(body) != "IGN,level,jobName\n" {
		t.Errorf("body = %q", body)
	}

	if _, err := c.Fetch(context.Background(), "cash.csv"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing file err = %v, want ErrNotFound", err)
	}
	if _, err := c.Fetch(context.Background(), "secret.csv"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("forbidden err = %v, want ErrUnauthorized", err)
	}
}

func TestNewClient_RejectsBadScheme(t *testing.T) {
	if _, err := NewClient("ftp://example.com/data"); err == nil {
		t.Fatal("expected error for ftp scheme")
	}
	if _, err := NewClient("  "); err == nil {
		t.Fatal("expected error for empty url")
	}
}

func TestURL(t *testing.T) {
	c, err := NewClient("https://example.com/tracker/data")
	if err != nil {
		t.Fatal(err)
	}
	if got := c.URL("arcane.csv"); got != "https://example.com/tracker/data/arcane.csv" {
		t.Errorf("URL = %q", got)
	}
}
