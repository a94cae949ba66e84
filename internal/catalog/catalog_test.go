package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/robalobadob/flagquiz/internal/game"
)

const payload = `[
  {"name":{"common":"France","official":"French Republic"},"flags":{"png":"https://flagcdn.com/w320/fr.png","svg":"fr.svg"}},
  {"name":{"common":"Japan"},"flags":{"png":"https://flagcdn.com/w320/jp.png"}},
  {"name":{"common":""},"flags":{"png":"x.png"}},
  {"name":{"common":"Nowhere"},"flags":{"svg":"n.svg"}},
  {"flags":{"png":"y.png"}}
]`

func TestLoadFromProvider(t *testing.T) {
	var gotQuery, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	l := New(srv.URL+"/v3.1/all?fields=name,flags", "", time.Second)
	got, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []game.Country{
		{Name: "France", FlagURL: "https://flagcdn.com/w320/fr.png"},
		{Name: "Japan", FlagURL: "https://flagcdn.com/w320/jp.png"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d countries, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("country %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if gotQuery != "fields=name,flags" {
		t.Errorf("query = %q", gotQuery)
	}
	if gotAccept != "application/json" {
		t.Errorf("accept = %q", gotAccept)
	}
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr string
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "down", http.StatusServiceUnavailable)
			},
			wantErr: "status 503",
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
			wantErr: "status 404",
		},
		{
			name: "malformed payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"status":404,"message":"Not Found"`))
			},
			wantErr: "decode catalog",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			got, err := New(srv.URL, "", time.Second).Load(context.Background())
			if err == nil {
				t.Fatalf("expected error, got %d countries", len(got))
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error %q should contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, err := New(url, "", time.Second).Load(context.Background()); err == nil {
		t.Fatal("expected error for closed server")
	}
}

func TestLoadTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := New(srv.URL, "", 20*time.Millisecond).Load(context.Background())
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !IsTimeout(err) {
		t.Fatalf("expected timeout, got %v", err)
	}
}

func TestLoadEmptyArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	got, err := New(srv.URL, "", time.Second).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty catalog, got %d", len(got))
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "countries.json")
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	got, err := New("http://127.0.0.1:1/unused", path, time.Second).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 || got[0].Name != "France" {
		t.Fatalf("unexpected catalog: %+v", got)
	}

	if _, err := New("", filepath.Join(t.TempDir(), "missing.json"), time.Second).Load(context.Background()); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestNewDefaults(t *testing.T) {
	l := New("", "", 0)
	if l.URL != DefaultURL {
		t.Fatalf("url = %q, want %q", l.URL, DefaultURL)
	}
}
