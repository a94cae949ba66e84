// internal/catalog/catalog.go
//
// Country catalog loading for the flag quiz.
//
// Responsibilities:
//   - Fetch the country list once from the country-data provider (name + flags fields).
//   - Or read the same JSON shape from a local file when one is configured.
//   - Normalize records into game.Country, dropping any without a common name or png flag.
//
// Sources:
//   1. If File is set, read it (operator override; same payload shape).
//   2. Otherwise GET URL (default restcountries v3.1).
//
// Failures (network error, non-2xx, malformed payload) are returned to the caller;
// there is no retry and no fallback list.

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/flagquiz/internal/game"
)

// DefaultURL asks the provider for only the fields the quiz needs.
const DefaultURL = "https://restcountries.com/v3.1/all?fields=name,flags"

// maxPayload bounds the response body (the full provider payload is well under this).
const maxPayload = 16 << 20

// Loader fetches the catalog from a URL or a file.
type Loader struct {
	URL  string
	File string
	http *http.Client
}

// New constructs a Loader. An empty url falls back to DefaultURL.
func New(url, file string, timeout time.Duration) *Loader {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Loader{URL: url, File: file, http: &http.Client{Timeout: timeout}}
}

// record mirrors the provider's JSON shape.
type record struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	Flags struct {
		PNG string `json:"png"`
	} `json:"flags"`
}

// Load returns the playable countries.
func (l *Loader) Load(ctx context.Context) ([]game.Country, error) {
	if l.File != "" {
		return l.loadFile(l.File)
	}
	return l.fetch(ctx)
}

func (l *Loader) fetch(ctx context.Context) ([]game.Country, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "flagquiz")

	resp, err := l.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("fetch catalog: status %d", resp.StatusCode)
	}
	return decode(io.LimitReader(resp.Body, maxPayload))
}

func (l *Loader) loadFile(path string) ([]game.Country, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	defer f.Close()
	return decode(f)
}

// decode parses a provider payload and keeps only complete records.
func decode(r io.Reader) ([]game.Country, error) {
	var recs []record
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return normalize(recs), nil
}

// normalize maps records to countries, dropping incomplete ones silently.
func normalize(recs []record) []game.Country {
	out := make([]game.Country, 0, len(recs))
	for _, r := range recs {
		name := strings.TrimSpace(r.Name.Common)
		flag := strings.TrimSpace(r.Flags.PNG)
		if name == "" || flag == "" {
			continue
		}
		out = append(out, game.Country{Name: name, FlagURL: flag})
	}
	if dropped := len(recs) - len(out); dropped > 0 {
		log.Debug().Int("dropped", dropped).Msg("catalog records without name or flag")
	}
	return out
}

// IsTimeout reports whether err came from the request deadline.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
