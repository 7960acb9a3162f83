// Package jwks fetches and caches the JSON Web Key Set published by an OpenID provider.
package jwks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/axent-pl/idtoken/common/logx"
	"github.com/axent-pl/idtoken/jwk"
)

const (
	GoogleCertsURL = "https://www.googleapis.com/oauth2/v3/certs"

	DefaultMaxAge     = time.Hour
	DefaultTimeout    = 5 * time.Second
	DefaultStaleAlarm = 24 * time.Hour

	maxDocumentSize = 1 << 20
)

// ErrUnavailable is returned when no key set, fresh or stale, can be produced.
var ErrUnavailable = errors.New("jwks unavailable")

// Fetch outcomes reported to a Recorder.
const (
	OutcomeFetched     = "fetched"
	OutcomeNotModified = "not_modified"
	OutcomeStale       = "stale"
	OutcomeError       = "error"
)

type Recorder interface {
	RecordFetch(outcome string)
	RecordKeySetAge(age time.Duration)
}

// KeyStore serves the provider's key set from memory and refreshes it once it is older
// than MaxAge. A failed refresh keeps serving the previous set however old it is.
type KeyStore struct {
	URL        string
	Client     *http.Client  // optional; defaults to http.DefaultClient
	MaxAge     time.Duration // freshness window; defaults to DefaultMaxAge
	Timeout    time.Duration // bound on one fetch; defaults to DefaultTimeout
	StaleAlarm time.Duration // served set older than this logs an error; <= 0 disables
	Now        func() time.Time
	Recorder   Recorder

	mu        sync.RWMutex
	set       *jwk.Set
	fetchedAt time.Time
	etag      string
	lastMod   string
	lastErr   error

	flight singleflight.Group
}

// NewKeyStore returns a KeyStore for url with the default freshness, timeout and alarm.
func NewKeyStore(url string) *KeyStore {
	return &KeyStore{
		URL:        url,
		MaxAge:     DefaultMaxAge,
		Timeout:    DefaultTimeout,
		StaleAlarm: DefaultStaleAlarm,
	}
}

func (s *KeyStore) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *KeyStore) maxAge() time.Duration {
	if s.MaxAge > 0 {
		return s.MaxAge
	}
	return DefaultMaxAge
}

func (s *KeyStore) timeout() time.Duration {
	if s.Timeout > 0 {
		return s.Timeout
	}
	return DefaultTimeout
}

func (s *KeyStore) client() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return http.DefaultClient
}

// cached returns the current set when it is still inside the freshness window.
func (s *KeyStore) cached() (*jwk.Set, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.set == nil {
		return nil, false
	}
	return s.set, s.now().Sub(s.fetchedAt) < s.maxAge()
}

// Keys returns the current key set, fetching it when absent or expired.
func (s *KeyStore) Keys(ctx context.Context) (*jwk.Set, error) {
	if set, fresh := s.cached(); fresh {
		logx.L().Debug("jwks cache hit", "url", s.URL)
		return set, nil
	}

	v, err, _ := s.flight.Do(s.URL, func() (any, error) {
		// a concurrent flight may have refreshed the set in the meantime
		if set, fresh := s.cached(); fresh {
			return set, nil
		}
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout())
		defer cancel()
		return s.refresh(fetchCtx)
	})
	if err == nil {
		return v.(*jwk.Set), nil
	}

	s.mu.RLock()
	stale, fetchedAt := s.set, s.fetchedAt
	s.mu.RUnlock()
	if stale == nil {
		s.record(OutcomeError)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	age := s.now().Sub(fetchedAt)
	s.record(OutcomeStale)
	logx.L().Warn("jwks refresh failed, serving stale key set", "url", s.URL, "age", age, "error", err)
	if s.StaleAlarm > 0 && age > s.StaleAlarm {
		logx.L().Error("jwks key set exceeds staleness alarm", "url", s.URL, "age", age, "alarm", s.StaleAlarm)
	}
	return stale, nil
}

// refresh fetches the document with conditional headers and replaces the cached set.
func (s *KeyStore) refresh(ctx context.Context) (*jwk.Set, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("jwks request build failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	s.mu.RLock()
	if s.set != nil {
		if s.etag != "" {
			req.Header.Set("If-None-Match", s.etag)
		}
		if s.lastMod != "" {
			req.Header.Set("If-Modified-Since", s.lastMod)
		}
	}
	s.mu.RUnlock()

	resp, err := s.client().Do(req)
	if err != nil {
		return nil, s.fail(fmt.Errorf("jwks fetch failed: %w", err))
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logx.L().Error("could not close http.Response.Body", "error", err)
		}
	}()

	if resp.StatusCode == http.StatusNotModified {
		s.mu.Lock()
		set := s.set
		if set != nil {
			s.fetchedAt = s.now()
			s.lastErr = nil
		}
		s.mu.Unlock()
		if set == nil {
			return nil, s.fail(errors.New("jwks fetch failed: not modified without cached set"))
		}
		s.record(OutcomeNotModified)
		logx.L().Debug("jwks not modified", "url", s.URL)
		return set, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, s.fail(fmt.Errorf("jwks fetch failed: unexpected status %s", resp.Status))
	}

	var doc jwk.Set
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxDocumentSize)).Decode(&doc); err != nil {
		return nil, s.fail(fmt.Errorf("jwks decode failed: %w", err))
	}
	if err := doc.Validate(); err != nil {
		return nil, s.fail(err)
	}

	s.mu.Lock()
	s.set = &doc
	s.fetchedAt = s.now()
	s.etag = resp.Header.Get("ETag")
	s.lastMod = resp.Header.Get("Last-Modified")
	s.lastErr = nil
	s.mu.Unlock()

	s.record(OutcomeFetched)
	logx.L().Info("jwks refreshed", "url", s.URL, "kids", doc.Kids())
	return &doc, nil
}

func (s *KeyStore) fail(err error) error {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	return err
}

func (s *KeyStore) record(outcome string) {
	if s.Recorder == nil {
		return
	}
	s.Recorder.RecordFetch(outcome)
	s.mu.RLock()
	fetchedAt, has := s.fetchedAt, s.set != nil
	s.mu.RUnlock()
	if has {
		s.Recorder.RecordKeySetAge(s.now().Sub(fetchedAt))
	}
}
