package countries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/playperu/geoquiz/internal/geoquiz"
)

// ErrNoData is returned when neither upstream, the cache nor the fallback
// file can provide a dataset.
var ErrNoData = errors.New("country data unavailable")

const (
	DefaultTimeout  = 12 * time.Second
	DefaultCacheTTL = 6 * time.Hour
)

type Options struct {
	URL      string
	Timeout  time.Duration
	CacheTTL time.Duration
	Fallback *FallbackFile
	Client   *http.Client
}

// Source serves the country dataset from memory, refreshing it from upstream
// once the cache expires. A failed refresh serves the previous data, then the
// fallback file.
type Source struct {
	url      string
	client   *http.Client
	ttl      time.Duration
	fallback *FallbackFile
	logger   *slog.Logger
	now      func() time.Time

	group singleflight.Group

	mu        sync.RWMutex
	list      []Country
	fields    []geoquiz.Fields
	fetchedAt time.Time
}

func NewSource(opts Options, logger *slog.Logger) *Source {
	if opts.URL == "" {
		opts.URL = DefaultURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &Source{
		url:      opts.URL,
		client:   client,
		ttl:      opts.CacheTTL,
		fallback: opts.Fallback,
		logger:   logger,
		now:      time.Now,
	}
}

// Countries returns the raw dataset.
func (s *Source) Countries(ctx context.Context) ([]Country, error) {
	if list, _, ok := s.cached(); ok {
		return list, nil
	}
	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	list, _, _ := s.snapshot()
	return list, nil
}

// Fields returns the dataset mapped to question records.
func (s *Source) Fields(ctx context.Context) ([]geoquiz.Fields, error) {
	if _, fields, ok := s.cached(); ok {
		return fields, nil
	}
	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	_, fields, _ := s.snapshot()
	return fields, nil
}

// Warm loads the dataset at startup. Failure is logged; the next request
// retries.
func (s *Source) Warm(ctx context.Context) {
	list, err := s.Countries(ctx)
	if err != nil {
		s.logger.Warn("warming country cache failed", "error", err)
		return
	}
	s.logger.Info("country cache warmed", "countries", len(list))
}

// Check reports whether any dataset is loaded.
func (s *Source) Check(_ context.Context) error {
	if list, _, _ := s.snapshot(); len(list) == 0 {
		return ErrNoData
	}
	return nil
}

func (s *Source) snapshot() ([]Country, []geoquiz.Fields, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list, s.fields, s.fetchedAt
}

func (s *Source) cached() ([]Country, []geoquiz.Fields, bool) {
	list, fields, at := s.snapshot()
	if list == nil {
		return nil, nil, false
	}
	return list, fields, s.now().Sub(at) <= s.ttl
}

func (s *Source) store(list []Country, at time.Time) {
	fields := AllFields(list)
	s.mu.Lock()
	s.list, s.fields, s.fetchedAt = list, fields, at
	s.mu.Unlock()
}

// refresh collapses concurrent callers into one upstream request. The fetch
// is detached from the caller's cancellation so one aborted request does not
// fail the others; the client timeout bounds it.
func (s *Source) refresh(ctx context.Context) error {
	_, err, _ := s.group.Do("countries", func() (any, error) {
		if _, _, ok := s.cached(); ok {
			return nil, nil
		}
		return nil, s.reload(context.WithoutCancel(ctx))
	})
	return err
}

func (s *Source) reload(ctx context.Context) error {
	now := s.now()

	list, err := s.fetch(ctx)
	if err == nil {
		s.store(list, now)
		s.refreshFallback(list, now)
		return nil
	}

	if stale, _, _ := s.snapshot(); stale != nil {
		s.logger.Warn("country refresh failed, serving stale cache", "error", err)
		return nil
	}

	if s.fallback != nil {
		saved, ferr := s.fallback.Load()
		switch {
		case ferr != nil:
			s.logger.Warn("loading country fallback failed", "error", ferr)
		case len(saved) > 0:
			s.store(saved, now)
			s.logger.Warn("country refresh failed, loaded fallback file", "error", err, "path", s.fallback.Path)
			return nil
		}
	}

	return fmt.Errorf("%w: %w", ErrNoData, err)
}

func (s *Source) refreshFallback(list []Country, now time.Time) {
	if s.fallback == nil || !s.fallback.Stale(now) {
		return
	}
	if err := s.fallback.Save(list); err != nil {
		s.logger.Warn("refreshing country fallback failed", "error", err)
		return
	}
	s.logger.Info("refreshed country fallback", "path", s.fallback.Path, "countries", len(list))
}

func (s *Source) fetch(ctx context.Context) ([]Country, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching countries: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetching countries: status %d", resp.StatusCode)
	}

	var list []Country
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decoding countries: %w", err)
	}
	if len(list) == 0 {
		return nil, errors.New("fetching countries: empty dataset")
	}
	return list, nil
}
