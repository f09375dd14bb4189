package controller

import (
	"context"
	"strings"
	"sync"
	"time"

	"InsideX/internal/client"
	"InsideX/internal/domain/models"
	"InsideX/internal/ui/pagination"
	"InsideX/internal/ui/table"
	"InsideX/pkg/logger"
)

// SignalsFetchLimit is how many ranked signals the list page pulls before
// filtering locally.
const SignalsFetchLimit = 200

// SignalsReuseTTL bounds how long a fetched window serves view changes. It
// matches the backend's Cache-Control max-age on /signals/top.
const SignalsReuseTTL = 60 * time.Second

// SignalsQuery is the user-controlled view of the signals list.
type SignalsQuery struct {
	WindowDays int
	// Confidence filters to one tier; empty keeps all.
	Confidence models.Confidence
	// Search matches ticker or insider name, case-insensitively.
	Search string
	Sort   table.SortState
	Page   int
}

// SignalsPage is one rendered page of the signals list.
type SignalsPage struct {
	Status      Status
	Error       string
	Query       SignalsQuery
	GeneratedAt time.Time
	// Fetched counts what the backend returned; Matched what survived filtering.
	Fetched    int
	Matched    int
	Signals    []models.Signal
	Pagination pagination.Pagination
}

// SignalsList filters, sorts and paginates top signals on the client. The
// last fetched window is reused for up to SignalsReuseTTL while only the view
// changes.
type SignalsList struct {
	api     SignalsAPI
	log     *logger.Logger
	perPage int
	ttl     time.Duration
	now     func() time.Time

	mu        sync.Mutex
	window    int
	fetched   *models.TopSignalsResponse
	fetchedAt time.Time
}

func NewSignalsList(api SignalsAPI, perPage int, log *logger.Logger) *SignalsList {
	if perPage <= 0 {
		perPage = 20
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SignalsList{api: api, log: log, perPage: perPage, ttl: SignalsReuseTTL, now: time.Now}
}

// Refresh forgets the cached window so the next Load refetches.
func (s *SignalsList) Refresh() {
	s.mu.Lock()
	s.fetched = nil
	s.mu.Unlock()
}

func (s *SignalsList) Load(ctx context.Context, q SignalsQuery) (SignalsPage, error) {
	if q.WindowDays <= 0 {
		q.WindowDays = client.DefaultWindowDays
	}

	resp, err := s.fetch(ctx, q.WindowDays)
	if err != nil {
		s.log.Error("signals load failed", logger.Int("window_days", q.WindowDays), logger.Error(err))
		return SignalsPage{Status: StatusError, Error: client.Message(err), Query: q}, err
	}

	matched := FilterSignals(resp.Signals, q.Confidence, q.Search)
	SortSignals(matched, q.Sort)

	pages := pagination.TotalPagesFor(len(matched), s.perPage)
	q.Page = pagination.Clamp(q.Page, pages)
	lo := min(pagination.Offset(q.Page, s.perPage), len(matched))
	hi := min(lo+s.perPage, len(matched))

	return SignalsPage{
		Status:      StatusReady,
		Query:       q,
		GeneratedAt: resp.GeneratedAt,
		Fetched:     len(resp.Signals),
		Matched:     len(matched),
		Signals:     matched[lo:hi],
		Pagination:  pagination.New(q.Page, len(matched), s.perPage, nil),
	}, nil
}

func (s *SignalsList) fetch(ctx context.Context, window int) (*models.TopSignalsResponse, error) {
	s.mu.Lock()
	if s.fetched != nil && s.window == window && s.now().Sub(s.fetchedAt) < s.ttl {
		resp := s.fetched
		s.mu.Unlock()
		return resp, nil
	}
	s.mu.Unlock()

	resp, err := s.api.GetTopSignals(ctx, client.TopSignalsParams{WindowDays: window, Limit: SignalsFetchLimit})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.window, s.fetched, s.fetchedAt = window, resp, s.now()
	s.mu.Unlock()
	return resp, nil
}

// FilterSignals returns a new slice of the signals matching the tier and
// search text.
func FilterSignals(signals []models.Signal, tier models.Confidence, search string) []models.Signal {
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]models.Signal, 0, len(signals))
	for _, sig := range signals {
		if tier != "" && sig.Confidence != tier {
			continue
		}
		if search != "" && !matchesSignal(sig, search) {
			continue
		}
		out = append(out, sig)
	}
	return out
}

func matchesSignal(sig models.Signal, search string) bool {
	if strings.Contains(strings.ToLower(sig.Ticker), search) {
		return true
	}
	return sig.InsiderName != nil && strings.Contains(strings.ToLower(*sig.InsiderName), search)
}
