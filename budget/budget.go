// Package budget enforces resource ceilings for model calls: requests per
// rolling minute, tokens per rolling hour and cost per rolling hour. The
// tracker is advisory by design: callers ask for admission before issuing a
// call and record actual usage afterwards. A rejection is a normal outcome,
// never an error.
package budget

import (
	"fmt"
	"sync"
	"time"

	"github.com/getadhive/adhive/logging"
)

// DefaultEstimateRatePer1K is the rough blended price per 1000 tokens used
// for the cost-ceiling check when the caller supplies no provider rate.
const DefaultEstimateRatePer1K = 0.03

// Config holds the four budget ceilings. Zero values are replaced with the
// documented defaults by NewTracker.
type Config struct {
	// MaxTokensPerRequest bounds the size of a single request. The tracker
	// does not enforce it; the request engine checks it before admission.
	MaxTokensPerRequest int

	// MaxRequestsPerMinute caps admitted requests within a trailing minute.
	MaxRequestsPerMinute int

	// MaxCostPerHour caps accumulated cost (USD) within a trailing hour.
	MaxCostPerHour float64

	// MaxTokensPerHour caps accumulated tokens within a trailing hour.
	MaxTokensPerHour int
}

// DefaultConfig returns the stock ceilings.
func DefaultConfig() Config {
	return Config{
		MaxTokensPerRequest:  2000,
		MaxRequestsPerMinute: 10,
		MaxCostPerHour:       5.0,
		MaxTokensPerHour:     100000,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxTokensPerRequest <= 0 {
		c.MaxTokensPerRequest = d.MaxTokensPerRequest
	}
	if c.MaxRequestsPerMinute <= 0 {
		c.MaxRequestsPerMinute = d.MaxRequestsPerMinute
	}
	if c.MaxCostPerHour <= 0 {
		c.MaxCostPerHour = d.MaxCostPerHour
	}
	if c.MaxTokensPerHour <= 0 {
		c.MaxTokensPerHour = d.MaxTokensPerHour
	}
	return c
}

// Options configures a Tracker.
type Options struct {
	// Config supplies the ceilings; zero fields fall back to defaults.
	Config Config

	// Clock overrides the time source. Tests inject a fake clock here so
	// window boundaries can be crossed deterministically.
	Clock func() time.Time

	// Logger receives admission decisions at debug level.
	Logger logging.Logger
}

// Tracker maintains the budget windows. All methods are safe for concurrent
// use; the Admit/Record pair of a single request must not interleave with
// another request's pair on the same tracker if strict ceilings are required,
// which the request engine guarantees by holding its call mutex.
type Tracker struct {
	cfg    Config
	now    func() time.Time
	logger logging.Logger

	mu             sync.Mutex
	minuteRequests []time.Time
	hourTokens     int
	hourCost       float64
	hourStart      time.Time

	totalRequests int
	totalTokens   int
	totalCost     float64
}

// NewTracker constructs a Tracker with optional overrides.
func NewTracker(optFns ...func(o *Options)) *Tracker {
	opts := Options{
		Config: DefaultConfig(),
		Clock:  time.Now,
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Tracker{
		cfg:       opts.Config.withDefaults(),
		now:       opts.Clock,
		logger:    opts.Logger,
		hourStart: opts.Clock(),
	}
}

// Config returns the effective ceilings.
func (t *Tracker) Config() Config { return t.cfg }

// advanceWindows prunes the minute list and resets the hourly accumulators
// once the hour anchor is stale. Caller must hold t.mu. Windows advance only
// here, lazily on each check or record; there is no background timer.
func (t *Tracker) advanceWindows(now time.Time) {
	kept := t.minuteRequests[:0]
	for _, ts := range t.minuteRequests {
		if now.Sub(ts) < time.Minute {
			kept = append(kept, ts)
		}
	}
	t.minuteRequests = kept

	if now.Sub(t.hourStart) >= time.Hour {
		t.hourTokens = 0
		t.hourCost = 0
		t.hourStart = now
	}
}

// Admit reports whether a request of the estimated token size fits within the
// current windows, using the default blended rate for the cost check. The
// returned reason is empty when allowed and human readable when not.
func (t *Tracker) Admit(estimatedTokens int) (bool, string) {
	return t.AdmitAtRate(estimatedTokens, DefaultEstimateRatePer1K)
}

// AdmitAtRate is Admit with an explicit per-1000-token rate for the cost
// estimate, so callers that know their provider pricing check against the
// same rate they will record at. Checks run in a fixed order and the first
// violated ceiling determines the reason; there is no partial admission.
func (t *Tracker) AdmitAtRate(estimatedTokens int, ratePer1K float64) (bool, string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.advanceWindows(now)

	if len(t.minuteRequests) >= t.cfg.MaxRequestsPerMinute {
		wait := time.Minute - now.Sub(t.minuteRequests[0])
		reason := fmt.Sprintf("rate limit reached, wait %ds", int(wait.Seconds())+1)
		t.logger.Debug("budget rejection", "reason", reason)
		return false, reason
	}

	if t.hourTokens+estimatedTokens > t.cfg.MaxTokensPerHour {
		reason := fmt.Sprintf("token limit reached (%d/hour)", t.cfg.MaxTokensPerHour)
		t.logger.Debug("budget rejection", "reason", reason)
		return false, reason
	}

	if ratePer1K <= 0 {
		ratePer1K = DefaultEstimateRatePer1K
	}
	estimatedCost := float64(estimatedTokens) / 1000 * ratePer1K
	if t.hourCost+estimatedCost > t.cfg.MaxCostPerHour {
		reason := fmt.Sprintf("cost limit reached ($%.2f/hour)", t.cfg.MaxCostPerHour)
		t.logger.Debug("budget rejection", "reason", reason)
		return false, reason
	}

	return true, ""
}

// Record adds actual usage to the windows and lifetime totals. It is called
// only after a request has completed; it never rejects.
func (t *Tracker) Record(tokens int, cost float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.advanceWindows(now)

	t.minuteRequests = append(t.minuteRequests, now)
	t.hourTokens += tokens
	t.hourCost += cost

	t.totalRequests++
	t.totalTokens += tokens
	t.totalCost += cost
}

// Stats is a point-in-time snapshot of tracker state.
type Stats struct {
	TotalRequests  int     `json:"total_requests"`
	TotalTokens    int     `json:"total_tokens"`
	TotalCost      float64 `json:"total_cost"`
	HourTokens     int     `json:"hour_tokens"`
	HourCost       float64 `json:"hour_cost"`
	MinuteRequests int     `json:"minute_requests"`
	Limits         Config  `json:"limits"`
}

// Stats returns a snapshot after advancing the windows, so reported counts
// never include entries outside their window.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.advanceWindows(t.now())

	return Stats{
		TotalRequests:  t.totalRequests,
		TotalTokens:    t.totalTokens,
		TotalCost:      t.totalCost,
		HourTokens:     t.hourTokens,
		HourCost:       t.hourCost,
		MinuteRequests: len(t.minuteRequests),
		Limits:         t.cfg,
	}
}
