package schedule

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/cineplex/booking-gateway/internal/model"
)

// DefaultInterval is how often a running refresher re-evaluates its
// showtimes when no explicit interval is configured.
const DefaultInterval = 60 * time.Second

// ErrNotVisible is returned by Select when the requested showtime is
// not in the currently visible set.
var ErrNotVisible = errors.New("showtime not visible")

// ReloadFunc fetches a fresh showtime set from the remote store.  It
// is optional; without one the refresher only re-classifies the
// showtimes it already holds.
type ReloadFunc func(ctx context.Context) ([]model.Showtime, error)

// Refresher keeps the classification of a held showtime set current
// without user interaction and guarantees that a selected showtime
// never points at data the visibility filter has dropped.
//
// While running, a pass executes immediately on Start and then once
// per interval: it reloads the set when a ReloadFunc is configured,
// re-classifies, and clears the selection if its showtime left the
// visible set.  Passes run strictly sequentially on one goroutine.
// Stop is deterministic: when it returns, no further pass will run,
// and reload results that land after deactivation (or after a newer
// pass started) are discarded rather than applied.
type Refresher struct {
	interval time.Duration
	reload   ReloadFunc
	now      func() time.Time

	mu         sync.Mutex
	showtimes  []model.Showtime
	selected   string
	generation uint64
	cancel     context.CancelFunc
	done       chan struct{}
}

// NewRefresher builds a stopped refresher.  A non-positive interval
// falls back to DefaultInterval.
func NewRefresher(interval time.Duration, reload ReloadFunc) *Refresher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Refresher{interval: interval, reload: reload, now: time.Now}
}

// SetShowtimes replaces the held showtime set and prunes the selection
// against the new set.
func (r *Refresher) SetShowtimes(showtimes []model.Showtime) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.showtimes = showtimes
	r.pruneLocked()
}

// Select marks the showtime with the given id as the session's
// selection.  Only currently visible showtimes can be selected.
func (r *Refresher) Select(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range Visible(r.showtimes, r.now()) {
		if s.ID == id {
			r.selected = id
			return nil
		}
	}
	return ErrNotVisible
}

// Selected returns the id of the selected showtime, or "" when none is
// selected.
func (r *Refresher) Selected() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selected
}

// ClearSelection drops the selection unconditionally.
func (r *Refresher) ClearSelection() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selected = ""
}

// Visible returns the currently visible showtimes in held order.
func (r *Refresher) Visible() []model.Showtime {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Visible(r.showtimes, r.now())
}

// Lookup returns the visible showtime with the given id, if any.
func (r *Refresher) Lookup(id string) (model.Showtime, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range Visible(r.showtimes, r.now()) {
		if s.ID == id {
			return s, true
		}
	}
	return model.Showtime{}, false
}

// Start activates the refresher: one pass runs before Start returns,
// then a background goroutine repeats it every interval until Stop or
// context cancellation.  Starting a running refresher is a no-op.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	if r.cancel != nil {
		r.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done
	r.mu.Unlock()

	r.Refresh(ctx)

	go func() {
		defer close(done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.Refresh(ctx)
			}
		}
	}()
}

// Stop deactivates the refresher and waits for the background
// goroutine to exit, so no pass runs after Stop returns.  The
// generation bump invalidates any reload still in flight.  Stopping a
// stopped refresher is a no-op; Start may be called again afterwards.
func (r *Refresher) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.generation++
	r.mu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
}

// Refresh runs a single classification pass: reload (when configured),
// then prune the selection against the visible set.  A pass that is
// superseded by a newer one, or whose context was cancelled while the
// reload was in flight, discards its result instead of applying it.
func (r *Refresher) Refresh(ctx context.Context) {
	r.mu.Lock()
	r.generation++
	gen := r.generation
	reload := r.reload
	r.mu.Unlock()

	if reload != nil {
		showtimes, err := reload(ctx)
		if err != nil {
			// Keep the previous set; classification still runs below.
			log.Printf("refresher: reload failed: %v", err)
		} else if ctx.Err() == nil {
			r.mu.Lock()
			if r.generation == gen {
				r.showtimes = showtimes
			}
			r.mu.Unlock()
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.generation != gen || ctx.Err() != nil {
		return
	}
	r.pruneLocked()
}

// pruneLocked clears the selection when its showtime is no longer
// visible.  Callers must hold r.mu.
func (r *Refresher) pruneLocked() {
	if r.selected == "" {
		return
	}
	for _, s := range Visible(r.showtimes, r.now()) {
		if s.ID == r.selected {
			return
		}
	}
	r.selected = ""
}
