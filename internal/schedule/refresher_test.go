package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cineplex/booking-gateway/internal/model"
)

func fixedNow() time.Time {
	return time.Date(2024, 6, 10, 20, 0, 0, 0, time.Local)
}

func TestRefresherPrunesInvisibleSelection(t *testing.T) {
	r := NewRefresher(time.Hour, nil)
	r.now = fixedNow

	upcoming := model.Showtime{ID: "b", Date: "2024-06-10", Time: "21:00"}
	r.SetShowtimes([]model.Showtime{upcoming})
	if err := r.Select("b"); err != nil {
		t.Fatalf("Select: %v", err)
	}

	// The clock moves past midnight; the next pass must clear the
	// selection because the showtime is no longer visible.
	r.now = func() time.Time { return time.Date(2024, 6, 11, 9, 0, 0, 0, time.Local) }
	r.Refresh(context.Background())

	if got := r.Selected(); got != "" {
		t.Errorf("Selected = %q after pruning pass, want empty", got)
	}
}

func TestRefresherSelectRequiresVisibility(t *testing.T) {
	r := NewRefresher(time.Hour, nil)
	r.now = fixedNow
	r.SetShowtimes([]model.Showtime{
		{ID: "past", Date: "2024-06-01", Time: "12:00"},
	})
	if err := r.Select("past"); err != ErrNotVisible {
		t.Errorf("Select(hidden) err = %v, want ErrNotVisible", err)
	}
	if err := r.Select("unknown"); err != ErrNotVisible {
		t.Errorf("Select(unknown) err = %v, want ErrNotVisible", err)
	}
}

func TestRefresherStopIsDeterministic(t *testing.T) {
	var passes atomic.Int64
	reload := func(ctx context.Context) ([]model.Showtime, error) {
		passes.Add(1)
		return nil, nil
	}
	r := NewRefresher(5*time.Millisecond, reload)
	r.now = fixedNow

	r.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	r.Stop()

	settled := passes.Load()
	if settled == 0 {
		t.Fatal("no pass ran while active")
	}
	time.Sleep(20 * time.Millisecond)
	if got := passes.Load(); got != settled {
		t.Errorf("passes advanced from %d to %d after Stop", settled, got)
	}

	// Repeated start/stop cycles must not leak a second ticker loop.
	r.Start(context.Background())
	r.Stop()
	settled = passes.Load()
	time.Sleep(20 * time.Millisecond)
	if got := passes.Load(); got != settled {
		t.Errorf("passes advanced from %d to %d after second Stop", settled, got)
	}
}

func TestRefresherDiscardsStaleReload(t *testing.T) {
	release := make(chan struct{})
	stale := []model.Showtime{{ID: "stale", Date: "2024-06-10", Time: "22:00"}}
	reload := func(ctx context.Context) ([]model.Showtime, error) {
		<-release
		return stale, nil
	}
	r := NewRefresher(time.Hour, reload)
	r.now = fixedNow

	current := model.Showtime{ID: "current", Date: "2024-06-10", Time: "21:00"}
	r.SetShowtimes([]model.Showtime{current})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Refresh(ctx)
		close(done)
	}()

	// Deactivate while the reload is still in flight, then let it
	// resolve. Its result must not be applied.
	cancel()
	r.generationBumpForTest()
	close(release)
	<-done

	visible := r.Visible()
	if len(visible) != 1 || visible[0].ID != "current" {
		t.Errorf("stale reload applied: visible = %v", visible)
	}
}

// generationBumpForTest mimics what Stop does to invalidate in-flight
// passes without tearing down a goroutine the test never started.
func (r *Refresher) generationBumpForTest() {
	r.mu.Lock()
	r.generation++
	r.mu.Unlock()
}
