package agent

import (
	"autoclicker/domain/entities"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// ErrNoPoints is returned when a loop is started without any point to click
var ErrNoPoints = errors.New("no points selected to start clicking")

// ClickFunc performs one synthetic click
type ClickFunc func(ctx context.Context, p entities.Point)

type loopHandle struct {
	cancel   context.CancelFunc
	done     chan struct{}
	interval time.Duration
}

// ClickLoop clicks a fixed list of points round-robin on a repeating ticker.
// At most one ticker is active: Start always stops the previous one first.
type ClickLoop struct {
	clock clockwork.Clock
	click ClickFunc

	mu     sync.Mutex
	handle *loopHandle
}

// NewClickLoop creates a stopped loop
func NewClickLoop(clock clockwork.Clock, click ClickFunc) *ClickLoop {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ClickLoop{clock: clock, click: click}
}

// Start replaces any running loop with one clicking points every interval.
// The interval is fixed for the lifetime of the loop. With no points the
// previous loop is still stopped and no ticker is created.
func (l *ClickLoop) Start(points []entities.Point, interval time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.stopLocked()

	if len(points) == 0 {
		return ErrNoPoints
	}
	if interval <= 0 {
		interval = entities.DefaultClickInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	h := &loopHandle{
		cancel:   cancel,
		done:     make(chan struct{}),
		interval: interval,
	}
	ticker := l.clock.NewTicker(interval)
	l.handle = h

	go l.run(ctx, h, ticker, entities.ClonePoints(points))
	return nil
}

// Stop halts the loop. Reports whether a loop was running.
// A click already being dispatched is allowed to finish.
func (l *ClickLoop) Stop() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopLocked()
}

func (l *ClickLoop) stopLocked() bool {
	if l.handle == nil {
		return false
	}
	l.handle.cancel()
	<-l.handle.done
	l.handle = nil
	return true
}

// State reports whether a ticker is active
func (l *ClickLoop) State() entities.LoopState {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.handle == nil {
		return entities.LoopStopped
	}
	return entities.LoopRunning
}

// Interval returns the interval of the running loop, zero when stopped
func (l *ClickLoop) Interval() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.handle == nil {
		return 0
	}
	return l.handle.interval
}

func (l *ClickLoop) run(ctx context.Context, h *loopHandle, ticker clockwork.Ticker, points []entities.Point) {
	defer close(h.done)
	defer ticker.Stop()

	index := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
		}
		if ctx.Err() != nil {
			return
		}

		// dispatch is not interruptible once started
		l.click(context.WithoutCancel(ctx), points[index])
		index = (index + 1) % len(points)
	}
}
