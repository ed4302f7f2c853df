// Package autosave runs a save some delay after the last edit.
package autosave

import (
	"context"
	"sync"
	"time"

	"github.com/fekuna/omnipos-seller-cms/pkg/logger"
	"go.uber.org/zap"
)

// Debouncer calls save once delay has passed without a new Trigger. Results
// are only logged; callers that need to report a result save directly.
type Debouncer struct {
	delay   time.Duration
	timeout time.Duration
	save    func(ctx context.Context) error
	logger  logger.ZapLogger

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

func NewDebouncer(delay, timeout time.Duration, save func(ctx context.Context) error, log logger.ZapLogger) *Debouncer {
	return &Debouncer{
		delay:   delay,
		timeout: timeout,
		save:    save,
		logger:  log,
	}
}

// Trigger (re)arms the timer.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Cancel drops a pending save. A save already running is not interrupted.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	ctx := context.Background()
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	if err := d.save(ctx); err != nil {
		d.logger.Warn("auto-save failed", zap.Error(err))
		return
	}
	d.logger.Debug("auto-saved")
}
