// Package heartbeat runs a periodic presence beat against a server with
// capped exponential backoff on failure. Clients embed it so a transient
// network error does not drop them from the roster before the server-side
// TTL expires.
package heartbeat

import (
	"context"
	"errors"
	"time"
)

// BeatFunc sends one heartbeat. It should respect ctx and return an error
// when the beat did not reach the server.
type BeatFunc func(ctx context.Context) error

// LeaveFunc tells the server the client is gone. Called once on Stop,
// best effort.
type LeaveFunc func(ctx context.Context) error

type Options struct {
	// Interval between successful beats. Defaults to 10s.
	Interval time.Duration
	// InitialBackoff is the delay after the first failure. Defaults to 1s.
	InitialBackoff time.Duration
	// MaxBackoff caps the retry delay. Defaults to Interval.
	MaxBackoff time.Duration
	// OnError is invoked after each failed beat, if set.
	OnError func(err error)
}

type Runner struct {
	beat  BeatFunc
	leave LeaveFunc
	opts  Options

	cancel context.CancelFunc
	done   chan struct{}
}

func NewRunner(beat BeatFunc, leave LeaveFunc, opts Options) *Runner {
	if opts.Interval <= 0 {
		opts.Interval = 10 * time.Second
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = time.Second
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = opts.Interval
	}
	return &Runner{beat: beat, leave: leave, opts: opts}
}

// Start begins beating immediately and then on every interval. It returns
// right away; use Stop to cancel the loop.
func (r *Runner) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	go r.loop(ctx)
}

// Stop cancels the beat loop, waits for it to exit, and sends a final
// leave notification. Safe to call once after Start.
func (r *Runner) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done

	if r.leave != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = r.leave(ctx)
	}
}

func (r *Runner) loop(ctx context.Context) {
	defer close(r.done)

	delay := time.Duration(0)
	backoff := r.opts.InitialBackoff

	for {
		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}

		err := r.beat(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			if r.opts.OnError != nil {
				r.opts.OnError(err)
			}
			delay = backoff
			backoff *= 2
			if backoff > r.opts.MaxBackoff {
				backoff = r.opts.MaxBackoff
			}
			continue
		}

		delay = r.opts.Interval
		backoff = r.opts.InitialBackoff
	}
}
