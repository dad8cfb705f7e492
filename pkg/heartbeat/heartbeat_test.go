package heartbeat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu     sync.Mutex
	beats  int
	leaves int
	fail   int // fail the first N beats
}

func (r *recorder) beat(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.beats++
	if r.beats <= r.fail {
		return errors.New("connection refused")
	}
	return nil
}

func (r *recorder) leave(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaves++
	return nil
}

func (r *recorder) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.beats, r.leaves
}

func TestRunnerBeatsImmediatelyAndOnInterval(t *testing.T) {
	rec := &recorder{}
	runner := NewRunner(rec.beat, rec.leave, Options{
		Interval: 20 * time.Millisecond,
	})

	runner.Start(context.Background())
	time.Sleep(70 * time.Millisecond)
	runner.Stop()

	beats, leaves := rec.counts()
	if beats < 3 {
		t.Errorf("expected at least 3 beats, got %d", beats)
	}
	if leaves != 1 {
		t.Errorf("expected exactly one leave, got %d", leaves)
	}
}

func TestRunnerRetriesWithBackoff(t *testing.T) {
	rec := &recorder{fail: 2}
	var errCount int
	var mu sync.Mutex

	runner := NewRunner(rec.beat, nil, Options{
		Interval:       time.Hour, // only retries should drive the loop
		InitialBackoff: 5 * time.Millisecond,
		MaxBackoff:     10 * time.Millisecond,
		OnError: func(err error) {
			mu.Lock()
			errCount++
			mu.Unlock()
		},
	})

	runner.Start(context.Background())
	time.Sleep(60 * time.Millisecond)
	runner.Stop()

	beats, _ := rec.counts()
	if beats != 3 {
		t.Errorf("expected 2 failed + 1 successful beat, got %d", beats)
	}
	mu.Lock()
	defer mu.Unlock()
	if errCount != 2 {
		t.Errorf("expected OnError for each failure, got %d", errCount)
	}
}

func TestRunnerStopCancelsPromptly(t *testing.T) {
	rec := &recorder{fail: 1 << 30} // always failing, loop lives on backoff
	runner := NewRunner(rec.beat, rec.leave, Options{
		Interval:       time.Hour,
		InitialBackoff: time.Hour,
	})

	runner.Start(context.Background())
	time.Sleep(10 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		runner.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return while loop was in backoff")
	}
}

func TestRunnerStopWithoutStart(t *testing.T) {
	runner := NewRunner(func(context.Context) error { return nil }, nil, Options{})
	runner.Stop() // must not panic or block
}
