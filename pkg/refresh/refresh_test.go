package refresh

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_StalenessBound(t *testing.T) {
	p := Policy{Interval: 5 * time.Second, Jitter: 500 * time.Millisecond}
	assert.Equal(t, 5500*time.Millisecond, p.StalenessBound())
}

func TestPolicy_BackoffExponencialAcotado(t *testing.T) {
	p := Policy{Interval: time.Second, MaxBackoff: 10 * time.Second}
	assert.Equal(t, time.Second, p.Backoff(0))
	assert.Equal(t, 2*time.Second, p.Backoff(1))
	assert.Equal(t, 8*time.Second, p.Backoff(3))
	assert.Equal(t, 10*time.Second, p.Backoff(4))
	assert.Equal(t, 10*time.Second, p.Backoff(50))
}

func TestRunner_JitterDentroDelRango(t *testing.T) {
	r := NewRunner(Policy{Interval: time.Second, Jitter: 100 * time.Millisecond}, nil, nil)
	for i := 0; i < 50; i++ {
		d := r.NextDelay(0)
		assert.GreaterOrEqual(t, d, time.Second)
		assert.Less(t, d, 1100*time.Millisecond)
	}
}

func TestRunner_EjecutaYReportaErrores(t *testing.T) {
	var runs atomic.Int32
	var reported atomic.Int32
	task := func(ctx context.Context) error {
		if runs.Add(1)%2 == 0 {
			return errors.New("fallo")
		}
		return nil
	}
	r := NewRunner(Policy{Interval: time.Millisecond, MaxBackoff: 2 * time.Millisecond}, task, func(err error, failures int) {
		reported.Add(1)
		assert.Equal(t, 1, failures)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return runs.Load() >= 4 }, time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run no terminó tras cancelar el contexto")
	}
	assert.GreaterOrEqual(t, reported.Load(), int32(1))
}
