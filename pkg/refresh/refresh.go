// Package refresh describe el contrato de refresco por intervalo de las vistas de conteo
// y ejecuta tareas periódicas con ese contrato (jitter + backoff exponencial ante errores).
package refresh

import (
	"context"
	"math/rand/v2"
	"time"
)

// Policy contrato de refresco. Un cliente que respeta la política ve datos con una
// antigüedad máxima de StalenessBound().
type Policy struct {
	Interval   time.Duration
	Jitter     time.Duration
	MaxBackoff time.Duration
}

// DefaultPolicy intervalo de 5 segundos.
func DefaultPolicy() Policy {
	return Policy{Interval: 5 * time.Second, Jitter: 500 * time.Millisecond, MaxBackoff: time.Minute}
}

// StalenessBound antigüedad máxima de una vista bajo operación normal.
func (p Policy) StalenessBound() time.Duration {
	return p.Interval + p.Jitter
}

// Backoff espera después de failures fallos consecutivos: Interval * 2^failures acotado por MaxBackoff.
func (p Policy) Backoff(failures int) time.Duration {
	d := p.Interval
	for i := 0; i < failures; i++ {
		d *= 2
		if p.MaxBackoff > 0 && d >= p.MaxBackoff {
			return p.MaxBackoff
		}
	}
	return d
}

// Task trabajo periódico (ej. recalcular el snapshot de métricas).
type Task func(ctx context.Context) error

// Runner ejecuta una Task según una Policy hasta que se cancele el contexto.
type Runner struct {
	policy  Policy
	task    Task
	onError func(err error, failures int)
	jitter  func(max time.Duration) time.Duration
}

// NewRunner construye un Runner. onError puede ser nil.
func NewRunner(policy Policy, task Task, onError func(err error, failures int)) *Runner {
	return &Runner{
		policy:  policy,
		task:    task,
		onError: onError,
		jitter: func(max time.Duration) time.Duration {
			if max <= 0 {
				return 0
			}
			return rand.N(max)
		},
	}
}

// NextDelay espera antes de la próxima ejecución según los fallos consecutivos acumulados.
func (r *Runner) NextDelay(failures int) time.Duration {
	return r.policy.Backoff(failures) + r.jitter(r.policy.Jitter)
}

// Run ejecuta la tarea inmediatamente y luego en cada intervalo. Bloquea hasta ctx.Done().
func (r *Runner) Run(ctx context.Context) {
	failures := 0
	for {
		if err := r.task(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			failures++
			if r.onError != nil {
				r.onError(err, failures)
			}
		} else {
			failures = 0
		}

		timer := time.NewTimer(r.NextDelay(failures))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}
