// internal/core/usecases/orchestrator.go
package usecases

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"arlo/internal/core/domain"
	"arlo/internal/core/ports"
	"arlo/internal/platform/logx"
)

const (
	// DefaultTimeout es el deadline global de la fase de descarga.
	DefaultTimeout = 20 * time.Second

	// DefaultGrace es cuánto se espera a que las tareas canceladas lo reconozcan.
	DefaultGrace = 2 * time.Second

	notificationTimeout = 5 * time.Second
)

// Orchestrator lanza una FetchTask por fuente, aplica el deadline global y
// recolecta exactamente un resultado por fuente, en el orden de entrada.
type Orchestrator struct {
	fetcher   ports.Fetcher
	logger    logx.Logger
	observers []ports.Notifier

	// Configuración
	timeout time.Duration
	grace   time.Duration
}

// OrchestratorOptions configura el orchestrator.
type OrchestratorOptions struct {
	Fetcher   ports.Fetcher
	Logger    logx.Logger
	Observers []ports.Notifier
	Timeout   time.Duration
	Grace     time.Duration
}

// NewOrchestrator crea una nueva instancia del orchestrator.
func NewOrchestrator(opts OrchestratorOptions) *Orchestrator {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Grace <= 0 {
		opts.Grace = DefaultGrace
	}
	if opts.Logger == nil {
		opts.Logger = logx.NewNop()
	}

	return &Orchestrator{
		fetcher:   opts.Fetcher,
		logger:    opts.Logger.With("component", "orchestrator"),
		observers: opts.Observers,
		timeout:   opts.Timeout,
		grace:     opts.Grace,
	}
}

// Timeout retorna el deadline global configurado.
func (o *Orchestrator) Timeout() time.Duration {
	return o.timeout
}

// taskResult es lo que cada goroutine entrega por el canal de resultados.
// El índice es la posición de la fuente en la entrada.
type taskResult struct {
	index   int
	outcome domain.FetchOutcome
}

// Run ejecuta todas las fuentes en paralelo y retorna un FetchOutcome por fuente,
// alineado con sources. Las fallas de fuentes nunca son error de Run.
//
// Retorna error solo si no puede coordinar (sin fuentes, sin fetcher) o si el
// contexto del llamador fue cancelado (ErrAborted); en este último caso los
// resultados igualmente vienen completos.
func (o *Orchestrator) Run(ctx context.Context, sources []domain.Source) ([]domain.FetchOutcome, error) {
	if len(sources) == 0 {
		return nil, domain.ErrNoSources
	}
	if o.fetcher == nil {
		return nil, fmt.Errorf("orchestrator has no fetcher configured")
	}

	runID := RunIDFromContext(ctx)
	start := time.Now()

	// Propio de cada Run: ejecuciones concurrentes no esperan notificaciones ajenas.
	var notifyWg sync.WaitGroup
	defer notifyWg.Wait()

	runCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	// Buffer completo: una tarea que termina tarde nunca queda bloqueada enviando.
	results := make(chan taskResult, len(sources))

	for i, src := range sources {
		task := NewFetchTask(src, o.fetcher, o.logger)
		o.notify(ctx, &notifyWg, ports.NewEvent(ports.EventTypeSourceStarted, src.Name(), runID, nil))

		go func(index int, t *FetchTask) {
			results <- taskResult{index: index, outcome: t.Execute(runCtx)}
		}(i, task)
	}

	outcomes := make([]domain.FetchOutcome, len(sources))
	received := 0
	collect := func(r taskResult) {
		outcomes[r.index] = r.outcome
		received++
		o.reportOutcome(ctx, &notifyWg, runID, r.outcome, false)
	}

	// Fase 1: join o deadline, lo que ocurra primero.
wait:
	for received < len(sources) {
		select {
		case r := <-results:
			collect(r)
		case <-runCtx.Done():
			break wait
		}
	}

	if received == len(sources) {
		o.logger.Debug("all sources finished before deadline",
			"sources", len(sources),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return outcomes, abortError(ctx)
	}

	// Fase 2: deadline alcanzado. Cancelar lo pendiente y esperar un tiempo acotado.
	cause := runCtx.Err()
	cancel()

	o.logger.Warn("deadline reached, cancelling pending sources",
		"pending", len(sources)-received,
		"timeout_ms", o.timeout.Milliseconds(),
		"cause", cause,
	)

	grace := time.NewTimer(o.grace)
	defer grace.Stop()

drain:
	for received < len(sources) {
		select {
		case r := <-results:
			outcomes[r.index] = r.outcome
			received++
			o.reportOutcome(ctx, &notifyWg, runID, r.outcome, true)
		case <-grace.C:
			break drain
		}
	}

	// Fase 3: las tareas que no reconocieron la cancelación igual aportan un Failure.
	for i, out := range outcomes {
		if out.Status() != domain.OutcomePending {
			continue
		}
		name := sources[i].Name()
		o.logger.Warn("source did not stop after cancellation", "source", name, "grace_ms", o.grace.Milliseconds())
		outcomes[i] = domain.Failed(name, "did not stop within grace period after deadline", time.Since(start))
		o.reportOutcome(ctx, &notifyWg, runID, outcomes[i], true)
	}

	return outcomes, abortError(ctx)
}

// abortError retorna ErrAborted si el llamador canceló ctx, aunque todas las
// tareas hayan alcanzado a reportar antes de que se observara la cancelación.
// Un deadline del padre no es aborto.
func abortError(ctx context.Context) error {
	if err := ctx.Err(); errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", domain.ErrAborted, err)
	}
	return nil
}

// reportOutcome registra y notifica el resultado de una fuente.
func (o *Orchestrator) reportOutcome(ctx context.Context, wg *sync.WaitGroup, runID string, out domain.FetchOutcome, afterDeadline bool) {
	if out.IsSuccess() {
		payload, _ := out.Payload()
		o.logger.Debug("source completed",
			"source", out.Source(),
			"bytes", len(payload),
			"duration_ms", out.Duration().Milliseconds(),
		)
		o.notify(ctx, wg, ports.NewEvent(ports.EventTypeSourceCompleted, out.Source(), runID, ports.SourceFinishedEvent{
			Bytes:    len(payload),
			Duration: out.Duration(),
		}))
		return
	}

	o.logger.Warn("source failed", "source", out.Source(), "error", out.Message())

	eventType := ports.EventTypeSourceFailed
	if afterDeadline {
		eventType = ports.EventTypeSourceTimeout
	}
	o.notify(ctx, wg, ports.NewEvent(eventType, out.Source(), runID, ports.SourceFinishedEvent{
		Message:  out.Message(),
		Duration: out.Duration(),
	}))
}

// notify envía una notificación a todos los observers.
// Usa goroutines con WaitGroup y timeout para evitar leaks y bloqueos.
func (o *Orchestrator) notify(ctx context.Context, wg *sync.WaitGroup, event ports.Event) {
	for _, observer := range o.observers {
		wg.Add(1)
		go func(notifier ports.Notifier) {
			defer wg.Done()

			// El evento puede emitirse con ctx ya cancelado; la notificación no debe perderse por eso.
			notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notificationTimeout)
			defer cancel()

			done := make(chan error, 1)
			go func() {
				done <- notifier.Notify(notifyCtx, event)
			}()

			select {
			case err := <-done:
				if err != nil {
					o.logger.Warn("notification failed", "error", err.Error(), "event_type", event.Type)
				}
			case <-notifyCtx.Done():
				o.logger.Warn("notification timeout exceeded",
					"timeout", notificationTimeout,
					"event_type", event.Type,
				)
			}
		}(observer)
	}
}
