// internal/core/usecases/fetch_task.go
package usecases

import (
	"context"
	"fmt"
	"time"

	"arlo/internal/core/domain"
	"arlo/internal/core/ports"
	"arlo/internal/platform/errors"
	"arlo/internal/platform/logx"
)

// FetchTask realiza una única descarga de una Source.
// Nunca propaga errores: todo fallo termina como domain.Failed.
type FetchTask struct {
	source  domain.Source
	fetcher ports.Fetcher
	logger  logx.Logger
}

// NewFetchTask crea una nueva FetchTask.
func NewFetchTask(source domain.Source, fetcher ports.Fetcher, logger logx.Logger) *FetchTask {
	if logger == nil {
		logger = logx.NewNop()
	}
	return &FetchTask{
		source:  source,
		fetcher: fetcher,
		logger:  logger.With("source", source.Name()),
	}
}

// Name retorna el nombre de la tarea (nombre de la source).
func (t *FetchTask) Name() string {
	return t.source.Name()
}

// Execute descarga la URL de la source. Si ctx terminó cuando el fetch retorna,
// el resultado es Failure aunque hayan llegado bytes: un payload posiblemente
// truncado nunca llega al merger.
func (t *FetchTask) Execute(ctx context.Context) (outcome domain.FetchOutcome) {
	start := time.Now()
	name := t.source.Name()

	defer func() {
		if r := recover(); r != nil {
			t.logger.Warn("fetch panicked", "panic", fmt.Sprint(r))
			outcome = domain.Failed(name, fmt.Sprintf("fetch panicked: %v", r), time.Since(start))
		}
	}()

	if err := ctx.Err(); err != nil {
		return domain.Failed(name, describeFetchError(err), time.Since(start))
	}

	t.logger.Debug("fetching", "url", t.source.URL())
	body, err := t.fetcher.Fetch(ctx, t.source.URL())
	elapsed := time.Since(start)

	if ctxErr := ctx.Err(); ctxErr != nil {
		t.logger.Debug("fetch interrupted", "bytes_discarded", len(body), "elapsed_ms", elapsed.Milliseconds())
		return domain.Failed(name, describeFetchError(ctxErr), elapsed)
	}
	if err != nil {
		t.logger.Debug("fetch failed", "error", err.Error(), "elapsed_ms", elapsed.Milliseconds())
		return domain.Failed(name, describeFetchError(err), elapsed)
	}

	t.logger.Debug("fetch completed", "bytes", len(body), "elapsed_ms", elapsed.Milliseconds())
	return domain.Succeeded(name, body, elapsed)
}

// describeFetchError arma el mensaje de un Failure según la categoría del error.
func describeFetchError(err error) string {
	err = errors.Classify(err)
	switch {
	case errors.IsTimeout(err):
		return "deadline exceeded before response completed"
	case errors.IsCanceled(err):
		return "canceled before response completed"
	case errors.IsReadFailed(err):
		return "unable to read response: " + err.Error()
	case errors.IsConnectionFailed(err):
		return "unable to open connection: " + err.Error()
	default:
		return "request failed: " + err.Error()
	}
}
