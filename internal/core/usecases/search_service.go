// internal/core/usecases/search_service.go
package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"arlo/internal/core/domain"
	"arlo/internal/core/ports"
	"arlo/internal/platform/logx"
)

type runIDKey struct{}

// WithRunID asocia un identificador de ejecución al contexto.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunIDFromContext retorna el identificador de ejecución, o "" si no hay.
func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// SearchService compone el pipeline completo:
// palabra clave -> fuentes -> descarga concurrente -> merge -> JSON.
type SearchService struct {
	catalog      ports.SourceCatalog
	orchestrator *Orchestrator
	merger       *MergeService
	observers    []ports.Notifier
	logger       logx.Logger
	pretty       bool
}

// SearchServiceOptions configura el servicio.
type SearchServiceOptions struct {
	Catalog      ports.SourceCatalog
	Orchestrator *Orchestrator
	Merger       *MergeService
	Observers    []ports.Notifier
	Logger       logx.Logger
	Pretty       bool
}

// NewSearchService crea el servicio. Orchestrator y Merger son obligatorios.
func NewSearchService(opts SearchServiceOptions) *SearchService {
	if opts.Logger == nil {
		opts.Logger = logx.NewNop()
	}
	if opts.Merger == nil {
		opts.Merger = NewMergeService(opts.Logger, "")
	}
	return &SearchService{
		catalog:      opts.Catalog,
		orchestrator: opts.Orchestrator,
		merger:       opts.Merger,
		observers:    opts.Observers,
		logger:       opts.Logger.With("component", "search"),
		pretty:       opts.Pretty,
	}
}

// Search ejecuta una búsqueda completa. Las fallas de fuentes solo aparecen en
// SearchResult.Outcomes; Search retorna error únicamente ante condiciones fatales
// (sin fuentes, ejecución abortada, serialización imposible).
func (s *SearchService) Search(ctx context.Context, keyword string) (*domain.SearchResult, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, domain.ErrEmptyKeyword
	}

	result := &domain.SearchResult{
		ID:        uuid.New().String(),
		Keyword:   keyword,
		StartTime: time.Now(),
	}
	ctx = WithRunID(ctx, result.ID)
	logger := s.logger.With("run", result.ID)

	sources, err := s.catalog.Build(keyword)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, domain.ErrNoSources
	}

	names := make([]string, len(sources))
	for i, src := range sources {
		names[i] = src.Name()
	}
	logger.Info("search started", "keyword", keyword, "sources", len(sources))
	s.emit(ctx, ports.NewEvent(ports.EventTypeSearchStarted, "orchestrator", result.ID, ports.SearchStartedEvent{
		Keyword: keyword,
		Sources: names,
		Timeout: s.orchestrator.Timeout(),
	}))

	outcomes, runErr := s.orchestrator.Run(ctx, sources)
	result.Outcomes = outcomes
	if runErr != nil {
		result.EndTime = time.Now()
		s.emit(ctx, ports.NewEvent(ports.EventTypeSearchAborted, "orchestrator", result.ID, runErr.Error()))
		return result, runErr
	}

	set, stats := s.merger.Merge(outcomes)
	payload, err := s.merger.Serialize(set, s.pretty)
	if err != nil {
		result.EndTime = time.Now()
		return result, err
	}

	result.Records = set.Records()
	result.Payload = payload
	result.EndTime = time.Now()

	logger.Info("search completed",
		"records", len(result.Records),
		"succeeded", result.Succeeded(),
		"failed", len(result.Failed()),
		"duplicates", stats.Duplicates,
		"duration_ms", result.Duration().Milliseconds(),
	)
	s.emit(ctx, ports.NewEvent(ports.EventTypeSearchCompleted, "orchestrator", result.ID, ports.SearchCompletedEvent{
		Succeeded: result.Succeeded(),
		Failed:    len(result.Failed()),
		Records:   len(result.Records),
		Duration:  result.Duration(),
	}))

	return result, nil
}

// emit entrega eventos de nivel búsqueda de forma síncrona: son pocos y marcan
// el inicio y fin de la presentación.
func (s *SearchService) emit(ctx context.Context, event ports.Event) {
	for _, observer := range s.observers {
		if err := observer.Notify(context.WithoutCancel(ctx), event); err != nil {
			s.logger.Warn("notification failed", "error", err.Error(), "event_type", event.Type)
		}
	}
}
