// internal/platform/ui/pterm_presenter.go
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/pterm/pterm"

	"arlo/internal/core/ports"
)

// PTermPresenter implementa Presenter usando la biblioteca pterm
// para renderizar colores, símbolos y la tabla resumen.
//
// Escribe en stderr por defecto: stdout queda reservado para el JSON.
type PTermPresenter struct {
	mu  sync.Mutex
	out io.Writer

	// Tracking de progreso, en el orden anunciado por search.started
	order   []string
	sources map[string]*SourceProgress
	keyword string
	timeout time.Duration
	closed  bool
}

// NewPTermPresenter crea una nueva instancia del presenter con pterm
func NewPTermPresenter() *PTermPresenter {
	return NewPTermPresenterWithWriter(os.Stderr)
}

// NewPTermPresenterWithWriter crea el presenter escribiendo en w.
func NewPTermPresenterWithWriter(w io.Writer) *PTermPresenter {
	return &PTermPresenter{
		out:     w,
		sources: make(map[string]*SourceProgress),
	}
}

// Notify traduce un evento del pipeline en salida de terminal.
func (p *PTermPresenter) Notify(_ context.Context, event ports.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	switch event.Type {
	case ports.EventTypeSearchStarted:
		data, _ := event.Data.(ports.SearchStartedEvent)
		p.start(data)
	case ports.EventTypeSourceStarted:
		p.track(event.Source).Status = StatusRunning
	case ports.EventTypeSourceCompleted:
		p.finishSource(event.Source, StatusSuccess, event.Data)
	case ports.EventTypeSourceFailed:
		p.finishSource(event.Source, StatusError, event.Data)
	case ports.EventTypeSourceTimeout:
		p.finishSource(event.Source, StatusTimeout, event.Data)
	case ports.EventTypeSearchAborted:
		msg, _ := event.Data.(string)
		p.println(pterm.Error.Sprint("Search aborted: " + msg))
	case ports.EventTypeSearchCompleted:
		data, _ := event.Data.(ports.SearchCompletedEvent)
		p.finish(data)
	}
	return nil
}

// start muestra el header de la búsqueda
func (p *PTermPresenter) start(info ports.SearchStartedEvent) {
	p.keyword = info.Keyword
	p.timeout = info.Timeout
	p.order = p.order[:0]
	p.sources = make(map[string]*SourceProgress, len(info.Sources))
	for _, name := range info.Sources {
		p.track(name)
	}

	p.println(pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(pterm.BgYellow)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Sprint("arlo - title search"))

	content := fmt.Sprintf("%s Keyword: %s\n", IconSearch, StylePrimary.Sprint(info.Keyword))
	content += fmt.Sprintf("%s Sources: %s\n", IconSources, strings.Join(info.Sources, ", "))
	content += fmt.Sprintf("%s Timeout: %s", IconTime, formatDuration(info.Timeout))

	p.println(pterm.DefaultBox.
		WithTitle("Search").
		WithTitleTopCenter().
		WithLeftPadding(2).
		WithRightPadding(2).
		Sprint(content))
}

// track retorna el progreso de una fuente, creándolo si no existe
func (p *PTermPresenter) track(name string) *SourceProgress {
	sp, exists := p.sources[name]
	if !exists {
		sp = &SourceProgress{Name: name, Status: StatusPending}
		p.sources[name] = sp
		p.order = append(p.order, name)
	}
	return sp
}

// finishSource registra el resultado de una fuente y renderiza su línea
func (p *PTermPresenter) finishSource(name string, status Status, data any) {
	sp := p.track(name)
	sp.Status = status
	if d, ok := data.(ports.SourceFinishedEvent); ok {
		sp.Bytes = d.Bytes
		sp.Message = d.Message
		sp.Duration = d.Duration
	}
	p.println(p.renderSourceLine(sp))
}

// renderSourceLine renderiza una línea con el estado de una fuente
func (p *PTermPresenter) renderSourceLine(sp *SourceProgress) string {
	line := fmt.Sprintf("  %s %s", sp.Status.Symbol(), sp.Name)

	switch sp.Status {
	case StatusPending:
		line += " (pending...)"
	case StatusRunning:
		line += " (running...)"
	case StatusSuccess:
		line += fmt.Sprintf(" (%s) %s", formatDuration(sp.Duration), formatBytes(sp.Bytes))
	default:
		line += fmt.Sprintf(" (%s) %s", formatDuration(sp.Duration), sp.Message)
	}

	return sp.Status.Style().Sprint(line)
}

// finish muestra las estadísticas finales y la tabla por fuente
func (p *PTermPresenter) finish(stats ports.SearchCompletedEvent) {
	p.println(StyleSecondary.Sprint(SeparatorHeavy))

	content := fmt.Sprintf("%s Duration: %s\n", IconTime, formatDuration(stats.Duration))
	content += fmt.Sprintf("%s Records: %d\n", IconRecords, stats.Records)
	content += fmt.Sprintf("%s Sources succeeded: %d", IconSuccess, stats.Succeeded)
	if stats.Failed > 0 {
		content += fmt.Sprintf("\n%s Sources failed: %d", IconError, stats.Failed)
	}

	p.println(pterm.DefaultBox.
		WithTitle("Results").
		WithTitleTopCenter().
		WithLeftPadding(2).
		WithRightPadding(2).
		Sprint(content))

	tableData := pterm.TableData{{"Source", "Status", "Time", "Detail"}}
	for _, name := range p.order {
		sp := p.sources[name]
		detail := sp.Message
		if sp.Status == StatusSuccess {
			detail = formatBytes(sp.Bytes)
		}
		tableData = append(tableData, []string{
			sp.Name,
			sp.Status.Style().Sprint(sp.Status.String()),
			formatDuration(sp.Duration),
			detail,
		})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(tableData).Srender()
	if err == nil {
		p.println(table)
	}
}

// Info muestra un mensaje informativo
func (p *PTermPresenter) Info(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.println(pterm.Info.Sprint(msg))
}

// Warning muestra una advertencia
func (p *PTermPresenter) Warning(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.println(pterm.Warning.Sprint(msg))
}

// Error muestra un error
func (p *PTermPresenter) Error(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.println(pterm.Error.Sprint(msg))
}

// Close descarta eventos posteriores
func (p *PTermPresenter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	return nil
}

// Snapshot retorna una copia del progreso de cada fuente, en orden.
func (p *PTermPresenter) Snapshot() []SourceProgress {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]SourceProgress, 0, len(p.order))
	for _, name := range p.order {
		out = append(out, *p.sources[name])
	}
	return out
}

func (p *PTermPresenter) println(s string) {
	fmt.Fprintln(p.out, strings.TrimRight(s, "\n"))
}
