// internal/core/ports/fetcher.go
package ports

import "context"

// Fetcher es el port hacia el transporte de red. Una implementación realiza un
// GET contra url y retorna el cuerpo completo, o un error.
// Debe respetar ctx: al cancelarse, Fetch debe retornar lo antes posible.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetcherFunc adapta una función a Fetcher.
type FetcherFunc func(ctx context.Context, url string) ([]byte, error)

// Fetch implementa Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}
