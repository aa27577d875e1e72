package batch

import "context"

// LookupFunc resuelve un lote de llaves con una sola consulta (filtro IN).
type LookupFunc[T any] func(ctx context.Context, keys []string) ([]T, error)

// ChunkErrorFunc recibe cada lote fallido (índice base 0).
type ChunkErrorFunc func(chunk int, keys []string, err error)

// LookupResult resultado de ChunkedLookup. Failed > 0 indica enriquecimiento incompleto.
type LookupResult[T any] struct {
	Items  []T
	Chunks int
	Failed int
}

// Partial indica si algún lote falló.
func (r LookupResult[T]) Partial() bool { return r.Failed > 0 }

// ChunkedLookup deduplica keys, las parte en lotes de size y concatena los resultados de
// los lotes exitosos. Un lote fallido se reporta a onErr y se omite. Si ctx se cancela no se
// consultan más lotes: los pendientes cuentan como fallidos y onErr recibe solo el primero.
func ChunkedLookup[T any](ctx context.Context, keys []string, size int, lookup LookupFunc[T], onErr ChunkErrorFunc) LookupResult[T] {
	res := LookupResult[T]{Items: make([]T, 0)}
	chunks := Chunk(Unique(keys), size)
	res.Chunks = len(chunks)
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			res.Failed += len(chunks) - i
			if onErr != nil {
				onErr(i, chunk, err)
			}
			break
		}
		items, err := lookup(ctx, chunk)
		if err != nil {
			res.Failed++
			if onErr != nil {
				onErr(i, chunk, err)
			}
			continue
		}
		res.Items = append(res.Items, items...)
	}
	return res
}

// ForEachChunk aplica fn a cada lote y cuenta éxitos y fallos por separado.
func ForEachChunk[T any](items []T, size int, fn func(chunk int, items []T) error) (succeeded, failed int) {
	for i, chunk := range Chunk(items, size) {
		if err := fn(i, chunk); err != nil {
			failed++
			continue
		}
		succeeded++
	}
	return succeeded, failed
}
