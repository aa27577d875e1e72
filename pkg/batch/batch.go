// Package batch agrupa los algoritmos de lectura masiva usados contra un almacenamiento
// con techo de filas por consulta: paginación completa (falla rápido) y búsqueda por
// llaves en lotes (tolera lotes fallidos).
package batch

import (
	"context"
	"fmt"
)

// PageFunc obtiene la ventana [offset, offset+limit) de un orden estable.
type PageFunc[T any] func(ctx context.Context, offset, limit int) ([]T, error)

// FetchAll pide ventanas de tamaño step hasta recibir una página más corta que step (o vacía).
// No necesita conocer el total. Un error en cualquier página aborta todo y no devuelve
// resultados parciales.
func FetchAll[T any](ctx context.Context, step int, page PageFunc[T]) ([]T, error) {
	if step <= 0 {
		return nil, fmt.Errorf("batch: tamaño de página inválido: %d", step)
	}
	all := make([]T, 0)
	for offset := 0; ; offset += step {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := page(ctx, offset, step)
		if err != nil {
			return nil, fmt.Errorf("batch: página offset=%d: %w", offset, err)
		}
		all = append(all, rows...)
		if len(rows) < step {
			return all, nil
		}
	}
}

// Unique elimina duplicados y vacíos conservando el orden de primera aparición.
func Unique(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// Chunk parte items en lotes de tamaño size (el último puede ser menor).
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 || len(items) == 0 {
		return nil
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[i:end])
	}
	return chunks
}
