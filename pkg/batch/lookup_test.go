package batch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoLookup(calls *[][]string) LookupFunc[string] {
	return func(_ context.Context, keys []string) ([]string, error) {
		*calls = append(*calls, append([]string(nil), keys...))
		return keys, nil
	}
}

func TestChunkedLookup_DeduplicaYTrocea(t *testing.T) {
	var calls [][]string
	keys := []string{"A", "B", "A", "C", "D", "E", "B"}
	res := ChunkedLookup(context.Background(), keys, 2, echoLookup(&calls), nil)

	assert.Equal(t, [][]string{{"A", "B"}, {"C", "D"}, {"E"}}, calls)
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, res.Items)
	assert.Equal(t, 3, res.Chunks)
	assert.False(t, res.Partial())
}

func TestChunkedLookup_SinLlaves(t *testing.T) {
	var calls [][]string
	res := ChunkedLookup(context.Background(), nil, 200, echoLookup(&calls), nil)
	assert.Empty(t, calls)
	assert.Empty(t, res.Items)
	assert.Equal(t, 0, res.Chunks)
}

func TestChunkedLookup_LoteFallidoSeOmite(t *testing.T) {
	keys := []string{"P1", "P2", "P3", "P4", "P5"}
	lookup := func(_ context.Context, chunk []string) ([]string, error) {
		if chunk[0] == "P3" {
			return nil, errors.New("fallo de red")
		}
		return chunk, nil
	}
	var reported []int
	res := ChunkedLookup(context.Background(), keys, 2, lookup, func(i int, chunk []string, err error) {
		reported = append(reported, i)
		assert.Equal(t, []string{"P3", "P4"}, chunk)
		assert.Error(t, err)
	})

	require.True(t, res.Partial())
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 3, res.Chunks)
	assert.Equal(t, []int{1}, reported)
	assert.Equal(t, []string{"P1", "P2", "P5"}, res.Items)
}

func TestChunkedLookup_ContextoCanceladoNoConsultaMas(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	lookup := func(_ context.Context, keys []string) ([]string, error) {
		calls++
		cancel()
		return keys, nil
	}
	var reported []int
	res := ChunkedLookup(ctx, []string{"a", "b", "c", "d", "e"}, 2, lookup, func(chunk int, _ []string, err error) {
		reported = append(reported, chunk)
		assert.ErrorIs(t, err, context.Canceled)
	})

	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"a", "b"}, res.Items)
	assert.Equal(t, 3, res.Chunks)
	assert.Equal(t, 2, res.Failed)
	assert.Equal(t, []int{1}, reported)
}

func TestForEachChunk_CuentaExitosYFallos(t *testing.T) {
	items := make([]int, 120)
	ok, failed := ForEachChunk(items, 50, func(i int, chunk []int) error {
		if i == 1 {
			return errors.New("rechazado")
		}
		return nil
	})
	assert.Equal(t, 2, ok)
	assert.Equal(t, 1, failed)
}
