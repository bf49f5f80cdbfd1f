package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/tvp-inspect/internal/domain/inspection"
	"github.com/bryanwahyu/tvp-inspect/internal/infra/db/sqlgrid"
)

func TestOpenGrid_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "grid.db")

	store, err := OpenGrid(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.CreateStore(ctx, "tvp plant"))
	sp, err := store.Open(ctx, "tvp plant")
	require.NoError(t, err)
	ws, err := sp.Worksheet(ctx, "TN6_Data", domain.DefaultRowCapacity, domain.DefaultColCapacity)
	require.NoError(t, err)
	require.NoError(t, ws.UpdateCell(ctx, 1, 1, domain.HeaderTag))
	require.NoError(t, store.DB().Close())

	store, err = OpenGrid(ctx, path)
	require.NoError(t, err)
	defer store.DB().Close()
	sp, err = store.Open(ctx, "tvp plant")
	require.NoError(t, err)
	ws, err = sp.Worksheet(ctx, "TN6_Data", domain.DefaultRowCapacity, domain.DefaultColCapacity)
	require.NoError(t, err)
	got, err := ws.RowValues(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"TAG"}, got)
}

func TestOpenGrid_SharedFileHeaderAppend(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "grid.db")

	first, err := OpenGrid(ctx, path)
	require.NoError(t, err)
	defer first.DB().Close()
	second, err := OpenGrid(ctx, path)
	require.NoError(t, err)
	defer second.DB().Close()

	require.NoError(t, first.CreateStore(ctx, "tvp plant"))
	var sheets []domain.Worksheet
	for _, store := range []*sqlgrid.Store{first, second} {
		sp, err := store.Open(ctx, "tvp plant")
		require.NoError(t, err)
		ws, err := sp.Worksheet(ctx, "TN6_Data", domain.DefaultRowCapacity, domain.DefaultColCapacity)
		require.NoError(t, err)
		sheets = append(sheets, ws)
	}
	require.NoError(t, sheets[0].UpdateCell(ctx, 1, 1, domain.HeaderTag))

	const writers = 8
	cols := make([]int, writers)
	errs := make([]error, writers)
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			appender := sheets[i%2].(domain.HeaderAppender)
			cols[i], errs[i] = appender.AppendHeaderIfAbsent(ctx, "2024-05-01")
		}(i)
	}
	wg.Wait()

	for i := range writers {
		require.NoError(t, errs[i])
		assert.Equal(t, 2, cols[i])
	}
	header, err := sheets[1].RowValues(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"TAG", "2024-05-01"}, header)
}
