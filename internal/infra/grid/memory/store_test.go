package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/tvp-inspect/internal/domain/inspection"
)

func TestBackend_OpenMissingStore(t *testing.T) {
	b := New("plant")
	_, err := b.Open(context.Background(), "other")
	require.ErrorIs(t, err, domain.ErrStoreNotFound)

	s, err := b.Open(context.Background(), "plant")
	require.NoError(t, err)
	assert.Equal(t, "plant", s.Name())
}

func TestWorksheet_ReadsTrimTrailingEmpties(t *testing.T) {
	ctx := context.Background()
	s, err := New("plant").Open(ctx, "plant")
	require.NoError(t, err)
	ws, err := s.Worksheet(ctx, "TN5_Data", 10, 5)
	require.NoError(t, err)

	require.NoError(t, ws.UpdateColumn(ctx, 1, 1, []string{"TAG", "a", "b"}))
	require.NoError(t, ws.UpdateCell(ctx, 1, 3, "2026/10/15"))
	require.NoError(t, ws.UpdateCell(ctx, 3, 3, "x"))

	col, err := ws.ColValues(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"TAG", "a", "b"}, col)

	row, err := ws.RowValues(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"TAG", "", "2026/10/15"}, row)

	all, err := ws.AllValues(ctx)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"TAG", "", "2026/10/15"},
		{"a", "", ""},
		{"b", "", "x"},
	}, all)

	require.NoError(t, ws.UpdateCell(ctx, 3, 3, ""))
	row, err = ws.RowValues(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, row)
}

func TestWorksheet_GetOrCreate(t *testing.T) {
	ctx := context.Background()
	s := New().Create("plant")
	a, err := s.Worksheet(ctx, "TN2_Data", 1000, 50)
	require.NoError(t, err)
	require.NoError(t, a.UpdateCell(ctx, 2, 2, "v"))

	b, err := s.Worksheet(ctx, "TN2_Data", 1, 1)
	require.NoError(t, err)
	got, err := b.RowValues(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "v"}, got)
	assert.Equal(t, []string{"TN2_Data"}, s.Worksheets())

	rows, cols := a.(*Worksheet).Capacity()
	assert.Equal(t, 1000, rows)
	assert.Equal(t, 50, cols)
}

func TestWorksheet_Emphasis(t *testing.T) {
	ctx := context.Background()
	ws, err := New().Create("p").Worksheet(ctx, "t", 1, 1)
	require.NoError(t, err)
	mw := ws.(*Worksheet)

	require.NoError(t, ws.Emphasize(ctx, 2, 2, domain.AnomalyEmphasis))
	assert.Equal(t, domain.AnomalyEmphasis, mw.Style(2, 2))
	require.NoError(t, ws.Emphasize(ctx, 2, 2, domain.Emphasis{}))
	assert.True(t, mw.Style(2, 2).IsZero())

	assert.Error(t, ws.UpdateCell(ctx, 0, 1, "x"))
}
