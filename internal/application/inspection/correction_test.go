package inspection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/tvp-inspect/internal/domain/inspection"
	"github.com/bryanwahyu/tvp-inspect/internal/infra/grid/memory"
)

func TestClear_NoColumnForToday(t *testing.T) {
	svc := newTestService(t, memory.New(testStore))
	err := svc.Clear(context.Background(), "TN5", oilTemp)
	require.ErrorIs(t, err, domain.ErrNoColumnForToday)
}

func TestClear_RoundTrip(t *testing.T) {
	ctx := context.Background()
	b := memory.New(testStore)
	svc := newTestService(t, b)

	r, err := svc.Submit(ctx, submitValue("TN5", oilTemp, "80"))
	require.NoError(t, err)
	ws := sheet(t, b, "TN5_Data")
	require.False(t, ws.Style(r.Row, r.Col).IsZero())

	require.NoError(t, svc.Clear(ctx, "TN5", oilTemp))
	assert.True(t, ws.Style(r.Row, r.Col).IsZero())

	rep, err := svc.Progress(ctx, "TN5")
	require.NoError(t, err)
	assert.True(t, rep.Started)
	assert.Zero(t, rep.Completed)
	assert.False(t, rep.Items[0].Complete)

	// clearing an already empty cell is fine
	require.NoError(t, svc.Clear(ctx, "TN5", oilTemp))
	require.NoError(t, svc.Clear(ctx, "TN5", ppuPress))

	header, err := ws.RowValues(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"TAG", "2024/05/01"}, header)
}

func TestClear_UnknownTag(t *testing.T) {
	svc := newTestService(t, memory.New(testStore))
	err := svc.Clear(context.Background(), "TN5", domain.MakeTag("MAC A", "missing"))
	require.ErrorIs(t, err, domain.ErrTagNotFound)
}

func TestClear_EmphasisFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	b := memory.New(testStore)
	_, err := newTestService(t, b).Submit(ctx, submitValue("TN5", oilTemp, "58"))
	require.NoError(t, err)

	svc := newTestService(t, &faultyBackend{Backend: b, emphasisErr: errQuota})
	require.NoError(t, svc.Clear(ctx, "TN5", oilTemp))
}
