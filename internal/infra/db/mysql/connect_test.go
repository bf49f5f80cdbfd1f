package mysql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnect_Failures(t *testing.T) {
	ctx := context.Background()

	_, err := Connect(ctx, "no-slash-in-dsn")
	require.Error(t, err)

	// nothing listens on port 1
	_, err = OpenGrid(ctx, "inspect:secret@tcp(127.0.0.1:1)/grid?timeout=1s")
	require.Error(t, err)
}
