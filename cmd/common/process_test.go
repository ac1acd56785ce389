package common

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"momoledger/momo-ingest/cmd/root"
	"momoledger/momo-ingest/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveInput(t *testing.T) {
	original := root.SharedFlags
	t.Cleanup(func() { root.SharedFlags = original })

	tests := []struct {
		name    string
		args    []string
		flag    string
		want    string
		wantErr error
	}{
		{name: "argument wins", args: []string{"a.xml"}, flag: "b.xml", want: "a.xml"},
		{name: "flag fallback", flag: "b.xml", want: "b.xml"},
		{name: "empty argument uses flag", args: []string{""}, flag: "b.xml", want: "b.xml"},
		{name: "nothing given", wantErr: ErrNoInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root.SharedFlags.Input = tt.flag
			got, err := ResolveInput(tt.args)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpenOutput(t *testing.T) {
	t.Run("empty path uses fallback", func(t *testing.T) {
		var buf bytes.Buffer
		w, closeFn, err := OpenOutput("", &buf)
		require.NoError(t, err)
		_, _ = w.Write([]byte("hello"))
		assert.NoError(t, closeFn())
		assert.Equal(t, "hello", buf.String())
	})

	t.Run("creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "reports", "status.csv")
		w, closeFn, err := OpenOutput(path, nil)
		require.NoError(t, err)
		_, _ = w.Write([]byte("a,b\n"))
		require.NoError(t, closeFn())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "a,b\n", string(data))
	})
}

func TestSignalContext(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())
	ctx, cancel := SignalContext(parent)
	defer cancel()

	cancelParent()
	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestCountFailed(t *testing.T) {
	summaries := []*models.RunSummary{
		{Status: models.RunStatusSuccess},
		{Status: models.RunStatusError},
		nil,
		{Status: models.RunStatusSkipped},
		{Status: models.RunStatusError},
	}
	assert.Equal(t, 2, CountFailed(summaries))
	assert.Zero(t, CountFailed(nil))
}
