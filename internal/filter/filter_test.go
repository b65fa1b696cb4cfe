package filter

import (
	"context"
	"testing"
	"time"

	"github.com/artpar/hooklens/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRequests() []core.CapturedRequest {
	ms := 15.0
	return []core.CapturedRequest{
		{ID: 1, Method: "POST", Body: `{"event":"order.created","amount":42}`, Headers: `{"X-Source":"shop"}`, ResponseTime: &ms},
		{ID: 2, Method: "GET", QueryParams: `{"page":"2"}`},
		{ID: 3, Method: "POST", Body: "plain text body"},
	}
}

func TestCompile(t *testing.T) {
	t.Run("empty expression matches all", func(t *testing.T) {
		f, err := Compile("   ")
		require.NoError(t, err)
		assert.True(t, f.Empty())

		out, err := f.Apply(context.Background(), sampleRequests())
		require.NoError(t, err)
		assert.Len(t, out, 3)
	})

	t.Run("syntax error is reported", func(t *testing.T) {
		_, err := Compile("req.method ==")
		assert.ErrorContains(t, err, "syntax error")
	})

	t.Run("keeps source", func(t *testing.T) {
		f, err := Compile(` req.method == "GET" `)
		require.NoError(t, err)
		assert.Equal(t, `req.method == "GET"`, f.Source())
	})
}

func TestFilter_Apply(t *testing.T) {
	ctx := context.Background()

	t.Run("filters by method", func(t *testing.T) {
		f, err := Compile(`req.method == "POST"`)
		require.NoError(t, err)

		out, err := f.Apply(ctx, sampleRequests())
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, int64(1), out[0].ID)
		assert.Equal(t, int64(3), out[1].ID)
	})

	t.Run("filters by raw body text", func(t *testing.T) {
		f, err := Compile(`req.body.includes("plain")`)
		require.NoError(t, err)

		out, err := f.Apply(ctx, sampleRequests())
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, int64(3), out[0].ID)
	})

	t.Run("filters by parsed JSON body", func(t *testing.T) {
		f, err := Compile(`req.json.body && req.json.body.amount > 40`)
		require.NoError(t, err)

		out, err := f.Apply(ctx, sampleRequests())
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, int64(1), out[0].ID)
	})

	t.Run("missing response time is null", func(t *testing.T) {
		f, err := Compile(`req.response_time === null`)
		require.NoError(t, err)

		out, err := f.Apply(ctx, sampleRequests())
		require.NoError(t, err)
		assert.Len(t, out, 2)
	})

	t.Run("runtime error aborts", func(t *testing.T) {
		f, err := Compile(`req.nope.deeper`)
		require.NoError(t, err)

		_, err = f.Apply(ctx, sampleRequests())
		assert.ErrorContains(t, err, "runtime error")
	})

	t.Run("runaway predicate is interrupted", func(t *testing.T) {
		f, err := Compile(`(function(){ while(true){} })()`)
		require.NoError(t, err)

		_, err = f.ApplyWithTimeout(sampleRequests(), 50*time.Millisecond)
		assert.ErrorContains(t, err, "interrupted")
	})

	t.Run("cancelled context fails fast", func(t *testing.T) {
		f, err := Compile(`true`)
		require.NoError(t, err)

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err = f.Apply(cctx, sampleRequests())
		assert.ErrorIs(t, err, context.Canceled)
	})
}
