package sse

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStream_SendWritesEventFrame(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/events", nil)

	s, err := New(rec, req)
	require.NoError(t, err)
	require.NoError(t, s.Send("catalog.updated", map[string]int{"count": 2}))
	require.NoError(t, s.Comment("ping"))

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "event: catalog.updated\ndata: {\"count\":2}\n\n: ping\n\n", rec.Body.String())
	assert.True(t, rec.Flushed)
}
