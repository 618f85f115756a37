package http

import (
	"context"
	"encoding/json"
	gohttp "net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPost_SendsJSONAndQuery(t *testing.T) {
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.URL.Query().Get("key"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(gohttp.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": body["msg"]})
	}))
	defer srv.Close()

	resp, err := Post(srv.URL).Using(srv.Client()).Query("key", "secret").
		Body(map[string]string{"msg": "hi"}).Send()
	require.NoError(t, err)
	require.NoError(t, resp.Throw())

	var out map[string]string
	require.NoError(t, resp.JSON(&out))
	assert.Equal(t, "hi", out["echo"])
}

func TestSend_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(gohttp.StatusBadGateway)
			return
		}
		w.WriteHeader(gohttp.StatusOK)
	}))
	defer srv.Close()

	resp, err := Get(srv.URL).Using(srv.Client()).Retry(3, time.Millisecond).Send()
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestSend_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(gohttp.StatusBadRequest)
	}))
	defer srv.Close()

	resp, err := Get(srv.URL).Using(srv.Client()).Retry(3, time.Millisecond).Send()
	require.NoError(t, err)
	assert.Error(t, resp.Throw())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSend_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Get("http://127.0.0.1:1/").WithContext(ctx).Send()
	assert.Error(t, err)
}

func TestHostOf_DropsQuery(t *testing.T) {
	assert.Equal(t, "https://example.com/v1/models", hostOf("https://example.com/v1/models?key=secret"))
}
