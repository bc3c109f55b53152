package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendPostsAlert(t *testing.T) {
	var got Alert
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL, nil)
	wh.Send(context.Background(), Alert{
		Job:      "fetch-constants",
		Game:     "chunithm",
		Version:  "verse",
		Warnings: []string{"constant value mismatch for Song A [master]"},
	})

	assert.Equal(t, "fetch-constants", got.Job)
	require.Len(t, got.Warnings, 1)
	assert.False(t, got.At.IsZero(), "At is stamped when left zero")
}

func TestSendRetriesOnce(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL, nil)
	wh.Send(context.Background(), Alert{
		Job: "fetch-catalog", Game: "maimai", Version: "prism",
		Warnings: []string{"level mismatch"}, At: time.Now(),
	})

	assert.Equal(t, int32(2), calls.Load())
}

func TestSendSkipsEmptyWarningsAndURL(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL, nil)
	wh.Send(context.Background(), Alert{Job: "fetch-catalog"})
	assert.Equal(t, int32(0), calls.Load())

	none := NewWebhook("", nil)
	none.Send(context.Background(), Alert{Job: "x", Warnings: []string{"w"}})
}
