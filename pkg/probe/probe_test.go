package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitReady_SucceedsAfterRetries(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := New()
	p.MaxWait = 10 * time.Second

	require.NoError(t, p.WaitReady(context.Background(), srv.URL+"/healthz"))
	assert.GreaterOrEqual(t, hits.Load(), int32(3))
}

func TestWaitReady_GivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := New()
	p.MaxWait = 100 * time.Millisecond

	err := p.WaitReady(context.Background(), srv.URL+"/healthz")
	assert.ErrorContains(t, err, "status 500")
}

func TestWaitReady_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New()
	err := p.WaitReady(ctx, srv.URL+"/healthz")
	assert.Error(t, err)
}

func TestWaitReady_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	p := New()
	p.MaxWait = 100 * time.Millisecond

	assert.Error(t, p.WaitReady(context.Background(), url+"/healthz"))
}
