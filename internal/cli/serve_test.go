package cli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JCVenterInstitute/jillion-go/api"
	"github.com/JCVenterInstitute/jillion-go/api/handlers"
	"github.com/JCVenterInstitute/jillion-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	sc := config.Default().Server
	sc.Host = "127.0.0.1"
	sc.Port = 9090

	srv := newServer(sc, http.NotFoundHandler())
	assert.Equal(t, "127.0.0.1:9090", srv.Addr)
	assert.Greater(t, srv.WriteTimeout, api.RequestTimeout)
}

func TestServeShutdown(t *testing.T) {
	sc := config.Default().Server
	sc.Host = "127.0.0.1"
	sc.Port = 0
	srv := newServer(sc, http.NotFoundHandler())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, srv) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServeListenError(t *testing.T) {
	srv := &http.Server{Addr: "127.0.0.1:-1", Handler: http.NotFoundHandler()}
	err := serve(context.Background(), srv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen on 127.0.0.1:-1")
}

func TestServeRouter(t *testing.T) {
	h := handlers.New(config.Default(), nil)
	ts := httptest.NewServer(api.NewRouter(h, log))
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/alignment/score", "application/json",
		strings.NewReader(`{"query": "ACGT", "subject": "ACGT"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
