package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jurimetric/lexmeta/internal/config"
)

func TestNewServerAppliesDefaults(t *testing.T) {
	s := NewServer(config.ServerConfig{Port: 8080}, http.NewServeMux(), nil)

	require.NotNil(t, s.srv)
	assert.Equal(t, ":8080", s.srv.Addr)
	assert.Equal(t, 15*time.Second, s.srv.ReadTimeout)
	assert.Equal(t, 15*time.Second, s.srv.WriteTimeout)
	assert.Equal(t, 30*time.Second, s.shutdownTimeout)
}

func TestNewServerHonoursConfiguredTimeouts(t *testing.T) {
	s := NewServer(config.ServerConfig{
		Port:            9090,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 2 * time.Second,
	}, http.NewServeMux(), nil)

	assert.Equal(t, 5*time.Second, s.srv.ReadTimeout)
	assert.Equal(t, 10*time.Second, s.srv.WriteTimeout)
	assert.Equal(t, 2*time.Second, s.shutdownTimeout)
}

func TestServerStartAndStop(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s := NewServer(config.ServerConfig{Port: 0}, mux, nil)

	done := make(chan error, 1)
	go func() { done <- s.Start() }()

	// Give the listener a moment to come up, then shut down cleanly.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServerHandlerExposed(t *testing.T) {
	mux := http.NewServeMux()
	s := NewServer(config.ServerConfig{Port: 8080}, mux, nil)
	assert.NotNil(t, s.Handler())
}
