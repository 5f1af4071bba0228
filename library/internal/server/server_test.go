package server_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vagnerhf/library/library/config"
	"github.com/vagnerhf/library/library/internal/server"
)

func TestServer_RunStop(t *testing.T) {
	t.Parallel()

	srv := server.NewServer(config.HTTPServer{Host: "127.0.0.1", Port: "0"}, http.NotFoundHandler())
	done := make(chan error, 1)
	go func() { done <- srv.Run() }()

	time.Sleep(50 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("server did not stop")
	}
}
