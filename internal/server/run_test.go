package server_test

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dropin/internal/server"
)

func TestRun_GracefulShutdown(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var hooks atomic.Int32
	hookErr := errors.New("close failed")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.Run(ctx, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("pong"))
		}),
			server.Listener(ln),
			server.ShutdownTimeout(time.Second),
			server.ShutdownHook(func(context.Context) error { hooks.Add(1); return nil }),
			server.ShutdownHook(func(context.Context) error { hooks.Add(1); return hookErr }),
		)
	}()

	resp, err := http.Get("http://" + ln.Addr().String())
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, err)
	require.Equal(t, "pong", string(body))

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, hookErr)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	require.EqualValues(t, 2, hooks.Load())
}

func TestRun_ListenError(t *testing.T) {
	t.Parallel()

	err := server.Run(context.Background(), http.NotFoundHandler(), server.Address("127.0.0.1:-1"))
	require.Error(t, err)
}
