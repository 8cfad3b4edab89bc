package sys

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

// KeepAliveHandler answers the hosting platform's liveness check on the root path.
func KeepAliveHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(MsgKeepAliveBody))
	})
	return mux
}

// KeepAliveServer serves KeepAliveHandler until its context is cancelled.
type KeepAliveServer struct {
	srv *http.Server
	ln  net.Listener
}

// ListenKeepAlive binds the listener synchronously so a port conflict is
// reported before the gateway is opened.
func ListenKeepAlive(port string) (*KeepAliveServer, error) {
	ln, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return nil, err
	}
	return &KeepAliveServer{
		ln: ln,
		srv: &http.Server{
			Handler:           KeepAliveHandler(),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// Addr is the bound address, useful when port "0" was requested.
func (k *KeepAliveServer) Addr() net.Addr {
	return k.ln.Addr()
}

// Serve blocks until ctx is done, then shuts the server down.
func (k *KeepAliveServer) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- k.srv.Serve(k.ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := k.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	LogKeepAlive(MsgKeepAliveStopped)
	return nil
}
