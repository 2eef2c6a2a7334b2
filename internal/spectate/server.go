package spectate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// NewMux routes /ws to the hub and /health to a liveness probe.
func NewMux(h *Hub) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Serve runs the spectator endpoint on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, h *Hub) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewMux(h),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	h.log.WithField("addr", addr).Info("spectate listening")

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("spectate listen: %w", err)
	case <-ctx.Done():
	}

	h.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("spectate shutdown: %w", err)
	}
	return nil
}
