package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
	qrcode "github.com/skip2/go-qrcode"
	"k8s.io/klog/v2"

	"flippair/internal/frontend"
)

// Run starts the server and blocks until the context is canceled. An empty
// addr binds an auto-assigned port on localhost. The ServerState, with its
// bound Address filled in, is delivered on started once the listener is up.
func Run(ctx context.Context, addr string, started chan<- *ServerState) error {
	// Initialize global client state for server-side prerendering without panic
	frontend.InitState()

	serverState := NewServerState()

	// Register go-app routes so the server knows how to prerender them
	app.Route("/", func() app.Composer { return &frontend.Home{} })
	app.RouteWithRegexp("^/game/.*", func() app.Composer { return &frontend.Board{} })

	// The web assets and the compiled webassembly
	// are served natively by the go-app framework
	h := &app.Handler{
		Name:        "FlipPair",
		Description: "A memory matching card game",
		Styles: []string{
			"/web/css/pico.min.css",
			"/web/css/main.css",
		},
	}

	r := chi.NewRouter()
	r.Get("/ws", serverState.HandleWS)
	r.Get("/new", serverState.HandleNewGame)
	r.Get("/qr.png", serverState.HandleQR)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	r.Handle("/web/*", http.StripPrefix("/web/", http.FileServer(http.Dir("web/"))))
	r.NotFound(h.ServeHTTP)

	if addr == "" {
		addr = "127.0.0.1:0"
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	serverState.Address = listener.Addr().String()

	srv := &http.Server{Handler: r}

	go func() {
		klog.Infof("Server started on %s", serverState.Address)
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			klog.Errorf("Server error: %v", err)
		}
	}()

	if started != nil {
		started <- serverState
	}

	<-ctx.Done()

	// Graceful shutdown with 5 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	klog.Info("Shutting down server...")
	return srv.Shutdown(shutdownCtx)
}

// HandleNewGame creates a fresh session and redirects the browser to its
// board page.
func (s *ServerState) HandleNewGame(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	s.getOrCreateSession(id, 0)
	http.Redirect(w, r, "/game/"+id, http.StatusSeeOther)
}

// HandleQR serves a PNG QR code pointing at a session's board page, so a
// game on a shared screen can be opened on a phone.
func (s *ServerState) HandleQR(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "missing session parameter", http.StatusBadRequest)
		return
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	png, err := qrcode.Encode(fmt.Sprintf("%s://%s/game/%s", scheme, r.Host, sessionID), qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "failed to encode QR code", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
