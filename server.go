package main

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

// Server wires the HTTP surface: static client files, the WebSocket
// endpoint, a join QR code and a health probe.
type Server struct {
	hub       *Hub
	log       *zap.Logger
	clientDir string
	publicURL string
	upgrader  websocket.Upgrader
}

// NewServer creates the HTTP layer.
func NewServer(hub *Hub, log *zap.Logger, clientDir, publicURL string) *Server {
	return &Server{
		hub:       hub,
		log:       log,
		clientDir: clientDir,
		publicURL: publicURL,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				return strings.Contains(origin, r.Host)
			},
		},
	}
}

// SetupRoutes registers all HTTP handlers on a mux.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	fs := http.FileServer(http.Dir(s.clientDir))
	mux.Handle("/", noCache(fs))
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/join-qr", s.handleJoinQR)
	mux.HandleFunc("/healthz", s.handleHealthz)
}

// noCache disables browser caching so client updates ship immediately.
func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// handleWS upgrades the connection and starts the client pumps.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ip := extractIP(r)
	if !s.hub.TryConnect(ip) {
		http.Error(w, "too many connections", http.StatusTooManyRequests)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.hub.TrackDisconnect(ip)
		s.log.Warn("upgrade failed", zap.Error(err))
		return
	}

	client := NewClient(s.hub, conn, ip)
	s.hub.register <- client

	go client.WritePump()
	go client.ReadPump()
}

// handleJoinQR serves a PNG QR code pointing at the public join URL, for
// pulling phones into a running session.
func (s *Server) handleJoinQR(w http.ResponseWriter, r *http.Request) {
	target := s.publicURL
	if target == "" {
		target = "http://" + r.Host + "/"
	}
	png, err := qrcode.Encode(target, qrcode.Medium, 256)
	if err != nil {
		s.log.Error("qr encode", zap.Error(err))
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// handleHealthz reports liveness plus basic arena stats.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	g := s.hub.game
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"players": g.PlayerCount(),
		"bots":    g.BotCount(),
		"phase":   g.Phase().String(),
	})
}

// extractIP pulls the client IP, honoring X-Forwarded-For from a proxy.
func extractIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
