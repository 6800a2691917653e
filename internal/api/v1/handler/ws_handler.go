package handler

import (
	"net/http"

	"app/internal/auth"
	"app/internal/broadcast"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// WSHandler upgrades event stream connections and parks them in the hub.
// Browsers cannot set an Authorization header on the websocket handshake, so
// the token rides in the query string instead.
type WSHandler struct {
	hub      *broadcast.Hub
	tokens   *auth.TokenIssuer
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

func NewWSHandler(hub *broadcast.Hub, tokens *auth.TokenIssuer, logger zerolog.Logger) *WSHandler {
	return &WSHandler{
		hub:    hub,
		tokens: tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger.With().Str("handler", "WSHandler").Logger(),
	}
}

func (h *WSHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", h.serve)
}

func (h *WSHandler) serve(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}
	if _, err := h.tokens.Validate(token); err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}

	h.hub.Join(conn)
	// Drain the read side so close frames are processed; the client never
	// sends application data on this stream.
	go func() {
		defer h.hub.Leave(conn)
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
