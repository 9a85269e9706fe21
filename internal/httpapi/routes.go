package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/impeter-app/impeter-server/internal/hub"
	"github.com/impeter-app/impeter-server/internal/ws"
)

func SetupRoutes(h *hub.Hub, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", Health(h))
	r.Get("/lobby/{id}", LobbyInfo(h))
	r.Get("/lobby/{id}/qr", LobbyQR(h))
	r.Get("/ws", ws.Handler(h, log))
	return r
}
