package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"

	"github.com/impeter-app/impeter-server/internal/hub"
	"github.com/impeter-app/impeter-server/internal/types"
)

const qrSize = 256

// joinScheme is the deep link the mobile client registers for.
const joinScheme = "impeter://join/"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Health(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan hub.Stats, 1)
		h.Inbox() <- hub.GetStats{Reply: reply}
		stats := <-reply

		writeJSON(w, http.StatusOK, struct {
			Status    string `json:"status"`
			Lobbies   int    `json:"lobbies"`
			Timestamp string `json:"timestamp"`
		}{
			Status:    "ok",
			Lobbies:   stats.Lobbies,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, struct {
		Error string `json:"error"`
	}{Error: "Lobby not found"})
}

func LobbyInfo(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan *types.LobbySummary, 1)
		h.Inbox() <- hub.GetLobby{Code: chi.URLParam(r, "id"), Reply: reply}
		summary := <-reply
		if summary == nil {
			notFound(w)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

// LobbyQR renders the join deep link as a PNG so the host can put it on a
// shared screen.
func LobbyQR(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "id")

		reply := make(chan *types.LobbySummary, 1)
		h.Inbox() <- hub.GetLobby{Code: code, Reply: reply}
		if <-reply == nil {
			notFound(w)
			return
		}

		png, err := qrcode.Encode(joinScheme+code, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "failed to generate qr code", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}
}
