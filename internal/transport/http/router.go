package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	middlewareChi "github.com/go-chi/chi/v5/middleware"

	"github.com/proctorhub/room-service/internal/transport/sse"
	"github.com/proctorhub/room-service/internal/transport/ws"
)

func NewRouter(h *Handler, wsServer *ws.Server, sseServer *sse.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewareChi.RequestID)
	r.Use(middlewareChi.RealIP)
	r.Use(middlewareChi.Recoverer)

	// Long-lived connections stay outside the timeout group.
	r.Get("/ws", wsServer.HandleWS)
	r.Get("/rooms/{id}/events", sseServer.HandleStream)

	r.Group(func(pr chi.Router) {
		pr.Use(middlewareChi.Timeout(30 * time.Second))

		pr.Route("/rooms", func(rm chi.Router) {
			rm.Post("/", h.CreateRoom)
			rm.Get("/", h.ListRooms)

			rm.Route("/{id}", func(rr chi.Router) {
				rr.Get("/", h.GetRoom)
				rr.Delete("/", h.DeleteRoom)
				rr.Post("/validate", h.ValidateRoom)
				rr.Post("/participants", h.AddParticipant)
				rr.Get("/participants", h.GetParticipants)
				rr.Delete("/participants/{rollNumber}", h.RemoveParticipant)
				rr.Post("/logs", h.AppendLog)
				rr.Get("/logs", h.GetLogs)
			})
		})

		pr.Post("/submissions", h.SaveSubmission)
		pr.Get("/papers", h.GetPaper)
	})

	// health
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
