package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"github.com/proctorhub/room-service/internal/domain"
	"github.com/proctorhub/room-service/internal/service"
)

type Handler struct {
	roomSvc    *service.RoomService
	memberSvc  *service.MemberService
	logSvc     *service.LogService
	archiveSvc *service.ArchiveService

	validate *validator.Validate
}

// NewHandler wires the request surface. archive may be nil when no
// database is configured; its endpoints then answer 501.
func NewHandler(room *service.RoomService, member *service.MemberService, log *service.LogService, archive *service.ArchiveService) *Handler {
	return &Handler{
		roomSvc:    room,
		memberSvc:  member,
		logSvc:     log,
		archiveSvc: archive,
		validate:   validator.New(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeValid decodes the body into dst and runs struct validation.
func (h *Handler) decodeValid(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return h.validate.Struct(dst)
}

// POST /rooms
func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
		return
	}

	room, err := h.roomSvc.CreateRoom(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyRoomName) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		slog.Error("handler.CreateRoom:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, RoomItem{
		ID:        room.ID,
		Name:      room.Name,
		CreatedAt: room.CreatedAt,
	})
}

// GET /rooms
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms := h.roomSvc.ListRooms(r.Context())

	resp := RoomsListResponse{
		Items: lo.Map(rooms, func(rm domain.Room, _ int) RoomItem {
			return RoomItem{
				ID:           rm.ID,
				Name:         rm.Name,
				CreatedAt:    rm.CreatedAt,
				Participants: len(rm.Participants),
			}
		}),
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /rooms/{id}
func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	room, err := h.roomSvc.GetRoom(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "room not found"})
			return
		}
		slog.Error("handler.GetRoom:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, RoomResponse{
		ID:           room.ID,
		Name:         room.Name,
		CreatedAt:    room.CreatedAt,
		Participants: lo.Map(room.Participants, toParticipantItem),
	})
}

// DELETE /rooms/{id}
func (h *Handler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.roomSvc.DeleteRoom(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "room not found"})
			return
		}
		slog.Error("handler.DeleteRoom:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// POST /rooms/{id}/validate
func (h *Handler) ValidateRoom(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.roomSvc.ValidateRoom(r.Context(), id); err != nil {
		writeJSON(w, http.StatusNotFound, ValidateRoomResponse{Success: false, Message: "Room not found."})
		return
	}
	writeJSON(w, http.StatusOK, ValidateRoomResponse{Success: true, Message: "Room found."})
}

// POST /rooms/{id}/participants
func (h *Handler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	var req AddParticipantRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
		return
	}

	p, err := h.memberSvc.AddParticipant(r.Context(), roomID, req.RollNumber)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRoomNotFound):
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "room not found"})
		case errors.Is(err, domain.ErrAlreadyJoined):
			writeJSON(w, http.StatusConflict, ErrorResponse{Error: "participant already joined"})
		case errors.Is(err, domain.ErrEmptyRollNumber):
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			slog.Error("handler.AddParticipant:", slog.Any("err", err))
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusOK, toParticipantItem(p, 0))
}

// DELETE /rooms/{id}/participants/{rollNumber}
func (h *Handler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	rollNumber := chi.URLParam(r, "rollNumber")

	if err := h.memberSvc.RemoveParticipant(r.Context(), roomID, rollNumber); err != nil {
		switch {
		case errors.Is(err, domain.ErrRoomNotFound):
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "room not found"})
		case errors.Is(err, domain.ErrNotInRoom):
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "participant not in room"})
		default:
			slog.Error("handler.RemoveParticipant:", slog.Any("err", err))
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "left"})
}

// GET /rooms/{id}/participants
func (h *Handler) GetParticipants(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	items, err := h.memberSvc.ListParticipants(r.Context(), roomID)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "room not found"})
			return
		}
		slog.Error("handler.GetParticipants:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, ParticipantsResponse{
		Items: lo.Map(items, toParticipantItem),
	})
}

// POST /rooms/{id}/logs
func (h *Handler) AppendLog(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	var req AppendLogRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
		return
	}

	entry, err := h.logSvc.Append(r.Context(), roomID, domain.LogEntry{
		Message:    req.Message,
		Status:     req.Status,
		RollNumber: req.RollNumber,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmptyLogMessage) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		slog.Error("handler.AppendLog:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, toLogItem(entry, 0))
}

// GET /rooms/{id}/logs
func (h *Handler) GetLogs(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	entries := h.logSvc.Snapshot(r.Context(), roomID)

	writeJSON(w, http.StatusOK, LogsResponse{
		Items: lo.Map(entries, toLogItem),
	})
}

// POST /submissions
func (h *Handler) SaveSubmission(w http.ResponseWriter, r *http.Request) {
	if h.archiveSvc == nil {
		writeJSON(w, http.StatusNotImplemented, ErrorResponse{Error: "archive service disabled"})
		return
	}

	var req SubmissionRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
		return
	}

	sub, err := h.archiveSvc.SaveSubmission(r.Context(), req.RollNumber, req.RoomID, req.Image)
	if err != nil {
		slog.Error("handler.SaveSubmission:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, SubmissionResponse{ID: sub.ID, CreatedAt: sub.CreatedAt})
}

// GET /papers?qp_code=
func (h *Handler) GetPaper(w http.ResponseWriter, r *http.Request) {
	if h.archiveSvc == nil {
		writeJSON(w, http.StatusNotImplemented, ErrorResponse{Error: "archive service disabled"})
		return
	}

	qpCode := r.URL.Query().Get("qp_code")
	if qpCode == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "missing qp_code"})
		return
	}

	paper, err := h.archiveSvc.GetPaper(r.Context(), qpCode)
	if err != nil {
		if errors.Is(err, domain.ErrPaperNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "paper not found"})
			return
		}
		slog.Error("handler.GetPaper:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, PaperResponse{Success: true, Data: paper.Image})
}

func toParticipantItem(p domain.Participant, _ int) ParticipantItem {
	return ParticipantItem{
		RoomID:     p.RoomID,
		RollNumber: p.RollNumber,
		JoinedAt:   p.JoinedAt,
	}
}

func toLogItem(e domain.LogEntry, _ int) LogItem {
	return LogItem{
		RoomID:     e.RoomID,
		Message:    e.Message,
		Status:     e.Status,
		RollNumber: e.RollNumber,
		CreatedAt:  e.CreatedAt,
	}
}
