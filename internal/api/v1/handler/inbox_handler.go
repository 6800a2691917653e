package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
)

type InboxHandler struct {
	threadService service.ThreadService
	validate      *validator.Validate
}

func NewInboxHandler(threadService service.ThreadService, v *validator.Validate) *InboxHandler {
	return &InboxHandler{threadService: threadService, validate: v}
}

// RegisterRoutes mounts the messaging routes.
func (h *InboxHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/inbox/threads", authMw(http.HandlerFunc(h.listThreads)))
	mux.Handle("/inbox/threads/", authMw(http.HandlerFunc(h.handleMessages)))
}

func (h *InboxHandler) listThreads(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: user ID not found in context", http.StatusUnauthorized)
		return
	}

	threads, err := h.threadService.ListThreads(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to list threads: "+err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]dto.ThreadSummaryDTO, 0, len(threads))
	for _, t := range threads {
		resp = append(resp, dto.ThreadSummaryDTO{
			ID:         t.ID,
			Kind:       string(t.Kind),
			OtherParty: t.OtherParty,
			LastBody:   t.LastBody,
			Unread:     t.Unread,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleMessages routes /inbox/threads/{id}/messages.
func (h *InboxHandler) handleMessages(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/inbox/threads/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[1] != "messages" {
		http.NotFound(w, r)
		return
	}
	threadID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		http.Error(w, "Invalid thread ID", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.listMessages(w, r, threadID)
	case http.MethodPost:
		h.postMessage(w, r, threadID)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (h *InboxHandler) listMessages(w http.ResponseWriter, r *http.Request, threadID int64) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: user ID not found in context", http.StatusUnauthorized)
		return
	}

	messages, err := h.threadService.ListMessages(r.Context(), threadID, userID)
	if err != nil {
		if errors.Is(err, service.ErrThreadNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to list messages: "+err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]dto.MessageResponseDTO, 0, len(messages))
	for _, m := range messages {
		resp = append(resp, messageToDTO(&m))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *InboxHandler) postMessage(w http.ResponseWriter, r *http.Request, threadID int64) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: user ID not found in context", http.StatusUnauthorized)
		return
	}

	var req dto.MessageCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	m, err := h.threadService.PostMessage(r.Context(), threadID, userID, req.Body)
	if err != nil {
		if errors.Is(err, service.ErrThreadNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to post message: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, messageToDTO(m))
}

func messageToDTO(m *model.Message) dto.MessageResponseDTO {
	return dto.MessageResponseDTO{
		ID:        m.ID,
		ThreadID:  m.ThreadID,
		SenderID:  m.SenderID,
		FromEmail: m.SenderEmail,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
	}
}
