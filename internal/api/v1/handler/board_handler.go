package handler

import (
	"encoding/json"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
)

// BoardHandler serves the public campus board: comments and reference meal
// prices. Reads are open; posting a comment requires auth. Price updates
// live on the admin surface.
type BoardHandler struct {
	commentService service.CommentService
	priceService   service.MealPriceService
	validate       *validator.Validate
}

func NewBoardHandler(commentService service.CommentService, priceService service.MealPriceService, v *validator.Validate) *BoardHandler {
	return &BoardHandler{commentService: commentService, priceService: priceService, validate: v}
}

func (h *BoardHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.HandleFunc("/comments", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.listComments(w, r)
		case http.MethodPost:
			authMw(http.HandlerFunc(h.postComment)).ServeHTTP(w, r)
		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/mealprices", h.listPrices)
}

func (h *BoardHandler) listComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.commentService.List(r.Context(), r.URL.Query().Get("university"))
	if err != nil {
		http.Error(w, "Failed to list comments: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (h *BoardHandler) postComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: user ID not found in context", http.StatusUnauthorized)
		return
	}

	var req dto.CommentCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	c, err := h.commentService.Post(r.Context(), userID, req.University, req.Body)
	if err != nil {
		http.Error(w, "Failed to post comment: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *BoardHandler) listPrices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	prices, err := h.priceService.List(r.Context(), r.URL.Query().Get("university"))
	if err != nil {
		http.Error(w, "Failed to list meal prices: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, prices)
}
