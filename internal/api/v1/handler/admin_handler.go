package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
)

// AdminHandler is the moderation surface. Every route requires the admin
// role claim; the gate lives in middleware, not here.
type AdminHandler struct {
	adminService service.AdminService
	priceService service.MealPriceService
	validate     *validator.Validate
}

func NewAdminHandler(adminService service.AdminService, priceService service.MealPriceService, v *validator.Validate) *AdminHandler {
	return &AdminHandler{adminService: adminService, priceService: priceService, validate: v}
}

func (h *AdminHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	admin := func(fn http.HandlerFunc) http.Handler {
		return authMw(middleware.RequireAdmin(fn))
	}
	mux.Handle("/admin/users", admin(h.listUsers))
	mux.Handle("/admin/offers/meals", admin(h.listMealOffers))
	mux.Handle("/admin/offers/items", admin(h.listItemOffers))
	mux.Handle("/admin/transactions", admin(h.listTransactions))
	mux.Handle("/admin/messages", admin(h.listMessages))
	mux.Handle("/admin/comments", admin(h.listComments))
	mux.Handle("/admin/usage", admin(h.listUsage))
	mux.Handle("/admin/activity", admin(h.listActivity))
	mux.Handle("/admin/mealprices", admin(h.handlePrices))
	mux.Handle("/admin/broadcast", admin(h.broadcast))
}

func (h *AdminHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	users, err := h.adminService.Users(r.Context())
	if err != nil {
		http.Error(w, "Failed to list users: "+err.Error(), http.StatusInternalServerError)
		return
	}
	resp := make([]dto.UserResponseDTO, 0, len(users))
	for i := range users {
		resp = append(resp, userToDTO(&users[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AdminHandler) listMealOffers(w http.ResponseWriter, r *http.Request) {
	h.listOffers(w, r, model.KindMeal)
}

func (h *AdminHandler) listItemOffers(w http.ResponseWriter, r *http.Request) {
	h.listOffers(w, r, model.KindItem)
}

func (h *AdminHandler) listOffers(w http.ResponseWriter, r *http.Request, kind model.ListingKind) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	listings, err := h.adminService.Offers(r.Context(), kind)
	if err != nil {
		http.Error(w, "Failed to list offers: "+err.Error(), http.StatusInternalServerError)
		return
	}
	resp := make([]dto.ListingResponseDTO, 0, len(listings))
	for i := range listings {
		resp = append(resp, listingToDTO(&listings[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AdminHandler) listTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	txns, err := h.adminService.Transactions(r.Context())
	if err != nil {
		http.Error(w, "Failed to list transactions: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, txns)
}

func (h *AdminHandler) listMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	messages, err := h.adminService.Messages(r.Context())
	if err != nil {
		http.Error(w, "Failed to list messages: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

func (h *AdminHandler) listComments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	comments, err := h.adminService.Comments(r.Context())
	if err != nil {
		http.Error(w, "Failed to list comments: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (h *AdminHandler) listUsage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	entries, err := h.adminService.UsageLedger(r.Context())
	if err != nil {
		http.Error(w, "Failed to list usage ledger: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *AdminHandler) listActivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	activities, err := h.adminService.Activities(r.Context())
	if err != nil {
		http.Error(w, "Failed to list activity: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, activities)
}

func (h *AdminHandler) handlePrices(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listPrices(w, r)
	case http.MethodPost:
		h.setPrice(w, r)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AdminHandler) listPrices(w http.ResponseWriter, r *http.Request) {
	prices, err := h.priceService.List(r.Context(), r.URL.Query().Get("university"))
	if err != nil {
		http.Error(w, "Failed to list meal prices: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, prices)
}

func (h *AdminHandler) setPrice(w http.ResponseWriter, r *http.Request) {
	var req dto.MealPriceSetDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	mp, err := h.priceService.Set(r.Context(), req.University, req.MealType, req.Price)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPrice) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to set meal price: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, mp)
}

func (h *AdminHandler) broadcast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	adminID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: user ID not found in context", http.StatusUnauthorized)
		return
	}

	var req dto.BroadcastDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.adminService.Broadcast(r.Context(), adminID, req.Title, req.Body); err != nil {
		http.Error(w, "Failed to broadcast: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
