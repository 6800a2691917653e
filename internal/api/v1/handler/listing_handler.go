package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
)

// ListingHandler serves both listing kinds. The meal and item surfaces share
// one lifecycle, so the routes differ only in their prefix.
type ListingHandler struct {
	listingService service.ListingService
	validate       *validator.Validate
}

func NewListingHandler(listingService service.ListingService, v *validator.Validate) *ListingHandler {
	return &ListingHandler{listingService: listingService, validate: v}
}

// RegisterRoutes mounts the marketplace routes.
func (h *ListingHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/offers/meals", authMw(http.HandlerFunc(h.handleMeals)))
	mux.Handle("/offers/meals/", authMw(http.HandlerFunc(h.handleMealActions)))
	mux.Handle("/offers/items", authMw(http.HandlerFunc(h.handleItems)))
	mux.Handle("/offers/items/", authMw(http.HandlerFunc(h.handleItemActions)))
	mux.Handle("/offers/items/upload-url", authMw(http.HandlerFunc(h.uploadURL)))
}

func (h *ListingHandler) handleMeals(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r, model.KindMeal)
	case http.MethodPost:
		h.createMeal(w, r)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ListingHandler) handleItems(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r, model.KindItem)
	case http.MethodPost:
		h.createItem(w, r)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ListingHandler) handleMealActions(w http.ResponseWriter, r *http.Request) {
	h.dispatchAction(w, r, model.KindMeal, "/offers/meals/")
}

func (h *ListingHandler) handleItemActions(w http.ResponseWriter, r *http.Request) {
	h.dispatchAction(w, r, model.KindItem, "/offers/items/")
}

// dispatchAction routes POST {prefix}{id}/accept and DELETE {prefix}{id}.
func (h *ListingHandler) dispatchAction(w http.ResponseWriter, r *http.Request, kind model.ListingKind, prefix string) {
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	parts := strings.Split(rest, "/")
	listingID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		http.Error(w, "Invalid listing ID", http.StatusBadRequest)
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodDelete:
		h.cancel(w, r, kind, listingID)
	case len(parts) == 2 && parts[1] == "accept" && r.Method == http.MethodPost:
		h.accept(w, r, kind, listingID)
	default:
		http.NotFound(w, r)
	}
}

func (h *ListingHandler) createMeal(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: user ID not found in context", http.StatusUnauthorized)
		return
	}

	var req dto.MealCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	l, err := h.listingService.CreateMeal(r.Context(), service.CreateMealParams{
		SellerID: userID,
		Meals:    req.Meals,
		Price:    req.Price,
		Location: req.Location,
		MealType: req.MealType,
	})
	if err != nil {
		http.Error(w, "Failed to create listing: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, listingToDTO(l))
}

func (h *ListingHandler) createItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: user ID not found in context", http.StatusUnauthorized)
		return
	}

	var req dto.ItemCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	l, err := h.listingService.CreateItem(r.Context(), service.CreateItemParams{
		SellerID: userID,
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Baseline: req.Baseline,
		ImgURL:   req.ImgURL,
	})
	if err != nil {
		http.Error(w, "Failed to create listing: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, listingToDTO(l))
}

func (h *ListingHandler) list(w http.ResponseWriter, r *http.Request, kind model.ListingKind) {
	listings, err := h.listingService.List(r.Context(), kind)
	if err != nil {
		http.Error(w, "Failed to list: "+err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]dto.ListingResponseDTO, 0, len(listings))
	for i := range listings {
		resp = append(resp, listingToDTO(&listings[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ListingHandler) accept(w http.ResponseWriter, r *http.Request, kind model.ListingKind, listingID int64) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: user ID not found in context", http.StatusUnauthorized)
		return
	}

	// The body is optional; an absent or empty message gets the default.
	var req dto.AcceptRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}

	outcome, err := h.listingService.Accept(r.Context(), kind, listingID, userID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrListingUnavailable), errors.Is(err, service.ErrOwnListing):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "Failed to accept listing: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, dto.AcceptResponseDTO{
		TransactionID: outcome.Transaction.ID,
		ThreadID:      outcome.ThreadID,
	})
}

func (h *ListingHandler) cancel(w http.ResponseWriter, r *http.Request, kind model.ListingKind, listingID int64) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: user ID not found in context", http.StatusUnauthorized)
		return
	}

	if err := h.listingService.Cancel(r.Context(), kind, listingID, userID); err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to cancel listing: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ListingHandler) uploadURL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: user ID not found in context", http.StatusUnauthorized)
		return
	}

	var req dto.UploadURLRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	uploadURL, imgURL, err := h.listingService.PresignItemImage(r.Context(), userID, req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrUploadsDisabled) {
			http.Error(w, err.Error(), http.StatusNotImplemented)
			return
		}
		http.Error(w, "Failed to presign upload: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dto.UploadURLResponseDTO{UploadURL: uploadURL, ImgURL: imgURL})
}

func listingToDTO(l *model.Listing) dto.ListingResponseDTO {
	d := dto.ListingResponseDTO{
		ID:           l.ID,
		Kind:         string(l.Kind),
		Seller:       l.SellerEmail,
		Price:        l.Price,
		Status:       string(l.Status),
		CreatedAt:    l.CreatedAt,
		AcceptedByID: l.AcceptedByID,
	}
	switch {
	case l.Meal != nil:
		d.Meals = l.Meal.Meals
		d.Location = l.Meal.Location
		d.MealType = l.Meal.MealType
	case l.Item != nil:
		d.Name = l.Item.Name
		d.Category = l.Item.Category
		d.ImgURL = l.Item.ImgURL
		d.Baseline = l.Item.Baseline
		d.DiscountPct = l.DiscountPct()
	}
	return d
}
