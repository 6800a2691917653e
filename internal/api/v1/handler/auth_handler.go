package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/model"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
)

type AuthHandler struct {
	userService service.UserService
	validate    *validator.Validate
}

func NewAuthHandler(userService service.UserService, v *validator.Validate) *AuthHandler {
	return &AuthHandler{userService: userService, validate: v}
}

// RegisterRoutes mounts the unauthenticated auth routes.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/auth/signup", h.signup)
	mux.HandleFunc("/auth/login", h.login)
}

func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.SignupRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	user, token, err := h.userService.Signup(r.Context(), service.SignupParams{
		Email:            req.Email,
		Password:         req.Password,
		University:       req.University,
		TotalMeals:       req.TotalMeals,
		ExpiresOn:        req.ExpiresOn,
		MealDistribution: req.MealDistribution,
		WeeklyMeals:      req.WeeklyMeals,
		Remember:         req.Remember,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailAlreadyRegistered):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, service.ErrInvalidDate):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "Failed to create account: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusCreated, dto.AuthResponseDTO{Token: token, User: userToDTO(user)})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	user, token, err := h.userService.Login(r.Context(), req.Email, req.Password, req.Remember)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		http.Error(w, "Login failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, dto.AuthResponseDTO{Token: token, User: userToDTO(user)})
}

func userToDTO(u *model.User) dto.UserResponseDTO {
	return dto.UserResponseDTO{
		ID:               u.ID,
		Email:            u.Email,
		University:       u.University,
		TotalMeals:       u.TotalMeals,
		ExpiresOn:        u.ExpiresOn.Format("2006-01-02"),
		MealDistribution: u.MealDistribution,
		WeeklyMeals:      u.WeeklyMeals,
		Role:             u.Role,
		CreatedAt:        u.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
