package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"app/internal/middleware"
	"app/internal/model"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
)

// stubListingService returns canned results so the handler's status mapping
// can be tested without a database.
type stubListingService struct {
	acceptErr error
	cancelErr error
}

func (s *stubListingService) CreateMeal(_ context.Context, p service.CreateMealParams) (*model.Listing, error) {
	return &model.Listing{ID: 1, Kind: model.KindMeal, SellerID: p.SellerID, Price: p.Price, Status: model.StatusActive}, nil
}

func (s *stubListingService) CreateItem(_ context.Context, p service.CreateItemParams) (*model.Listing, error) {
	return &model.Listing{ID: 1, Kind: model.KindItem, SellerID: p.SellerID, Price: p.Price, Status: model.StatusActive}, nil
}

func (s *stubListingService) List(context.Context, model.ListingKind) ([]model.Listing, error) {
	return nil, nil
}

func (s *stubListingService) Cancel(context.Context, model.ListingKind, int64, int64) error {
	return s.cancelErr
}

func (s *stubListingService) Accept(context.Context, model.ListingKind, int64, int64, string) (*service.AcceptOutcome, error) {
	if s.acceptErr != nil {
		return nil, s.acceptErr
	}
	return &service.AcceptOutcome{Transaction: model.Transaction{ID: 7}, ThreadID: 3}, nil
}

func (s *stubListingService) PresignItemImage(context.Context, int64, string) (string, string, error) {
	return "", "", service.ErrUploadsDisabled
}

func serveAs(h http.Handler, userID int64, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	ctx := context.WithValue(req.Context(), middleware.UserContextKey, userID)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req.WithContext(ctx))
	return rr
}

func newListingMux(stub *stubListingService) *http.ServeMux {
	h := NewListingHandler(stub, validator.New(validator.WithRequiredStructEnabled()))
	mux := http.NewServeMux()
	passthrough := func(next http.Handler) http.Handler { return next }
	h.RegisterRoutes(mux, passthrough)
	return mux
}

func TestAcceptStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"success", nil, http.StatusOK},
		{"unavailable", service.ErrListingUnavailable, http.StatusBadRequest},
		{"own listing", service.ErrOwnListing, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := newListingMux(&stubListingService{acceptErr: tt.err})
			rr := serveAs(mux, 2, http.MethodPost, "/offers/meals/5/accept", `{"message":"hi"}`)
			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
		})
	}
}

func TestAcceptReturnsTransactionAndThread(t *testing.T) {
	mux := newListingMux(&stubListingService{})
	rr := serveAs(mux, 2, http.MethodPost, "/offers/items/5/accept", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var resp struct {
		TransactionID int64 `json:"transaction_id"`
		ThreadID      int64 `json:"thread_id"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TransactionID != 7 || resp.ThreadID != 3 {
		t.Errorf("resp = %+v, want transaction 7 and thread 3", resp)
	}
}

func TestCancelStatusMapping(t *testing.T) {
	mux := newListingMux(&stubListingService{cancelErr: service.ErrListingNotFound})
	rr := serveAs(mux, 1, http.MethodDelete, "/offers/meals/5", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}

	mux = newListingMux(&stubListingService{})
	rr = serveAs(mux, 1, http.MethodDelete, "/offers/meals/5", "")
	if rr.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rr.Code)
	}
}

func TestCreateMealValidation(t *testing.T) {
	mux := newListingMux(&stubListingService{})

	// Missing required fields.
	rr := serveAs(mux, 1, http.MethodPost, "/offers/meals", `{"price":5}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}

	rr = serveAs(mux, 1, http.MethodPost, "/offers/meals", `{"meals":2,"price":5,"location":"north","meal_type":"dinner"}`)
	if rr.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rr.Code)
	}
}

func TestUnknownListingAction(t *testing.T) {
	mux := newListingMux(&stubListingService{})
	rr := serveAs(mux, 1, http.MethodPost, "/offers/meals/5/boost", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}
