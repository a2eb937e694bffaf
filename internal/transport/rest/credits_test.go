package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/wordweave/backend/internal/domain"
	"github.com/wordweave/backend/pkg/ctxutil"
)

type creditServiceMock struct {
	AccountFunc func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

func (m *creditServiceMock) Account(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.AccountFunc == nil {
		return nil, domain.ErrNotFound
	}
	return m.AccountFunc(ctx, userID)
}

func TestCreditsGet_Success(t *testing.T) {
	userID := uuid.New()
	svc := &creditServiceMock{
		AccountFunc: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			if id != userID {
				t.Errorf("expected userID %s, got %s", userID, id)
			}
			return &domain.User{
				ID:                 userID,
				Credits:            42,
				SubscriptionPlan:   domain.PlanFree,
				SubscriptionStatus: domain.SubscriptionActive,
			}, nil
		},
	}
	h := NewCreditsHandler(svc, testHandlerLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/credits", nil)
	req = req.WithContext(ctxutil.WithUserID(req.Context(), userID))
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp creditsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Credits != 42 {
		t.Errorf("expected 42 credits, got %d", resp.Credits)
	}
	if resp.Unlimited {
		t.Error("expected unlimited=false for FREE plan")
	}
}

func TestCreditsGet_UnlimitedPlan(t *testing.T) {
	userID := uuid.New()
	svc := &creditServiceMock{
		AccountFunc: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return &domain.User{
				ID:                 userID,
				Credits:            0,
				SubscriptionPlan:   domain.PlanUnlimited,
				SubscriptionStatus: domain.SubscriptionActive,
			}, nil
		},
	}
	h := NewCreditsHandler(svc, testHandlerLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/credits", nil)
	req = req.WithContext(ctxutil.WithUserID(req.Context(), userID))
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp creditsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Unlimited {
		t.Error("expected unlimited=true for active UNLIMITED plan")
	}
}

func TestCreditsGet_Unauthenticated401(t *testing.T) {
	h := NewCreditsHandler(&creditServiceMock{}, testHandlerLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/credits", nil)
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}
