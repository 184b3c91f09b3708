package membership

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gymhub/internal/api"
	"gymhub/internal/auth"
	"gymhub/internal/goer"
	"gymhub/internal/gym"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := RegisterValidators(v); err != nil {
			panic(err)
		}
	}
}

type MockService struct {
	mock.Mock
}

func (m *MockService) Enroll(ctx context.Context, userID, gymID int, tier string, endDate time.Time) (*Membership, error) {
	args := m.Called(ctx, userID, gymID, tier, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Membership), args.Error(1)
}

func (m *MockService) ListMembersOfGym(ctx context.Context, gymID int) ([]MemberRecord, error) {
	args := m.Called(ctx, gymID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]MemberRecord), args.Error(1)
}

func (m *MockService) ListMembersOfOwnedGym(ctx context.Context, ownerID, gymID int) ([]MemberRecord, error) {
	args := m.Called(ctx, ownerID, gymID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]MemberRecord), args.Error(1)
}

func (m *MockService) ExpireOverdue(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockService) ListMine(ctx context.Context, userID int) ([]Membership, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Membership), args.Error(1)
}

func (m *MockService) Invoice(ctx context.Context, userID, membershipID int) (*Invoice, error) {
	args := m.Called(ctx, userID, membershipID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Invoice), args.Error(1)
}

func newTestRouter(svc Service, userID int, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		auth.SetIdentity(c, userID, role)
		c.Next()
	})
	r.POST("/gyms/:gymID/memberships", h.Enroll)
	r.GET("/memberships", h.ListMine)
	r.GET("/memberships/:membershipID/invoice", h.Invoice)
	r.GET("/owner/gyms/:gymID/members", h.ListMembersOfGym)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_Enroll(t *testing.T) {
	end := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	body := `{"tier":"Half Yearly","end_date":"2025-02-10T00:00:00Z"}`

	svc := new(MockService)
	svc.On("Enroll", mock.Anything, 70, 1, "Half Yearly", end).
		Return(&Membership{ID: 9, GoerID: 7, GymID: 1, Tier: TierHalfYearly, Status: StatusActive}, nil).Once()

	w := do(newTestRouter(svc, 70, auth.RoleGoer), http.MethodPost, "/gyms/1/memberships", body)
	assert.Equal(t, http.StatusCreated, w.Code)

	var got Membership
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 9, got.ID)
	assert.Equal(t, TierHalfYearly, got.Tier)
	svc.AssertExpectations(t)
}

func TestHandler_Enroll_Duplicate(t *testing.T) {
	svc := new(MockService)
	svc.On("Enroll", mock.Anything, 70, 1, "yearly", mock.Anything).
		Return(nil, &DuplicateActiveMembershipError{Tier: TierMonthly})

	w := do(newTestRouter(svc, 70, auth.RoleGoer), http.MethodPost, "/gyms/1/memberships",
		`{"tier":"yearly","end_date":"2026-01-10T00:00:00Z"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "monthly")
	assert.Equal(t, map[string]interface{}{"existing_tier": "monthly"}, resp.Details)
}

func TestHandler_Enroll_Errors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		body     string
		svcErr   error
		wantCode int
	}{
		{"bad gym id", "/gyms/abc/memberships", `{"tier":"monthly","end_date":"2025-02-10T00:00:00Z"}`, nil, http.StatusBadRequest},
		{"unknown tier", "/gyms/1/memberships", `{"tier":"weekly","end_date":"2025-02-10T00:00:00Z"}`, nil, http.StatusBadRequest},
		{"missing end date", "/gyms/1/memberships", `{"tier":"monthly"}`, nil, http.StatusBadRequest},
		{"not a goer", "/gyms/1/memberships", `{"tier":"monthly","end_date":"2025-02-10T00:00:00Z"}`, goer.ErrNotGoer, http.StatusNotFound},
		{"gym missing", "/gyms/1/memberships", `{"tier":"monthly","end_date":"2025-02-10T00:00:00Z"}`, gym.ErrGymNotFound, http.StatusNotFound},
		{"end before start", "/gyms/1/memberships", `{"tier":"monthly","end_date":"2020-02-10T00:00:00Z"}`, ErrValidation, http.StatusBadRequest},
		{"store down", "/gyms/1/memberships", `{"tier":"monthly","end_date":"2025-02-10T00:00:00Z"}`, assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			if tt.svcErr != nil {
				svc.On("Enroll", mock.Anything, 70, 1, mock.Anything, mock.Anything).Return(nil, tt.svcErr)
			}

			w := do(newTestRouter(svc, 70, auth.RoleGoer), http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.svcErr == nil {
				svc.AssertNotCalled(t, "Enroll", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestHandler_ListMine(t *testing.T) {
	svc := new(MockService)
	svc.On("ListMine", mock.Anything, 70).Return([]Membership{
		{ID: 1, Status: StatusExpired},
		{ID: 2, Status: StatusActive},
	}, nil)

	w := do(newTestRouter(svc, 70, auth.RoleGoer), http.MethodGet, "/memberships", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"expired"`)
	assert.Contains(t, w.Body.String(), `"status":"active"`)
}

func TestHandler_Invoice(t *testing.T) {
	svc := new(MockService)
	svc.On("Invoice", mock.Anything, 70, 4).Return(&Invoice{Number: "INV-000004", Amount: 1500, UserID: 70}, nil)
	svc.On("Invoice", mock.Anything, 70, 5).Return(nil, ErrMembershipNotFound)

	w := do(newTestRouter(svc, 70, auth.RoleGoer), http.MethodGet, "/memberships/4/invoice", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"number":"INV-000004"`)
	assert.NotContains(t, w.Body.String(), "user_id")

	w = do(newTestRouter(svc, 70, auth.RoleGoer), http.MethodGet, "/memberships/5/invoice", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_ListMembersOfGym(t *testing.T) {
	svc := new(MockService)
	svc.On("ListMembersOfOwnedGym", mock.Anything, 3, 1).Return([]MemberRecord{{Name: "Ana"}}, nil)
	svc.On("ListMembersOfOwnedGym", mock.Anything, 3, 2).Return(nil, gym.ErrGymNotFound)

	w := do(newTestRouter(svc, 3, auth.RoleOwner), http.MethodGet, "/owner/gyms/1/members", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Ana"`)

	w = do(newTestRouter(svc, 3, auth.RoleOwner), http.MethodGet, "/owner/gyms/2/members", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
