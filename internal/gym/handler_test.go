package gym

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"gymhub/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) CreateGym(ctx context.Context, ownerID int, req CreateGymRequest) (*Gym, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Gym), args.Error(1)
}

func (m *MockService) GetGymByID(ctx context.Context, id int) (*Gym, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Gym), args.Error(1)
}

func (m *MockService) SearchGyms(ctx context.Context, query, facility string) ([]Gym, error) {
	args := m.Called(ctx, query, facility)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Gym), args.Error(1)
}

func (m *MockService) ListOwnerGyms(ctx context.Context, ownerID int) ([]Gym, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Gym), args.Error(1)
}

func (m *MockService) RateGym(ctx context.Context, gymID, userID int, req RateGymRequest) (*Rating, error) {
	args := m.Called(ctx, gymID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Rating), args.Error(1)
}

func newTestRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		auth.SetIdentity(c, 3, auth.RoleOwner)
		c.Next()
	})
	r.POST("/owner/gyms", h.CreateGym)
	r.GET("/owner/gyms", h.ListOwnerGyms)
	r.GET("/gyms", h.SearchGyms)
	r.GET("/gyms/:gymID", h.GetGym)
	r.POST("/gyms/:gymID/ratings", h.RateGym)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_CreateGym(t *testing.T) {
	body := `{"name":"Iron","address":"1 Main St","facilities":["cardio"],"prices":{"monthly":1000}}`

	svc := new(MockService)
	svc.On("CreateGym", mock.Anything, 3, mock.Anything).Return(&Gym{ID: 1, Name: "Iron"}, nil).Once()
	w := do(newTestRouter(svc), http.MethodPost, "/owner/gyms", body)
	assert.Equal(t, http.StatusCreated, w.Code)

	svc.On("CreateGym", mock.Anything, 3, mock.Anything).Return(nil, ErrDuplicateGymName).Once()
	w = do(newTestRouter(svc), http.MethodPost, "/owner/gyms", body)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(newTestRouter(svc), http.MethodPost, "/owner/gyms", `{"name": "invalid}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_GetGym(t *testing.T) {
	svc := new(MockService)
	svc.On("GetGymByID", mock.Anything, 42).Return(nil, ErrGymNotFound)

	w := do(newTestRouter(svc), http.MethodGet, "/gyms/42", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(newTestRouter(svc), http.MethodGet, "/gyms/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_SearchGyms(t *testing.T) {
	svc := new(MockService)
	svc.On("SearchGyms", mock.Anything, "iron", "pool").Return([]Gym{{ID: 1, Name: "Iron"}}, nil)

	w := do(newTestRouter(svc), http.MethodGet, "/gyms?q=iron&facility=pool", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Iron"`)
}

func TestHandler_RateGym(t *testing.T) {
	svc := new(MockService)
	svc.On("RateGym", mock.Anything, 1, 3, RateGymRequest{Score: 4}).Return(nil, ErrDuplicateRating)

	w := do(newTestRouter(svc), http.MethodPost, "/gyms/1/ratings", `{"score":4}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(newTestRouter(svc), http.MethodPost, "/gyms/1/ratings", `{"score":9}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
