package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/campusfest/eventhub-api/internal/api/middleware"
	"github.com/campusfest/eventhub-api/internal/domain"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Signup(ctx context.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(domain.User), args.Error(1)
}

type mockBookingService struct {
	mock.Mock
}

func (m *mockBookingService) Register(ctx context.Context, booking domain.Booking) (domain.Booking, error) {
	args := m.Called(ctx, booking)
	return args.Get(0).(domain.Booking), args.Error(1)
}

func (m *mockBookingService) ListParticipants(ctx context.Context, eventID uint) (domain.EventParticipants, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(domain.EventParticipants), args.Error(1)
}

type mockEventService struct {
	mock.Mock
}

func (m *mockEventService) ListEvents(ctx context.Context) ([]domain.EventWithCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.EventWithCount), args.Error(1)
}

func (m *mockEventService) GetEvent(ctx context.Context, id uint) (domain.EventWithCount, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.EventWithCount), args.Error(1)
}

func (m *mockEventService) CreateEvent(ctx context.Context, event domain.Event, image *domain.ImageUpload) (domain.Event, error) {
	args := m.Called(ctx, event, image)
	return args.Get(0).(domain.Event), args.Error(1)
}

func (m *mockEventService) UpdateEvent(ctx context.Context, id uint, event domain.Event, image *domain.ImageUpload) (domain.Event, error) {
	args := m.Called(ctx, id, event, image)
	return args.Get(0).(domain.Event), args.Error(1)
}

func (m *mockEventService) DeleteEvent(ctx context.Context, id uint) (domain.Event, int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Event), args.Get(1).(int64), args.Error(2)
}

var testAdmin = domain.User{ID: 1, Email: "admin@college.edu", Role: domain.RoleAdmin}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// asAdmin stands in for the JWT middleware.
func asAdmin(ctx *gin.Context) {
	ctx.Set(middleware.ContextUserKey, testAdmin)
	ctx.Next()
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}
