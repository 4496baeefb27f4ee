package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vallemarketing/valle360-social/domain/model"
	httpHandler "github.com/vallemarketing/valle360-social/interfaces/http"
	"github.com/vallemarketing/valle360-social/usecase"
)

const returnURL = "https://app.example.com/settings/integrations"

type MockConnectUsecase struct {
	mock.Mock
}

func (m *MockConnectUsecase) AuthURL(tenantID string, platform model.Platform) (string, error) {
	args := m.Called(tenantID, platform)
	return args.String(0), args.Error(1)
}

func (m *MockConnectUsecase) HandleCallback(ctx context.Context, rawState, code string) (*usecase.CallbackResult, error) {
	args := m.Called(ctx, rawState, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CallbackResult), args.Error(1)
}

func newCallbackRouter(uc usecase.IConnectUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := httpHandler.NewOAuthHandler(uc, returnURL)
	router.GET("/auth/:platform/callback", handler.Callback)
	return router
}

func TestCallbackSuccessRedirect(t *testing.T) {
	uc := new(MockConnectUsecase)
	uc.On("HandleCallback", mock.Anything, "signed-state", "code-1").
		Return(&usecase.CallbackResult{TenantID: "tenant-1", Platform: model.PlatformFacebook}, nil)

	router := newCallbackRouter(uc)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/facebook/callback?state=signed-state&code=code-1", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, returnURL+"?success=facebook_connected", w.Header().Get("Location"))
}

func TestCallbackUserDenialRedirectsWithoutTouchingUsecase(t *testing.T) {
	uc := new(MockConnectUsecase)
	router := newCallbackRouter(uc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/facebook/callback?error=access_denied&error_description=user+cancelled", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, returnURL+"?error=access_denied", w.Header().Get("Location"))
	uc.AssertNotCalled(t, "HandleCallback", mock.Anything, mock.Anything, mock.Anything)
}

func TestCallbackStateErrorsMapToBoundedCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"expired", model.ErrStateExpired, "state_expired"},
		{"replayed", model.ErrStateReplayed, "state_replayed"},
		{"invalid", model.ErrStateInvalid, "invalid_state"},
		{"exchange failure", &model.AuthExchangeError{Platform: model.PlatformFacebook, Step: "exchange_code", Err: assert.AnError}, "exchange_failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(MockConnectUsecase)
			uc.On("HandleCallback", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)
			router := newCallbackRouter(uc)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/auth/facebook/callback?state=x&code=y", nil)
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, returnURL+"?error="+tt.code, w.Header().Get("Location"))
		})
	}
}

func TestCallbackMissingCode(t *testing.T) {
	uc := new(MockConnectUsecase)
	router := newCallbackRouter(uc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/facebook/callback?state=x", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, returnURL+"?error=invalid_callback", w.Header().Get("Location"))
	uc.AssertNotCalled(t, "HandleCallback", mock.Anything, mock.Anything, mock.Anything)
}
