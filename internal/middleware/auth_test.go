package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/fitpulse/internal/auth"
	"github.com/2beens/fitpulse/internal/middleware"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestAuthMiddlewareHandler_AuthCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSessions := NewMocksessionResolver(ctrl)
	authMiddleware := middleware.NewAuthMiddlewareHandler(mockSessions)

	testCases := []struct {
		name               string
		path               string
		method             string
		token              string
		expectedStatusCode int
		expectedUserID     int
		mockUserID         int
		mockErr            error
		expectResolve      bool
	}{
		{
			name:               "AllowedPathWithoutToken",
			path:               "/login",
			method:             "POST",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "AllowedPrefixWithoutToken",
			path:               "/catalog/exercises/Legs",
			method:             "GET",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "Options",
			path:               "/stats",
			method:             "OPTIONS",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "NotAllowedPathWithoutToken",
			path:               "/stats",
			method:             "GET",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "ValidToken",
			path:               "/stats",
			method:             "GET",
			token:              "valid-token",
			expectResolve:      true,
			mockUserID:         7,
			expectedStatusCode: http.StatusOK,
			expectedUserID:     7,
		},
		{
			name:               "UnknownToken",
			path:               "/meals/today",
			method:             "GET",
			token:              "invalid-token",
			expectResolve:      true,
			mockErr:            auth.ErrSessionNotFound,
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "ResolverFailure",
			path:               "/profile",
			method:             "GET",
			token:              "some-token",
			expectResolve:      true,
			mockErr:            errors.New("redis down"),
			expectedStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.token != "" {
				req.Header.Add(middleware.TokenHeader, tc.token)
			}

			if tc.expectResolve {
				mockSessions.EXPECT().
					UserID(gomock.Any(), tc.token).
					Return(tc.mockUserID, tc.mockErr)
			}

			var gotUserID int
			var called bool
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				gotUserID, _ = middleware.UserIDFromContext(r.Context())
			})

			rr := httptest.NewRecorder()
			authMiddleware.AuthCheck()(handler).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatusCode, rr.Code)
			assert.Equal(t, tc.expectedUserID, gotUserID)
			if tc.expectedStatusCode == http.StatusUnauthorized {
				assert.False(t, called)
			}
		})
	}
}

func TestUserIDFromContext(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	_, ok := middleware.UserIDFromContext(req.Context())
	assert.False(t, ok)

	ctx := middleware.ContextWithUserID(req.Context(), 12)
	userID, ok := middleware.UserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, 12, userID)
}
