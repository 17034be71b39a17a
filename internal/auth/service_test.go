package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-quote/internal/account"
	"github.com/noah-isme/backend-quote/internal/auth"
	"github.com/noah-isme/backend-quote/internal/common"
)

type stubUsers struct{}

func (stubUsers) GetUserByID(context.Context, string) (account.User, error) {
	return account.User{}, nil
}

func (stubUsers) UpsertUserByGoogleID(_ context.Context, u account.User) (account.User, error) {
	u.ID = "u-1"
	return u, nil
}

func (stubUsers) UpdateAccountDetails(context.Context, string, account.DetailBlock, account.DetailBlock) (account.User, error) {
	return account.User{}, nil
}

func newService(t *testing.T, ttl time.Duration) *auth.Service {
	t.Helper()
	svc, err := auth.NewService(auth.Config{
		Users:      stubUsers{},
		ClientID:   "client-id",
		Secret:     "test-secret-please-rotate",
		SessionTTL: ttl,
	})
	require.NoError(t, err)
	return svc
}

func TestSignAndParseSessionRoundTrip(t *testing.T) {
	svc := newService(t, time.Hour)

	token, expiresAt, err := svc.SignSession("u-42")
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	userID, err := svc.ParseSession(token)
	require.NoError(t, err)
	require.Equal(t, "u-42", userID)
}

func TestParseSessionRejectsForeignSignature(t *testing.T) {
	svc := newService(t, time.Hour)
	other, err := auth.NewService(auth.Config{
		Users:  stubUsers{},
		Secret: "a-different-secret",
	})
	require.NoError(t, err)

	token, _, err := other.SignSession("u-42")
	require.NoError(t, err)

	_, err = svc.ParseSession(token)
	require.Error(t, err)
}

func TestParseSessionRejectsBlankToken(t *testing.T) {
	svc := newService(t, time.Hour)
	_, err := svc.ParseSession("   ")
	require.Error(t, err)
}

func TestNewStateIsUnguessable(t *testing.T) {
	a, err := auth.NewState()
	require.NoError(t, err)
	b, err := auth.NewState()
	require.NoError(t, err)
	require.NotEqual(t, a, b)
	require.GreaterOrEqual(t, len(a), 32)
}

func TestRequireAuthAcceptsCookieSession(t *testing.T) {
	svc := newService(t, time.Hour)
	token, _, err := svc.SignSession("u-7")
	require.NoError(t, err)

	mw := auth.Middleware{Service: svc, SessionCookie: "quote_session"}

	var gotUserID string
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = common.UserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotes", nil)
	req.AddCookie(&http.Cookie{Name: "quote_session", Value: token})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Equal(t, "u-7", gotUserID)
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	svc := newService(t, time.Hour)
	mw := auth.Middleware{Service: svc, SessionCookie: "quote_session"}

	handler := mw.RequireAuth(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/quotes", nil))

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Contains(t, rr.Body.String(), "UNAUTHORIZED")
}

func TestAuthenticateIsSoft(t *testing.T) {
	svc := newService(t, time.Hour)
	mw := auth.Middleware{Service: svc, SessionCookie: "quote_session"}

	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := common.UserID(r.Context())
		require.False(t, ok)
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil))
	require.Equal(t, http.StatusOK, rr.Code)
}
