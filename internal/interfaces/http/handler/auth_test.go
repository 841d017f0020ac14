package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/nantech/inventory/internal/domain/identity"
	"github.com/nantech/inventory/internal/interfaces/http/dto"
	"github.com/nantech/inventory/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_Login(t *testing.T) {
	env := newHandlerEnv(t)
	id := env.createUser(t, "alice", "s3cret", identity.RoleValidator)

	w := env.do(t, testutil.Request{
		Method: http.MethodPost,
		Path:   "/api/auth/login",
		Body:   LoginRequest{Username: "alice", Password: "s3cret"},
	})

	testutil.AssertSuccess(t, w, http.StatusOK)
	data := testutil.DecodeData[UserData](t, w)
	assert.Equal(t, id, data.User.ID)
	assert.Equal(t, "alice", data.User.Username)
	assert.Equal(t, "validator", data.User.Role)
	assert.NotContains(t, w.Body.String(), "password")

	cookie := testutil.FindCookie(w, env.cookie.Name)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)

	session, err := env.authService.Authenticate(context.Background(), cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, id, session.SubjectID)
}

func TestAuthHandler_Login_Rejections(t *testing.T) {
	env := newHandlerEnv(t)
	env.createUser(t, "alice", "s3cret", identity.RoleUser)

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"wrong password", LoginRequest{Username: "alice", Password: "nope"}, http.StatusUnauthorized, dto.ErrCodeInvalidCredentials},
		{"unknown user", LoginRequest{Username: "mallory", Password: "s3cret"}, http.StatusUnauthorized, dto.ErrCodeInvalidCredentials},
		{"blank username", LoginRequest{Username: "   ", Password: "s3cret"}, http.StatusBadRequest, dto.ErrCodeValidation},
		{"missing password", map[string]string{"username": "alice"}, http.StatusBadRequest, dto.ErrCodeValidation},
		{"malformed body", `{"username":`, http.StatusBadRequest, dto.ErrCodeInvalidJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, testutil.Request{Method: http.MethodPost, Path: "/api/auth/login", Body: tt.body})

			testutil.AssertError(t, w, tt.status, tt.code)
			assert.Nil(t, testutil.FindCookie(w, env.cookie.Name))
		})
	}
}

func TestAuthHandler_Login_SameMessageForUnknownUserAndWrongPassword(t *testing.T) {
	env := newHandlerEnv(t)
	env.createUser(t, "alice", "s3cret", identity.RoleUser)

	wrong := env.do(t, testutil.Request{Method: http.MethodPost, Path: "/api/auth/login",
		Body: LoginRequest{Username: "alice", Password: "nope"}})
	unknown := env.do(t, testutil.Request{Method: http.MethodPost, Path: "/api/auth/login",
		Body: LoginRequest{Username: "bob", Password: "nope"}})

	assert.Equal(t,
		testutil.DecodeEnvelope(t, wrong).Error.Message,
		testutil.DecodeEnvelope(t, unknown).Error.Message)
}

func TestAuthHandler_Logout(t *testing.T) {
	env := newHandlerEnv(t)
	env.createUser(t, "alice", "s3cret", identity.RoleAdmin)
	cookie := env.login(t, "alice", "s3cret")

	w := env.do(t, testutil.Request{Method: http.MethodPost, Path: "/api/auth/logout", Cookies: []*http.Cookie{cookie}})

	testutil.AssertSuccess(t, w, http.StatusOK)
	data := testutil.DecodeData[dto.MessageData](t, w)
	assert.Equal(t, "Logged out successfully", data.Message)

	cleared := testutil.FindCookie(w, env.cookie.Name)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)

	revoked, err := env.revocations.IsRevoked(context.Background(), cookie.Value)
	require.NoError(t, err)
	assert.True(t, revoked)

	me := env.do(t, testutil.Request{Path: "/api/auth/me", Cookies: []*http.Cookie{cookie}})
	testutil.AssertError(t, me, http.StatusUnauthorized, dto.ErrCodeUnauthorized)
}

func TestAuthHandler_Logout_WithoutSession(t *testing.T) {
	env := newHandlerEnv(t)

	w := env.do(t, testutil.Request{Method: http.MethodPost, Path: "/api/auth/logout"})

	testutil.AssertSuccess(t, w, http.StatusOK)
	assert.NotNil(t, testutil.FindCookie(w, env.cookie.Name))
}

func TestAuthHandler_Logout_GarbageCookieNotStored(t *testing.T) {
	env := newHandlerEnv(t)

	for _, value := range []string{"not-a-token-1", "not-a-token-2", "garbage"} {
		w := env.do(t, testutil.Request{
			Method:  http.MethodPost,
			Path:    "/api/auth/logout",
			Cookies: []*http.Cookie{{Name: env.cookie.Name, Value: value}},
		})
		testutil.AssertSuccess(t, w, http.StatusOK)
	}

	assert.Zero(t, env.revocations.Len())
}

func TestAuthHandler_Me(t *testing.T) {
	env := newHandlerEnv(t)
	id := env.createUser(t, "vera", "pw", identity.RoleValidator)
	cookie := env.login(t, "vera", "pw")

	w := env.do(t, testutil.Request{Path: "/api/auth/me", Cookies: []*http.Cookie{cookie}})

	testutil.AssertSuccess(t, w, http.StatusOK)
	data := testutil.DecodeData[UserData](t, w)
	assert.Equal(t, id, data.User.ID)
	assert.Equal(t, "validator", data.User.Role)
	assert.Nil(t, data.User.DivisionID)
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	env := newHandlerEnv(t)

	w := env.do(t, testutil.Request{Path: "/api/auth/me"})

	testutil.AssertError(t, w, http.StatusUnauthorized, dto.ErrCodeUnauthorized)
}

func TestAuthHandler_Me_WithoutGuard(t *testing.T) {
	env := newHandlerEnv(t)
	h := NewAuthHandler(env.authService, env.cookie)

	tc := testutil.NewTestContext(t)
	h.Me(tc.Context)

	assert.Equal(t, http.StatusUnauthorized, tc.ResponseCode())
}

func TestAuthHandler_Me_DeletedUser(t *testing.T) {
	env := newHandlerEnv(t)
	h := NewAuthHandler(env.authService, env.cookie)

	tc := testutil.NewTestContext(t)
	tc.SetSession(identity.Session{SubjectID: 999, Username: "ghost", Role: identity.RoleUser})
	h.Me(tc.Context)

	assert.Equal(t, http.StatusUnauthorized, tc.ResponseCode())
}
