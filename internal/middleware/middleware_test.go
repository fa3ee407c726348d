package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bloodlink/internal/model"
	"bloodlink/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newContext(auth string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func requireStatus(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he))
	require.Equal(t, code, he.Code)
}

func TestExtractClaims(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")

	// missing header
	ctx, _ := newContext("")
	_, err := extractClaims(ctx)
	requireStatus(t, err, http.StatusUnauthorized)

	// bad format
	ctx, _ = newContext("BadHeader")
	_, err = extractClaims(ctx)
	requireStatus(t, err, http.StatusUnauthorized)

	// invalid token
	ctx, _ = newContext("Bearer invalid")
	_, err = extractClaims(ctx)
	requireStatus(t, err, http.StatusUnauthorized)

	// token without subject
	tok, err := service.IssueAccessToken(model.User{Role: model.RoleUser}, time.Minute)
	require.NoError(t, err)
	ctx, _ = newContext("Bearer " + tok)
	_, err = extractClaims(ctx)
	requireStatus(t, err, http.StatusUnauthorized)

	// valid token
	tok, err = service.IssueAccessToken(model.User{ID: "admin-1", Role: model.RoleSuperAdmin}, time.Minute)
	require.NoError(t, err)
	ctx, _ = newContext("bearer " + tok)
	claims, err := extractClaims(ctx)
	require.NoError(t, err)
	require.Equal(t, "admin-1", claims.UserID)
	require.True(t, claims.IsAdmin())
}

func TestExtractClaimsVerifyError(t *testing.T) {
	t.Cleanup(func() { verifyAccessToken = service.VerifyAccessToken })
	verifyAccessToken = func(string) (*service.CustomClaims, error) { return nil, errors.New("expired") }

	ctx, _ := newContext("Bearer x")
	_, err := extractClaims(ctx)
	requireStatus(t, err, http.StatusUnauthorized)
	require.Contains(t, err.Error(), "expired")
}

func TestClaims(t *testing.T) {
	ctx, _ := newContext("")
	_, ok := Claims(ctx)
	require.False(t, ok)

	ctx.Set(ContextUserKey, &service.CustomClaims{})
	_, ok = Claims(ctx)
	require.False(t, ok)

	ctx.Set(ContextUserKey, &service.CustomClaims{UserID: "u"})
	cl, ok := Claims(ctx)
	require.True(t, ok)
	require.Equal(t, "u", cl.UserID)
}

func TestRequireAuth(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	tok, err := service.IssueAccessToken(model.User{ID: "user-1", Role: model.RoleUser}, time.Minute)
	require.NoError(t, err)

	// success path
	ctx, rec := newContext("Bearer " + tok)
	called := false
	handler := RequireAuth(func(c echo.Context) error {
		called = true
		cl, ok := Claims(c)
		require.True(t, ok)
		require.Equal(t, "user-1", cl.UserID)
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, handler(ctx))
	require.True(t, called)
	require.Equal(t, http.StatusOK, rec.Code)

	// missing token
	ctx, _ = newContext("")
	called = false
	err = RequireAuth(func(echo.Context) error { called = true; return nil })(ctx)
	require.Error(t, err)
	require.False(t, called)
}

func TestRequireAdmin(t *testing.T) {
	t.Setenv("JWT_SECRET", "adminsecret")
	superTok, err := service.IssueAccessToken(model.User{ID: "s", Role: model.RoleSuperAdmin}, time.Minute)
	require.NoError(t, err)
	adminTok, err := service.IssueAccessToken(model.User{ID: "a", Role: model.RoleAdmin}, time.Minute)
	require.NoError(t, err)
	editorTok, err := service.IssueAccessToken(model.User{ID: "e", Role: model.RoleEditor}, time.Minute)
	require.NoError(t, err)
	userTok, err := service.IssueAccessToken(model.User{ID: "u", Role: model.RoleUser}, time.Minute)
	require.NoError(t, err)

	for _, tok := range []string{superTok, adminTok} {
		ctx, rec := newContext("Bearer " + tok)
		called := false
		err = RequireAdmin(func(c echo.Context) error { called = true; return c.String(http.StatusOK, "admin") })(ctx)
		require.NoError(t, err)
		require.True(t, called)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	// non-admin should fail
	for _, tok := range []string{editorTok, userTok} {
		ctx, _ := newContext("Bearer " + tok)
		called := false
		err = RequireAdmin(func(c echo.Context) error { called = true; return nil })(ctx)
		requireStatus(t, err, http.StatusForbidden)
		require.False(t, called)
	}
}
