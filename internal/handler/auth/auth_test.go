package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bloodlink/internal/backend"
	"bloodlink/internal/middleware"
	"bloodlink/internal/model"
	"bloodlink/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type stubValidator struct{ err error }

func (s *stubValidator) Validate(i interface{}) error { return s.err }

type fakeBackend struct {
	LoginFn    func(ctx context.Context, email, password string) (model.User, error)
	RegisterFn func(ctx context.Context, in backend.RegisterInput) (model.User, error)
	LogoutFn   func(ctx context.Context, userID string) error
}

func (f *fakeBackend) Login(ctx context.Context, email, password string) (model.User, error) {
	return f.LoginFn(ctx, email, password)
}

func (f *fakeBackend) Register(ctx context.Context, in backend.RegisterInput) (model.User, error) {
	return f.RegisterFn(ctx, in)
}

func (f *fakeBackend) Logout(ctx context.Context, userID string) error {
	return f.LogoutFn(ctx, userID)
}

func newJSONCtx(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func restore() {
	issueAccessToken = service.IssueAccessToken
	timeNow = time.Now
}

func TestLoginHandler(t *testing.T) {
	e := echo.New()
	body := `{"email":"User@BloodLink.com","password":"user123"}`

	t.Run("bind error", func(t *testing.T) {
		e.Validator = &stubValidator{}
		ctx, rec := newJSONCtx(e, "{")
		require.NoError(t, LoginHandler(&fakeBackend{})(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validate error", func(t *testing.T) {
		e.Validator = &stubValidator{err: errors.New("v")}
		ctx, rec := newJSONCtx(e, body)
		require.NoError(t, LoginHandler(&fakeBackend{})(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		e.Validator = &stubValidator{}
		b := &fakeBackend{LoginFn: func(context.Context, string, string) (model.User, error) {
			return model.User{}, backend.ErrInvalidCredentials
		}}
		ctx, rec := newJSONCtx(e, body)
		require.NoError(t, LoginHandler(b)(ctx))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid email or password")
	})

	t.Run("issue token error", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		issueAccessToken = func(model.User, time.Duration) (string, error) { return "", errors.New("no secret") }
		b := &fakeBackend{LoginFn: func(context.Context, string, string) (model.User, error) {
			return model.User{ID: "user-1"}, nil
		}}
		ctx, rec := newJSONCtx(e, body)
		require.NoError(t, LoginHandler(b)(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s")
		e.Validator = &stubValidator{}
		var gotEmail string
		b := &fakeBackend{LoginFn: func(_ context.Context, email, _ string) (model.User, error) {
			gotEmail = email
			return model.User{ID: "user-1", Role: model.RoleUser, Email: email}, nil
		}}
		ctx, rec := newJSONCtx(e, body)
		require.NoError(t, LoginHandler(b)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "user@bloodlink.com", gotEmail)
		require.Contains(t, rec.Body.String(), "access_token")
		require.NotContains(t, rec.Body.String(), "password")
	})
}

func TestRegisterHandler(t *testing.T) {
	e := echo.New()
	body := `{"name":" Karim ","email":"Karim@B.com","password":"secret1","bloodGroup":"B+","location":"Sylhet","phone":"019"}`

	t.Run("bind error", func(t *testing.T) {
		e.Validator = &stubValidator{}
		ctx, rec := newJSONCtx(e, "{")
		require.NoError(t, RegisterHandler(&fakeBackend{})(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid request body")
	})

	t.Run("validate error", func(t *testing.T) {
		e.Validator = &stubValidator{err: errors.New("v")}
		ctx, rec := newJSONCtx(e, body)
		require.NoError(t, RegisterHandler(&fakeBackend{})(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("email exists", func(t *testing.T) {
		e.Validator = &stubValidator{}
		b := &fakeBackend{RegisterFn: func(context.Context, backend.RegisterInput) (model.User, error) {
			return model.User{}, backend.ErrEmailExists
		}}
		ctx, rec := newJSONCtx(e, body)
		require.NoError(t, RegisterHandler(b)(ctx))
		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		issueAccessToken = func(u model.User, ttl time.Duration) (string, error) {
			require.Equal(t, TokenTTL, ttl)
			return "tok-" + u.ID, nil
		}
		var got backend.RegisterInput
		b := &fakeBackend{RegisterFn: func(_ context.Context, in backend.RegisterInput) (model.User, error) {
			got = in
			return model.User{ID: "new", Email: in.Email, Role: in.Role}, nil
		}}
		ctx, rec := newJSONCtx(e, body)
		require.NoError(t, RegisterHandler(b)(ctx))
		require.Equal(t, http.StatusCreated, rec.Code)
		require.Equal(t, "Karim", got.Name)
		require.Equal(t, "karim@b.com", got.Email)
		require.Equal(t, model.RoleUser, got.Role)
		require.Contains(t, rec.Body.String(), "tok-new")
	})
}

func TestLogoutHandler(t *testing.T) {
	e := echo.New()

	t.Run("no claims", func(t *testing.T) {
		ctx, rec := newJSONCtx(e, "")
		require.NoError(t, LogoutHandler(&fakeBackend{})(ctx))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("backend error", func(t *testing.T) {
		ctx, rec := newJSONCtx(e, "")
		ctx.Set(middleware.ContextUserKey, &service.CustomClaims{UserID: "user-1"})
		b := &fakeBackend{LogoutFn: func(context.Context, string) error { return errors.New("store down") }}
		require.NoError(t, LogoutHandler(b)(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		ctx, rec := newJSONCtx(e, "")
		ctx.Set(middleware.ContextUserKey, &service.CustomClaims{UserID: "user-1"})
		var got string
		b := &fakeBackend{LogoutFn: func(_ context.Context, id string) error { got = id; return nil }}
		require.NoError(t, LogoutHandler(b)(ctx))
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, "user-1", got)
	})
}
