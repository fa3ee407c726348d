package service

import (
	"errors"
	"testing"
	"time"

	"bloodlink/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func restoreGlobals() {
	bcryptGenerateFromPassword = bcrypt.GenerateFromPassword
	bcryptCompareHashAndPassword = bcrypt.CompareHashAndPassword
	timeNow = time.Now
	parseWithClaims = jwt.ParseWithClaims
}

func TestHashPassword(t *testing.T) {
	t.Cleanup(restoreGlobals)
	pwd := "secret"
	hash, err := HashPassword(pwd)
	require.NoError(t, err)
	require.NotEqual(t, pwd, hash)
	require.NoError(t, ComparePassword(hash, pwd))
	require.Error(t, ComparePassword(hash, "other"))

	// 同一密碼每次加鹽結果不同
	hash2, err := HashPassword(pwd)
	require.NoError(t, err)
	require.NotEqual(t, hash, hash2)

	bcryptGenerateFromPassword = func(_ []byte, _ int) ([]byte, error) {
		return nil, errors.New("gen")
	}
	_, err = HashPassword(pwd)
	require.Error(t, err)
}

func TestIssueAccessToken(t *testing.T) {
	t.Cleanup(restoreGlobals)
	t.Setenv("JWT_SECRET", "")
	_, err := IssueAccessToken(model.User{}, time.Minute)
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "s")
	tok, err := IssueAccessToken(model.User{ID: "u5", Role: model.RoleAdmin}, time.Minute)
	require.NoError(t, err)
	claims := &CustomClaims{}
	_, err = jwt.ParseWithClaims(tok, claims, func(*jwt.Token) (any, error) { return []byte("s"), nil })
	require.NoError(t, err)
	require.Equal(t, "u5", claims.UserID)
	require.Equal(t, "u5", claims.Subject)
	require.True(t, claims.IsAdmin())
}

func TestVerifyAccessToken(t *testing.T) {
	t.Cleanup(restoreGlobals)
	t.Setenv("JWT_SECRET", "")
	_, err := VerifyAccessToken("abc")
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "s")
	_, err = VerifyAccessToken("invalid")
	require.Error(t, err)

	tokNone, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"foo": "bar"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	_, err = VerifyAccessToken(tokNone)
	require.Error(t, err)

	parseWithClaims = func(s string, c jwt.Claims, k jwt.Keyfunc, opts ...jwt.ParserOption) (*jwt.Token, error) {
		return &jwt.Token{Claims: jwt.MapClaims{}, Valid: false}, nil
	}
	_, err = VerifyAccessToken("whatever")
	require.Error(t, err)

	parseWithClaims = jwt.ParseWithClaims
	tok, _ := IssueAccessToken(model.User{ID: "u3", Role: model.RoleUser}, time.Minute)
	claims, err := VerifyAccessToken(tok)
	require.NoError(t, err)
	require.Equal(t, "u3", claims.UserID)
	require.False(t, claims.IsAdmin())

	// 過期
	timeNow = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _ := IssueAccessToken(model.User{ID: "u3"}, time.Hour)
	_, err = VerifyAccessToken(expired)
	require.Error(t, err)
}
