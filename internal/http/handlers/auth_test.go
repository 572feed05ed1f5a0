package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"opshub/internal/repositories"
)

const testSecret = "test-secret"

func userRow(hash string, active bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.
		NewRows([]string{"id", "name", "username", "email", "password_hash", "role", "active", "created_at", "updated_at"}).
		AddRow(3, "Ada", "ada", "ada@example.com", hash, "admin", active, now, now)
}

func newAuthRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := AuthHandler{Users: repositories.UserRepository{DB: db}, Secret: testSecret}
	r.POST("/api/auth/login", h.Login)
	return r, mock
}

func TestLoginIssuesSignedToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	r, mock := newAuthRouter(t)
	mock.ExpectQuery("FROM users WHERE email = \\? OR username = \\?").
		WithArgs("ada", "ada").
		WillReturnRows(userRow(string(hash), true))

	w := doJSON(r, http.MethodPost, "/api/auth/login", map[string]string{
		"login":    "ada",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
		User    struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "ada", body.User.Username)
	assert.NotContains(t, w.Body.String(), "password")

	parsed, err := jwt.Parse(body.Token, func(*jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "admin", claims["role"])
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	r, mock := newAuthRouter(t)
	mock.ExpectQuery("FROM users WHERE email = \\? OR username = \\?").
		WithArgs("ada", "ada").
		WillReturnRows(userRow(string(hash), true))

	w := doJSON(r, http.MethodPost, "/api/auth/login", map[string]string{
		"login":    "ada",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginUnknownAccountLooksLikeWrongPassword(t *testing.T) {
	r, mock := newAuthRouter(t)
	mock.ExpectQuery("FROM users WHERE email = \\? OR username = \\?").
		WithArgs("ghost", "ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := doJSON(r, http.MethodPost, "/api/auth/login", map[string]string{
		"login":    "ghost",
		"password": "whatever",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginDisabledAccount(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	r, mock := newAuthRouter(t)
	mock.ExpectQuery("FROM users WHERE email = \\? OR username = \\?").
		WithArgs("ada", "ada").
		WillReturnRows(userRow(string(hash), false))

	w := doJSON(r, http.MethodPost, "/api/auth/login", map[string]string{
		"login":    "ada",
		"password": "hunter2hunter2",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
