package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskhive/taskhive/db"
	"github.com/taskhive/taskhive/internal/auth"
	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/handlers"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/notify"
	"github.com/taskhive/taskhive/internal/router"
	"github.com/taskhive/taskhive/internal/types"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

func setupAPI(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
		&models.Template{},
	))
	db.DB = gdb

	require.NoError(t, auth.InitJWT("test-secret", 0))

	nop := zap.NewNop()
	handlers.Configure(notify.NewLogMailer(nop), notify.NewLogTexter(nop), nop, config.AdminConfig{
		Email:      "root@example.com",
		SignupCode: "let-me-in",
	})

	return router.NewRouter(nil, nop)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func signup(t *testing.T, r *gin.Engine, name, email string) (string, uint) {
	t.Helper()

	rec := doJSON(t, r, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name":     name,
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token, resp.User.ID
}

func TestSignupAndLogin(t *testing.T) {
	r := setupAPI(t)

	token, _ := signup(t, r, "Alice", "alice@example.com")
	assert.NotEmpty(t, token)

	// duplicate email is rejected
	rec := doJSON(t, r, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name":     "Alice Again",
		"email":    "alice@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// wrong password
	rec = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// valid login issues a token usable against /me
	rec = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))

	rec = doJSON(t, r, http.MethodGet, "/api/auth/me", login.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMeRequiresToken(t *testing.T) {
	r := setupAPI(t)

	rec := doJSON(t, r, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/auth/me", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminEmailIsPromoted(t *testing.T) {
	r := setupAPI(t)

	token, _ := signup(t, r, "Root", "root@example.com")

	rec := doJSON(t, r, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		User struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, types.RoleAdmin, resp.User.Role)
}

func TestAdminSelfSignupNeedsCode(t *testing.T) {
	r := setupAPI(t)

	// wrong code: silently lands on the user role
	rec := doJSON(t, r, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name":      "Mallory",
		"email":     "mallory@example.com",
		"password":  "password123",
		"role":      "admin",
		"adminCode": "guess",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		User struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, types.RoleUser, resp.User.Role)

	// matching code elevates
	rec = doJSON(t, r, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name":      "Ops",
		"email":     "ops@example.com",
		"password":  "password123",
		"role":      "admin",
		"adminCode": "let-me-in",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, types.RoleAdmin, resp.User.Role)
}

func TestAdminRoutesAreGated(t *testing.T) {
	r := setupAPI(t)

	userToken, _ := signup(t, r, "Alice", "alice@example.com")
	adminToken, _ := signup(t, r, "Root", "root@example.com")

	rec := doJSON(t, r, http.MethodGet, "/api/admin/users", userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/admin/users", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/admin/analytics", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDuplicateEmailInsertIsTranslated(t *testing.T) {
	// Concurrent signups can both pass the existence pre-check; the unique
	// index on email must then surface as gorm.ErrDuplicatedKey so the
	// handler can answer 400 instead of 500.
	setupAPI(t)

	first := models.User{Name: "A", Email: "dup@example.com", PasswordHash: "x", Role: types.RoleUser, Badges: []byte("[]")}
	require.NoError(t, db.DB.Create(&first).Error)

	second := models.User{Name: "B", Email: "dup@example.com", PasswordHash: "x", Role: types.RoleUser, Badges: []byte("[]")}
	err := db.DB.Create(&second).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestAdminCanChangeRoles(t *testing.T) {
	r := setupAPI(t)

	_, userID := signup(t, r, "Alice", "alice@example.com")
	adminToken, _ := signup(t, r, "Root", "root@example.com")

	rec := doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/admin/users/%d/role", userID), adminToken, gin.H{"role": "admin"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/admin/users/%d/role", userID), adminToken, gin.H{"role": "superadmin"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, http.MethodPatch, "/api/admin/users/9999/role", adminToken, gin.H{"role": "admin"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
