package handlers

import (
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bubt-idcard/idcard-server/internal/config"
	"github.com/bubt-idcard/idcard-server/internal/models"
	"github.com/bubt-idcard/idcard-server/internal/security"
)

var testJWTCfg = config.JWTConfig{Secret: "test-secret", Expiry: time.Hour}

func newAuthEngine(t *testing.T, conn *gorm.DB, sender *fakeSender) *gin.Engine {
	t.Helper()
	handler := NewAuthHandler(conn, testJWTCfg, sender, "http://localhost:5173")
	engine := gin.New()
	engine.POST("/api/auth/login", handler.Login)
	engine.POST("/api/auth/logout", handler.Logout)
	engine.POST("/api/auth/forgot-password", handler.ForgotPassword)
	engine.POST("/api/auth/reset-password", handler.ResetPassword)
	return engine
}

func createTestAdmin(t *testing.T, conn *gorm.DB, password string) models.Admin {
	t.Helper()
	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		t.Fatalf("hash password: %v", errHash)
	}
	admin := models.Admin{Username: "admin", Email: "admin@example.com", Password: hash}
	if errCreate := conn.Create(&admin).Error; errCreate != nil {
		t.Fatalf("create admin: %v", errCreate)
	}
	return admin
}

func TestLogin_Success(t *testing.T) {
	conn := setupTestDB(t)
	admin := createTestAdmin(t, conn, "secret123")
	engine := newAuthEngine(t, conn, &fakeSender{})

	w := doJSON(t, engine, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"secret123"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, want 200; body %s", w.Code, w.Body.String())
	}

	tokenMatch := regexp.MustCompile(`"token":"([^"]+)"`).FindStringSubmatch(w.Body.String())
	if tokenMatch == nil {
		t.Fatalf("no token in response: %s", w.Body.String())
	}
	claims, errParse := security.ParseAdminToken(testJWTCfg.Secret, tokenMatch[1])
	if errParse != nil {
		t.Fatalf("parse issued token: %v", errParse)
	}
	if claims.AdminID != admin.ID || claims.Username != "admin" {
		t.Fatalf("claims = %+v, want admin %d", claims, admin.ID)
	}
}

func TestLogin_UniformFailure(t *testing.T) {
	conn := setupTestDB(t)
	createTestAdmin(t, conn, "secret123")
	engine := newAuthEngine(t, conn, &fakeSender{})

	wrongPassword := doJSON(t, engine, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"nope"}`)
	unknownUser := doJSON(t, engine, http.MethodPost, "/api/auth/login", `{"username":"ghost","password":"nope"}`)

	if wrongPassword.Code != http.StatusUnauthorized || unknownUser.Code != http.StatusUnauthorized {
		t.Fatalf("statuses = %d/%d, want 401/401", wrongPassword.Code, unknownUser.Code)
	}
	if wrongPassword.Body.String() != unknownUser.Body.String() {
		t.Fatalf("failure bodies differ: %q vs %q", wrongPassword.Body.String(), unknownUser.Body.String())
	}
}

func TestLogin_MissingFields(t *testing.T) {
	conn := setupTestDB(t)
	engine := newAuthEngine(t, conn, &fakeSender{})

	w := doJSON(t, engine, http.MethodPost, "/api/auth/login", `{"username":"  "}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

var resetLinkPattern = regexp.MustCompile(`token=([0-9a-f]{64})&email=`)

func issueResetToken(t *testing.T, engine *gin.Engine, sender *fakeSender) string {
	t.Helper()
	w := doJSON(t, engine, http.MethodPost, "/api/auth/forgot-password", `{"email":"admin@example.com"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("forgot-password status = %d; body %s", w.Code, w.Body.String())
	}
	match := resetLinkPattern.FindStringSubmatch(sender.lastBody)
	if match == nil {
		t.Fatalf("no reset link in mail body: %s", sender.lastBody)
	}
	return match[1]
}

func TestForgotPassword_UnknownEmailIsGeneric(t *testing.T) {
	conn := setupTestDB(t)
	createTestAdmin(t, conn, "secret123")
	sender := &fakeSender{}
	engine := newAuthEngine(t, conn, sender)

	w := doJSON(t, engine, http.MethodPost, "/api/auth/forgot-password", `{"email":"ghost@example.com"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if sender.sent != 0 {
		t.Fatalf("mail sent for unknown email")
	}
}

func TestForgotPassword_TransportUnavailable(t *testing.T) {
	conn := setupTestDB(t)
	createTestAdmin(t, conn, "secret123")
	sender := &fakeSender{verifyErr: errTransportDown}
	engine := newAuthEngine(t, conn, sender)

	w := doJSON(t, engine, http.MethodPost, "/api/auth/forgot-password", `{"email":"admin@example.com"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
}

func TestResetPassword_RoundTrip(t *testing.T) {
	conn := setupTestDB(t)
	createTestAdmin(t, conn, "secret123")
	sender := &fakeSender{}
	engine := newAuthEngine(t, conn, sender)

	token := issueResetToken(t, engine, sender)

	reset := doJSON(t, engine, http.MethodPost, "/api/auth/reset-password",
		`{"email":"admin@example.com","token":"`+token+`","newPassword":"newpass99"}`)
	if reset.Code != http.StatusOK {
		t.Fatalf("reset status = %d; body %s", reset.Code, reset.Body.String())
	}

	// Old password no longer works; new one does.
	oldLogin := doJSON(t, engine, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"secret123"}`)
	if oldLogin.Code != http.StatusUnauthorized {
		t.Fatalf("old password still accepted, status %d", oldLogin.Code)
	}
	newLogin := doJSON(t, engine, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"newpass99"}`)
	if newLogin.Code != http.StatusOK {
		t.Fatalf("new password rejected, status %d", newLogin.Code)
	}

	// The token is single-use.
	replay := doJSON(t, engine, http.MethodPost, "/api/auth/reset-password",
		`{"email":"admin@example.com","token":"`+token+`","newPassword":"another99"}`)
	if replay.Code != http.StatusBadRequest {
		t.Fatalf("replayed token status = %d, want 400", replay.Code)
	}
}

func TestResetPassword_Expired(t *testing.T) {
	conn := setupTestDB(t)
	admin := createTestAdmin(t, conn, "secret123")
	engine := newAuthEngine(t, conn, &fakeSender{})

	token, errToken := security.NewResetToken()
	if errToken != nil {
		t.Fatalf("new token: %v", errToken)
	}
	expired := time.Now().UTC().Add(-time.Minute)
	if errUpdate := conn.Model(&admin).Updates(map[string]any{
		"reset_token_hash":    security.HashResetToken(token),
		"reset_token_expires": expired,
	}).Error; errUpdate != nil {
		t.Fatalf("store expired token: %v", errUpdate)
	}

	w := doJSON(t, engine, http.MethodPost, "/api/auth/reset-password",
		`{"email":"admin@example.com","token":"`+token+`","newPassword":"newpass99"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expired token status = %d, want 400", w.Code)
	}
}

func TestResetPassword_UniformFailure(t *testing.T) {
	conn := setupTestDB(t)
	createTestAdmin(t, conn, "secret123")
	engine := newAuthEngine(t, conn, &fakeSender{})

	badToken := security.HashResetToken("whatever")
	unknownEmail := doJSON(t, engine, http.MethodPost, "/api/auth/reset-password",
		`{"email":"ghost@example.com","token":"`+badToken+`","newPassword":"newpass99"}`)
	wrongToken := doJSON(t, engine, http.MethodPost, "/api/auth/reset-password",
		`{"email":"admin@example.com","token":"`+badToken+`","newPassword":"newpass99"}`)

	if unknownEmail.Code != http.StatusBadRequest || wrongToken.Code != http.StatusBadRequest {
		t.Fatalf("statuses = %d/%d, want 400/400", unknownEmail.Code, wrongToken.Code)
	}
	if unknownEmail.Body.String() != wrongToken.Body.String() {
		t.Fatalf("failure bodies differ: %q vs %q", unknownEmail.Body.String(), wrongToken.Body.String())
	}
}

func TestResetPassword_ShortPassword(t *testing.T) {
	conn := setupTestDB(t)
	engine := newAuthEngine(t, conn, &fakeSender{})

	w := doJSON(t, engine, http.MethodPost, "/api/auth/reset-password",
		`{"email":"admin@example.com","token":"abc","newPassword":"short"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
