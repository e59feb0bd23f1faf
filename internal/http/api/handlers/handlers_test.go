package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/bubt-idcard/idcard-server/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:handlers_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := conn.AutoMigrate(
		&models.Admin{},
		&models.CardRequest{},
		&models.ApprovedApplication{},
		&models.Payment{},
	); errMigrate != nil {
		t.Fatalf("migrate db: %v", errMigrate)
	}
	return conn
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

var errTransportDown = errors.New("smtp unreachable")

// fakeSender records outbound mail for assertions.
type fakeSender struct {
	verifyErr error
	sendErr   error
	lastTo    string
	lastBody  string
	sent      int
}

func (f *fakeSender) Verify(_ context.Context) error {
	return f.verifyErr
}

func (f *fakeSender) Send(_ context.Context, to, _ string, htmlBody string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.lastTo = to
	f.lastBody = htmlBody
	f.sent++
	return nil
}
