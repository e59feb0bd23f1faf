package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/bubt-idcard/idcard-server/internal/config"
	"github.com/bubt-idcard/idcard-server/internal/db"
	"github.com/bubt-idcard/idcard-server/internal/http/api"
	"github.com/bubt-idcard/idcard-server/internal/mail"
	"github.com/bubt-idcard/idcard-server/internal/models"
	"github.com/bubt-idcard/idcard-server/internal/security"
	"github.com/bubt-idcard/idcard-server/internal/storage"
)

// EnsureInitialAdmin creates the bootstrap administrator account when no
// account with the configured username exists. It is idempotent and safe
// to run on every startup.
func EnsureInitialAdmin(ctx context.Context, conn *gorm.DB, cfg config.BootstrapConfig) error {
	username := strings.TrimSpace(cfg.Username)
	if username == "" || cfg.Password == "" || strings.TrimSpace(cfg.Email) == "" {
		log.Info("bootstrap admin not configured, skipping")
		return nil
	}

	var existing models.Admin
	errFind := conn.WithContext(ctx).Where("username = ?", username).First(&existing).Error
	if errFind == nil {
		log.WithField("username", username).Info("bootstrap admin already exists")
		return nil
	}
	if !errors.Is(errFind, gorm.ErrRecordNotFound) {
		return fmt.Errorf("app: query bootstrap admin: %w", errFind)
	}

	hash, errHash := security.HashPassword(cfg.Password)
	if errHash != nil {
		return fmt.Errorf("app: hash bootstrap password: %w", errHash)
	}
	admin := models.Admin{
		Username: username,
		Email:    strings.TrimSpace(cfg.Email),
		Password: hash,
	}
	if errCreate := conn.WithContext(ctx).Create(&admin).Error; errCreate != nil {
		// A concurrent replica may have won the race; that is fine.
		if errors.Is(errCreate, gorm.ErrDuplicatedKey) {
			return nil
		}
		return fmt.Errorf("app: create bootstrap admin: %w", errCreate)
	}
	log.WithField("username", username).Info("bootstrap admin created")
	return nil
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(conn *gorm.DB, cfg config.Config, mailer mail.Sender, store storage.Store) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	api.RegisterRoutes(engine, conn, cfg, mailer, store)
	return engine
}

// Run opens the database, migrates, bootstraps the initial administrator,
// and serves HTTP until the listener fails.
func Run(ctx context.Context, cfg config.Config) error {
	conn, errOpen := db.Open(cfg.Database.DSN)
	if errOpen != nil {
		return errOpen
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return fmt.Errorf("app: migrate: %w", errMigrate)
	}
	if errBootstrap := EnsureInitialAdmin(ctx, conn, cfg.Bootstrap); errBootstrap != nil {
		return errBootstrap
	}

	store, errStore := storage.NewS3Store(cfg.Storage)
	if errStore != nil {
		return errStore
	}
	mailer := mail.NewSMTPSender(cfg.SMTP)

	engine := NewRouter(conn, cfg, mailer, store)
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.WithField("addr", addr).Info("server listening")
	return engine.Run(addr)
}
