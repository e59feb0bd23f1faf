package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bubt-idcard/idcard-server/internal/config"
	"github.com/bubt-idcard/idcard-server/internal/http/api/handlers"
	"github.com/bubt-idcard/idcard-server/internal/mail"
	"github.com/bubt-idcard/idcard-server/internal/storage"
)

// RegisterRoutes wires all HTTP endpoints. Route registration carries no
// business logic; every decision lives in the handlers.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config, mailer mail.Sender, store storage.Store) {
	if r == nil || db == nil {
		return
	}

	r.GET("/api/health", handlers.Health(db))

	authHandler := handlers.NewAuthHandler(db, cfg.JWT, mailer, cfg.FrontendURL)
	auth := r.Group("/api/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)

	studentHandler := handlers.NewStudentHandler(db, store)
	r.POST("/api/students", studentHandler.Submit)
	r.GET("/api/applications", studentHandler.ListApproved)

	reviewHandler := handlers.NewReviewHandler(db, store)
	admin := r.Group("/api/admin")
	admin.Use(adminAuthMiddleware(db, cfg.JWT))
	admin.GET("/dashboard", reviewHandler.Dashboard)
	admin.GET("/students", studentHandler.ListAll)
	admin.GET("/application/:studentId", reviewHandler.FetchApplication)
	admin.GET("/application/:studentId/files", reviewHandler.FetchFiles)
	admin.POST("/application/:id/action", reviewHandler.Action)

	paymentHandler := handlers.NewPaymentHandler(db)
	payments := r.Group("/api/payments")
	payments.POST("/create", paymentHandler.Create)
	payments.POST("/history", paymentHandler.History)

	// Listing and status mutation are administrative; both sit behind the
	// session-token gate.
	paymentsAdmin := r.Group("/api/payments")
	paymentsAdmin.Use(adminAuthMiddleware(db, cfg.JWT))
	paymentsAdmin.GET("/all", paymentHandler.ListAll)
	paymentsAdmin.PUT("/:id/status", paymentHandler.UpdateStatus)
}
