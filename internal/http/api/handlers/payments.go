package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/bubt-idcard/idcard-server/internal/models"
)

// paymentHistoryLimit caps per-user history responses.
const paymentHistoryLimit = 50

// PaymentHandler handles payment intake and administration endpoints.
type PaymentHandler struct {
	db *gorm.DB
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(db *gorm.DB) *PaymentHandler {
	return &PaymentHandler{db: db}
}

// createPaymentRequest defines the request body for payment creation.
type createPaymentRequest struct {
	Email    string          `json:"email"`
	TrxID    string          `json:"trxId"`
	Amount   int64           `json:"amount"`
	Type     string          `json:"type"`
	UserInfo json.RawMessage `json:"userInfo"`
}

// Create records a claimed payment transaction. The unique index on the
// transaction reference is the correctness guarantee; the pre-check only
// produces a friendlier message for the common case.
func (h *PaymentHandler) Create(c *gin.Context) {
	var body createPaymentRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid json"})
		return
	}

	email := strings.TrimSpace(body.Email)
	trxID := strings.TrimSpace(body.TrxID)
	if email == "" || trxID == "" || body.Amount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "email, TRX ID and amount are required"})
		return
	}
	if body.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "amount must be greater than 0"})
		return
	}

	var existing int64
	if errCount := h.db.WithContext(c.Request.Context()).
		Model(&models.Payment{}).
		Where("trx_id = ?", trxID).
		Count(&existing).Error; errCount != nil {
		log.WithError(errCount).Error("payment create: duplicate check failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}
	if existing > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "this TRX ID is already used, please use a different TRX ID",
		})
		return
	}

	payment := models.Payment{
		Email:  email,
		TrxID:  trxID,
		Amount: body.Amount,
		Type:   valueOrDefault(body.Type, "topup"),
		Status: "pending",
	}
	if len(body.UserInfo) > 0 {
		payment.UserInfo = datatypes.JSON(body.UserInfo)
	}

	if errCreate := h.db.WithContext(c.Request.Context()).Create(&payment).Error; errCreate != nil {
		// A concurrent insert can slip past the pre-check; the unique
		// index still rejects it.
		if errors.Is(errCreate, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "TRX ID already exists"})
			return
		}
		log.WithError(errCreate).Error("payment create: insert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Payment request submitted successfully!",
		"payment": gin.H{
			"id":        payment.ID,
			"trxId":     payment.TrxID,
			"amount":    payment.Amount,
			"status":    payment.Status,
			"createdAt": payment.CreatedAt,
		},
	})
}

// historyRequest defines the request body for per-user payment history.
type historyRequest struct {
	Email string `json:"email"`
}

// History returns a user's payments, newest first, capped at 50.
func (h *PaymentHandler) History(c *gin.Context) {
	var body historyRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid json"})
		return
	}
	email := strings.TrimSpace(body.Email)
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "email is required"})
		return
	}

	var payments []models.Payment
	if errFind := h.db.WithContext(c.Request.Context()).
		Where("email = ?", email).
		Order("created_at DESC").
		Limit(paymentHistoryLimit).
		Find(&payments).Error; errFind != nil {
		log.WithError(errFind).Error("payment history: query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "payments": payments})
}

// ListAll returns every payment, newest first. Admin-only.
func (h *PaymentHandler) ListAll(c *gin.Context) {
	var payments []models.Payment
	if errFind := h.db.WithContext(c.Request.Context()).
		Order("created_at DESC").
		Find(&payments).Error; errFind != nil {
		log.WithError(errFind).Error("payment list: query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "payments": payments, "total": len(payments)})
}

// updateStatusRequest defines the request body for status updates.
type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus sets a payment's status. Admin-only.
func (h *PaymentHandler) UpdateStatus(c *gin.Context) {
	var body updateStatusRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid json"})
		return
	}
	status := strings.TrimSpace(body.Status)
	if status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "status is required"})
		return
	}

	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "payment not found"})
		return
	}

	var payment models.Payment
	if errFind := h.db.WithContext(c.Request.Context()).First(&payment, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "payment not found"})
			return
		}
		log.WithError(errFind).Error("payment status: query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}

	if errUpdate := h.db.WithContext(c.Request.Context()).Model(&payment).Update("status", status).Error; errUpdate != nil {
		log.WithError(errUpdate).Error("payment status: update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Payment status updated successfully",
		"payment": payment,
	})
}

func valueOrDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
