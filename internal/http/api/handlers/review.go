package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/bubt-idcard/idcard-server/internal/models"
	"github.com/bubt-idcard/idcard-server/internal/storage"
)

// downloadLinkTTL bounds how long a presigned attachment link stays valid.
const downloadLinkTTL = 15 * time.Minute

// ReviewHandler handles administrator review of pending card requests.
type ReviewHandler struct {
	db    *gorm.DB
	store storage.Store
}

// NewReviewHandler constructs a ReviewHandler.
func NewReviewHandler(db *gorm.DB, store storage.Store) *ReviewHandler {
	return &ReviewHandler{db: db, store: store}
}

// Dashboard lists pending applications, newest first.
func (h *ReviewHandler) Dashboard(c *gin.Context) {
	var pending []models.CardRequest
	if errFind := h.db.WithContext(c.Request.Context()).
		Where("status = ?", models.StatusPending).
		Order("created_at DESC").
		Find(&pending).Error; errFind != nil {
		log.WithError(errFind).Error("dashboard: list pending failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"pendingApplications": pending,
			"totalPending":        len(pending),
		},
	})
}

// FetchApplication returns an application by student ID, checking the
// pending collection first and the approved collection second.
func (h *ReviewHandler) FetchApplication(c *gin.Context) {
	studentID := strings.TrimSpace(c.Param("studentId"))

	var pending models.CardRequest
	errPending := h.db.WithContext(c.Request.Context()).
		Where("student_id = ?", studentID).
		First(&pending).Error
	if errPending == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": pending})
		return
	}
	if !errors.Is(errPending, gorm.ErrRecordNotFound) {
		log.WithError(errPending).Error("fetch application: query pending failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch application"})
		return
	}

	var approved models.ApprovedApplication
	errApproved := h.db.WithContext(c.Request.Context()).
		Where("student_id = ?", studentID).
		First(&approved).Error
	if errApproved != nil {
		if errors.Is(errApproved, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "application not found"})
			return
		}
		log.WithError(errApproved).Error("fetch application: query approved failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch application"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": approved})
}

// FetchFiles returns time-limited download links for an application's
// stored attachments, resolving pending first and approved second.
func (h *ReviewHandler) FetchFiles(c *gin.Context) {
	studentID := strings.TrimSpace(c.Param("studentId"))

	var photo, gdCopy, oldIDImage string
	var documents datatypes.JSON

	var pending models.CardRequest
	errPending := h.db.WithContext(c.Request.Context()).
		Where("student_id = ?", studentID).
		First(&pending).Error
	switch {
	case errPending == nil:
		photo, gdCopy, oldIDImage, documents = pending.Photo, pending.GDCopy, pending.OldIDImage, pending.Documents
	case errors.Is(errPending, gorm.ErrRecordNotFound):
		var approved models.ApprovedApplication
		errApproved := h.db.WithContext(c.Request.Context()).
			Where("student_id = ?", studentID).
			First(&approved).Error
		if errApproved != nil {
			if errors.Is(errApproved, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "application not found"})
				return
			}
			log.WithError(errApproved).Error("fetch files: query approved failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch files"})
			return
		}
		photo, gdCopy, oldIDImage, documents = approved.Photo, approved.GDCopy, approved.OldIDImage, approved.Documents
	default:
		log.WithError(errPending).Error("fetch files: query pending failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch files"})
		return
	}

	links := gin.H{}
	presign := func(name, key string) bool {
		if key == "" {
			return true
		}
		url, errSign := h.store.PresignGet(c.Request.Context(), key, downloadLinkTTL)
		if errSign != nil {
			log.WithError(errSign).WithField("key", key).Error("fetch files: presign failed")
			return false
		}
		links[name] = url
		return true
	}
	if !presign("photo", photo) || !presign("gdCopy", gdCopy) || !presign("oldIdImage", oldIDImage) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch files"})
		return
	}
	if len(documents) > 0 {
		var keys []string
		if errUnmarshal := json.Unmarshal(documents, &keys); errUnmarshal != nil {
			log.WithError(errUnmarshal).Error("fetch files: decode document keys failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch files"})
			return
		}
		urls := make([]string, 0, len(keys))
		for _, key := range keys {
			url, errSign := h.store.PresignGet(c.Request.Context(), key, downloadLinkTTL)
			if errSign != nil {
				log.WithError(errSign).WithField("key", key).Error("fetch files: presign failed")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch files"})
				return
			}
			urls = append(urls, url)
		}
		links["documents"] = urls
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": links})
}

// actionRequest defines the request body for an approve/reject decision.
type actionRequest struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
}

// Action approves or rejects a pending application. Approval copies the
// record into the approved collection and deletes the pending row inside
// one transaction; rejection mutates the row in place.
func (h *ReviewHandler) Action(c *gin.Context) {
	var body actionRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	action := strings.TrimSpace(body.Action)
	if action != "approve" && action != "reject" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "valid action (approve/reject) is required"})
		return
	}

	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "application not found"})
		return
	}

	var request models.CardRequest
	if errFind := h.db.WithContext(c.Request.Context()).First(&request, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "application not found"})
			return
		}
		log.WithError(errFind).Error("application action: query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process application"})
		return
	}

	if action == "approve" {
		errTx := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			approved := models.ApprovedApplication{
				StudentID:     request.StudentID,
				CardType:      request.CardType,
				FirstName:     request.FirstName,
				LastName:      request.LastName,
				Email:         request.Email,
				Program:       request.Program,
				TrxID:         request.TrxID,
				Amount:        request.Amount,
				RequestType:   request.RequestType,
				PaymentStatus: "Approved",
				Photo:         request.Photo,
				GDCopy:        request.GDCopy,
				OldIDImage:    request.OldIDImage,
				Documents:     request.Documents,
				ApprovedAt:    time.Now().UTC(),
			}
			if errCreate := tx.Create(&approved).Error; errCreate != nil {
				return errCreate
			}
			return tx.Delete(&models.CardRequest{}, request.ID).Error
		})
		if errTx != nil {
			log.WithError(errTx).Error("application action: approve failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process application"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Application approved successfully"})
		return
	}

	updates := map[string]any{"status": models.StatusRejected}
	if reason := strings.TrimSpace(body.Reason); reason != "" {
		updates["rejection_reason"] = reason
	}
	if errUpdate := h.db.WithContext(c.Request.Context()).Model(&request).Updates(updates).Error; errUpdate != nil {
		log.WithError(errUpdate).Error("application action: reject failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process application"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Application rejected successfully"})
}
