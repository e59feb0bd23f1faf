package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/bubt-idcard/idcard-server/internal/db"
	"github.com/bubt-idcard/idcard-server/internal/models"
	"github.com/bubt-idcard/idcard-server/internal/storage"
)

// maxGeneralDocuments caps the "documents" attachment count per submission.
const maxGeneralDocuments = 5

// StudentHandler handles card-request submission and listing endpoints.
type StudentHandler struct {
	db    *gorm.DB
	store storage.Store
}

// NewStudentHandler constructs a StudentHandler.
func NewStudentHandler(db *gorm.DB, store storage.Store) *StudentHandler {
	return &StudentHandler{db: db, store: store}
}

// Submit accepts a multipart card application, stores attachments in the
// blob store, and persists a pending record holding only object keys.
func (h *StudentHandler) Submit(c *gin.Context) {
	form, errForm := c.MultipartForm()
	if errForm != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})
		return
	}

	required := []string{"studentId", "firstName", "lastName", "email", "trxId"}
	var missing []string
	for _, field := range required {
		if strings.TrimSpace(c.PostForm(field)) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")),
		})
		return
	}

	record := models.CardRequest{
		StudentID:     strings.TrimSpace(c.PostForm("studentId")),
		CardType:      formOrDefault(c, "cardType", "student"),
		FirstName:     strings.TrimSpace(c.PostForm("firstName")),
		LastName:      strings.TrimSpace(c.PostForm("lastName")),
		Email:         strings.TrimSpace(c.PostForm("email")),
		Program:       formOrDefault(c, "program", "Not Specified"),
		TrxID:         strings.TrimSpace(c.PostForm("trxId")),
		Amount:        formOrDefault(c, "amount", "0"),
		RequestType:   formOrDefault(c, "requestType", "new"),
		PaymentStatus: "Pending",
		// Whatever the client claims, a fresh submission starts pending.
		Status: models.StatusPending,
	}

	var errUpload error
	record.Photo, errUpload = h.storeSingle(c, form, "photo")
	if errUpload == nil {
		record.GDCopy, errUpload = h.storeSingle(c, form, "gdCopy")
	}
	if errUpload == nil {
		record.OldIDImage, errUpload = h.storeSingle(c, form, "oldIdImage")
	}
	var documentKeys []string
	if errUpload == nil {
		documentKeys, errUpload = h.storeDocuments(c, form)
	}
	if errUpload != nil {
		log.WithError(errUpload).Error("student submit: store attachment failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to store uploaded files"})
		return
	}
	if len(documentKeys) > 0 {
		raw, errMarshal := json.Marshal(documentKeys)
		if errMarshal != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
			return
		}
		record.Documents = datatypes.JSON(raw)
	}

	if errCreate := h.db.WithContext(c.Request.Context()).Create(&record).Error; errCreate != nil {
		if errors.Is(errCreate, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error":   h.duplicateFieldMessage(c, record.StudentID),
			})
			return
		}
		log.WithError(errCreate).Error("student submit: create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Application submitted successfully!",
		"data": gin.H{
			"id":        record.ID,
			"studentId": record.StudentID,
			"name":      record.FirstName + " " + record.LastName,
			"status":    record.Status,
			"createdAt": record.CreatedAt,
		},
	})
}

// duplicateFieldMessage names the unique field that collided.
func (h *StudentHandler) duplicateFieldMessage(c *gin.Context, studentID string) string {
	var count int64
	if errCount := h.db.WithContext(c.Request.Context()).
		Model(&models.CardRequest{}).
		Where("student_id = ?", studentID).
		Count(&count).Error; errCount == nil && count > 0 {
		return "student ID already exists in our system"
	}
	return "TRX ID already exists in our system"
}

func (h *StudentHandler) storeSingle(c *gin.Context, form *multipart.Form, field string) (string, error) {
	files := form.File[field]
	if len(files) == 0 {
		return "", nil
	}
	return h.storeFile(c, files[0], field)
}

func (h *StudentHandler) storeDocuments(c *gin.Context, form *multipart.Form) ([]string, error) {
	files := form.File["documents"]
	if len(files) > maxGeneralDocuments {
		files = files[:maxGeneralDocuments]
	}
	keys := make([]string, 0, len(files))
	for _, header := range files {
		key, errStore := h.storeFile(c, header, "documents")
		if errStore != nil {
			return nil, errStore
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (h *StudentHandler) storeFile(c *gin.Context, header *multipart.FileHeader, prefix string) (string, error) {
	file, errOpen := header.Open()
	if errOpen != nil {
		return "", errOpen
	}
	defer func() { _ = file.Close() }()

	key := storage.NewObjectKey(prefix, header.Filename)
	contentType := header.Header.Get("Content-Type")
	if errPut := h.store.Put(c.Request.Context(), key, file, header.Size, contentType); errPut != nil {
		return "", errPut
	}
	return key, nil
}

// ListApproved returns approved applications, optionally filtered by
// studentId or email, newest approval first.
func (h *StudentHandler) ListApproved(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.ApprovedApplication{})
	if studentID := strings.TrimSpace(c.Query("studentId")); studentID != "" {
		q = q.Where("student_id = ?", studentID)
	}
	if email := strings.TrimSpace(c.Query("email")); email != "" {
		q = q.Where("email = ?", email)
	}

	var rows []models.ApprovedApplication
	if errFind := q.Order("approved_at DESC").Find(&rows).Error; errFind != nil {
		log.WithError(errFind).Error("list approved applications failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch applications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": rows})
}

// ListAll returns every record in the pending collection, newest first,
// optionally filtered by a case-insensitive search over student ID, name
// and email. Admin-only.
func (h *StudentHandler) ListAll(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.CardRequest{})
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := db.NormalizeLikePattern(h.db, "%"+search+"%")
		q = q.Where(
			h.db.Where(db.CaseInsensitiveLikeExpr(h.db, "student_id"), pattern).
				Or(db.CaseInsensitiveLikeExpr(h.db, "email"), pattern).
				Or(db.CaseInsensitiveLikeExpr(h.db, "first_name"), pattern).
				Or(db.CaseInsensitiveLikeExpr(h.db, "last_name"), pattern),
		)
	}

	var rows []models.CardRequest
	if errFind := q.
		Order("created_at DESC").
		Find(&rows).Error; errFind != nil {
		log.WithError(errFind).Error("list students failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch students"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": rows})
}

func formOrDefault(c *gin.Context, field, fallback string) string {
	if value := strings.TrimSpace(c.PostForm(field)); value != "" {
		return value
	}
	return fallback
}
