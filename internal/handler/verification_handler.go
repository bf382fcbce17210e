package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"chillconnect/internal/domain"
	"chillconnect/internal/middleware"
	"chillconnect/internal/models"
	"chillconnect/internal/repository"
	"chillconnect/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type VerificationHandler struct {
	verifRepo *repository.VerificationRepository
	itemRepo  *repository.WorkItemRepository
	assignSvc *service.AssignmentService
	notifSvc  *service.NotificationService
}

func NewVerificationHandler(verifRepo *repository.VerificationRepository, itemRepo *repository.WorkItemRepository, assignSvc *service.AssignmentService, notifSvc *service.NotificationService) *VerificationHandler {
	return &VerificationHandler{verifRepo: verifRepo, itemRepo: itemRepo, assignSvc: assignSvc, notifSvc: notifSvc}
}

// Submit files a verification request and enqueues it to the employee pool.
// Document storage itself is handled by the upload collaborator; only URLs
// arrive here.
func (h *VerificationHandler) Submit(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Type      string `json:"type" binding:"required,oneof=IDENTITY PROFILE DOCUMENTS"`
		Documents string `json:"documents"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	v := &models.Verification{
		UserID:    userID,
		Type:      req.Type,
		Documents: req.Documents,
		Status:    domain.VerificationStatusPending,
	}
	if err := h.verifRepo.Create(v); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "submit failed"})
		return
	}
	item, err := h.assignSvc.Enqueue(domain.WorkItemKindVerification, v.ID)
	if err != nil {
		log.Printf("verification enqueue: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "submit failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"verification": v, "work_item": item})
}

func (h *VerificationHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	list, err := h.verifRepo.ListByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"verifications": list})
}

// Decide records the terminal approve/reject decision by the reviewing
// employee and resolves the backing work item.
func (h *VerificationHandler) Decide(c *gin.Context) {
	reviewerID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req struct {
		Approve         bool   `json:"approve"`
		RejectionReason string `json:"rejection_reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	v, err := h.verifRepo.GetByID(uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "verification not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if v.Status != domain.VerificationStatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "already decided"})
		return
	}
	status := domain.VerificationStatusApproved
	if !req.Approve {
		status = domain.VerificationStatusRejected
	}
	if err := h.verifRepo.Decide(v.ID, reviewerID, status, req.RejectionReason); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "decision failed"})
		return
	}
	if err := h.itemRepo.ResolveBySubject(domain.WorkItemKindVerification, v.ID); err != nil {
		log.Printf("verification work item resolve: %v", err)
	}
	h.notifSvc.NotifyVerificationDecision(v.UserID, v.ID, status)
	c.JSON(http.StatusOK, gin.H{"id": v.ID, "status": status})
}
