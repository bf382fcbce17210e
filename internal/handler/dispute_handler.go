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

type DisputeHandler struct {
	disputeRepo *repository.DisputeRepository
	bookingRepo *repository.BookingRepository
	itemRepo    *repository.WorkItemRepository
	walletRepo  *repository.WalletRepository
	assignSvc   *service.AssignmentService
	notifSvc    *service.NotificationService
}

func NewDisputeHandler(
	disputeRepo *repository.DisputeRepository,
	bookingRepo *repository.BookingRepository,
	itemRepo *repository.WorkItemRepository,
	walletRepo *repository.WalletRepository,
	assignSvc *service.AssignmentService,
	notifSvc *service.NotificationService,
) *DisputeHandler {
	return &DisputeHandler{
		disputeRepo: disputeRepo,
		bookingRepo: bookingRepo,
		itemRepo:    itemRepo,
		walletRepo:  walletRepo,
		assignSvc:   assignSvc,
		notifSvc:    notifSvc,
	}
}

// File opens a dispute on a booking the caller is party to and enqueues it
// to the manager pool.
func (h *DisputeHandler) File(c *gin.Context) {
	userID := middleware.GetUserID(c)
	bookingID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req struct {
		Type        string `json:"type" binding:"required,oneof=NO_SHOW SERVICE_QUALITY PAYMENT BEHAVIOR"`
		Description string `json:"description" binding:"required"`
		Evidence    string `json:"evidence"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	booking, err := h.bookingRepo.GetByID(uint(bookingID))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if !booking.IsParty(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}
	d := &models.Dispute{
		BookingID:   booking.ID,
		ReportedBy:  userID,
		Type:        req.Type,
		Description: req.Description,
		Evidence:    req.Evidence,
		Status:      domain.DisputeStatusOpen,
	}
	if err := h.disputeRepo.Create(d); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "filing failed"})
		return
	}
	item, err := h.assignSvc.Enqueue(domain.WorkItemKindDispute, d.ID)
	if err != nil {
		log.Printf("dispute enqueue: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "filing failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"dispute": d, "work_item": item})
}

func (h *DisputeHandler) ListForBooking(c *gin.Context) {
	userID := middleware.GetUserID(c)
	bookingID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	booking, err := h.bookingRepo.GetByID(uint(bookingID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	role := middleware.GetRole(c)
	if !booking.IsParty(userID) && role != domain.RoleAdmin && role != domain.RoleManager {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}
	list, err := h.disputeRepo.ListByBooking(booking.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"disputes": list})
}

// Resolve records the manager's decision; any compensation tokens are
// credited to the reporter's available balance.
func (h *DisputeHandler) Resolve(c *gin.Context) {
	managerID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req struct {
		Resolution string `json:"resolution" binding:"required"`
		Tokens     int64  `json:"tokens" binding:"min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d, err := h.disputeRepo.GetByID(uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "dispute not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if d.Status == domain.DisputeStatusResolved {
		c.JSON(http.StatusConflict, gin.H{"error": "already resolved"})
		return
	}
	if err := h.disputeRepo.Resolve(d.ID, managerID, req.Resolution, req.Tokens); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "resolve failed"})
		return
	}
	if req.Tokens > 0 {
		if err := h.walletRepo.Compensate(d.ReportedBy, req.Tokens, service.Describe(d.BookingID)); err != nil {
			log.Printf("dispute compensation: %v", err)
		}
	}
	if err := h.itemRepo.ResolveBySubject(domain.WorkItemKindDispute, d.ID); err != nil {
		log.Printf("dispute work item resolve: %v", err)
	}
	h.notifSvc.NotifyDisputeResolved(d.ReportedBy, d.ID, req.Tokens)
	c.JSON(http.StatusOK, gin.H{"id": d.ID, "status": domain.DisputeStatusResolved})
}
