package handler

import (
	"errors"
	"net/http"
	"strconv"

	"chillconnect/internal/domain"
	"chillconnect/internal/middleware"
	"chillconnect/internal/repository"
	"chillconnect/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// StaffHandler is the back-office surface: work queues, pool membership,
// manual reassignment, and the OTP gate unlock that a TooManyAttempts
// lockout escalates to.
type StaffHandler struct {
	itemRepo  *repository.WorkItemRepository
	userRepo  *repository.UserRepository
	assignSvc *service.AssignmentService
	otpSvc    *service.OTPService
}

func NewStaffHandler(itemRepo *repository.WorkItemRepository, userRepo *repository.UserRepository, assignSvc *service.AssignmentService, otpSvc *service.OTPService) *StaffHandler {
	return &StaffHandler{itemRepo: itemRepo, userRepo: userRepo, assignSvc: assignSvc, otpSvc: otpSvc}
}

func (h *StaffHandler) MyWorkItems(c *gin.Context) {
	staffID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.itemRepo.ListByAssignee(staffID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"work_items": list})
}

// AssignNext pulls the next staff member from a pool without an item; used
// by admin tooling to inspect rotation.
func (h *StaffHandler) AssignNext(c *gin.Context) {
	pool := c.Param("pool")
	if pool != domain.PoolEmployee && pool != domain.PoolManager {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown pool"})
		return
	}
	staffID, err := h.assignSvc.Next(pool)
	if errors.Is(err, repository.ErrNoAvailableStaff) {
		c.JSON(http.StatusConflict, gin.H{"error": "no available staff"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "assignment failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"staff_id": staffID})
}

// Reassign hands a work item to a named colleague, bypassing rotation.
func (h *StaffHandler) Reassign(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req struct {
		StaffID uint `json:"staff_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	target, err := h.userRepo.GetByID(req.StaffID)
	if err != nil || !target.IsStaff() || !target.IsActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target staff unavailable"})
		return
	}
	if err := h.assignSvc.Reassign(uint(id), req.StaffID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "work item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reassign failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "assigned_to": req.StaffID})
}

// SetPoolMembership activates or deactivates a staff member in a pool.
// Activation sweeps the queue of items that were waiting for staff.
func (h *StaffHandler) SetPoolMembership(c *gin.Context) {
	pool := c.Param("pool")
	if pool != domain.PoolEmployee && pool != domain.PoolManager {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown pool"})
		return
	}
	var req struct {
		StaffID uint `json:"staff_id" binding:"required"`
		Active  bool `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var err error
	if req.Active {
		err = h.assignSvc.ActivateStaff(pool, req.StaffID)
	} else {
		err = h.assignSvc.DeactivateStaff(pool, req.StaffID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "membership update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pool": pool, "staff_id": req.StaffID, "active": req.Active})
}

// UnlockOTPGate clears a locked service-start gate after manual review.
func (h *StaffHandler) UnlockOTPGate(c *gin.Context) {
	bookingID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.otpSvc.UnlockGate(uint(bookingID)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unlock failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking_id": bookingID, "message": "start gate unlocked"})
}
