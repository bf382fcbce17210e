package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"chillconnect/internal/domain"
	"chillconnect/internal/middleware"
	"chillconnect/internal/models"
	"chillconnect/internal/repository"
	"chillconnect/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BookingHandler struct {
	bookingSvc  *service.BookingService
	otpSvc      *service.OTPService
	bookingRepo *repository.BookingRepository
}

func NewBookingHandler(
	bookingSvc *service.BookingService,
	otpSvc *service.OTPService,
	bookingRepo *repository.BookingRepository,
) *BookingHandler {
	return &BookingHandler{
		bookingSvc:  bookingSvc,
		otpSvc:      otpSvc,
		bookingRepo: bookingRepo,
	}
}

func (h *BookingHandler) Create(c *gin.Context) {
	seekerID := middleware.GetUserID(c)
	var req struct {
		ProviderID      uint      `json:"provider_id" binding:"required"`
		StartTime       time.Time `json:"start_time" binding:"required"`
		DurationHours   int       `json:"duration_hours" binding:"required"`
		Mode            string    `json:"mode" binding:"required,oneof=INCALL OUTCALL"`
		Location        string    `json:"location"`
		SpecialRequests string    `json:"special_requests"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	booking, err := h.bookingSvc.Create(service.CreateBookingInput{
		SeekerID:        seekerID,
		ProviderID:      req.ProviderID,
		StartTime:       req.StartTime,
		DurationHours:   req.DurationHours,
		Mode:            req.Mode,
		Location:        req.Location,
		SpecialRequests: req.SpecialRequests,
	})
	switch {
	case errors.Is(err, service.ErrProviderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "provider not found"})
	case errors.Is(err, service.ErrInvalidSchedule):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking time or duration"})
	case errors.Is(err, repository.ErrInsufficientBalance):
		c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient tokens"})
	case err != nil:
		log.Printf("booking create: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
	default:
		c.JSON(http.StatusCreated, booking)
	}
}

func (h *BookingHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	status := c.Query("status")
	list, err := h.bookingRepo.ListByUser(userID, status, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list})
}

func (h *BookingHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	booking, err := h.bookingRepo.GetByID(uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	role := middleware.GetRole(c)
	if !booking.IsParty(userID) && role != domain.RoleAdmin && role != domain.RoleEmployee && role != domain.RoleManager {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}
	c.JSON(http.StatusOK, booking)
}

// UpdateStatus drives the lifecycle: confirm, start (OTP-gated), complete,
// cancel.
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req struct {
		Status  string `json:"status" binding:"required,oneof=CONFIRMED IN_PROGRESS COMPLETED CANCELLED"`
		OTPCode string `json:"otp_code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	booking, err := h.bookingSvc.Transition(uint(id), userID, req.Status, req.OTPCode)
	h.respondTransition(c, booking, err)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	booking, err := h.bookingSvc.Cancel(uint(id), userID)
	h.respondTransition(c, booking, err)
}

func (h *BookingHandler) respondTransition(c *gin.Context, booking interface{}, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, booking)
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
	case errors.Is(err, service.ErrIllegalTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "illegal transition"})
	case errors.Is(err, service.ErrInvalidCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid passcode"})
	case errors.Is(err, service.ErrExpiredCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": "passcode expired, request a new one"})
	case errors.Is(err, service.ErrTooManyAttempts):
		c.JSON(http.StatusLocked, gin.H{"error": "too many failed attempts, contact support"})
	case errors.Is(err, repository.ErrNoActiveHold):
		// ledger/state desync, an internal invariant violation
		log.Printf("booking transition: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	default:
		log.Printf("booking transition: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
	}
}

// SeekerOTP returns a fresh seeker-generated passcode for the seeker to hand
// to the provider in person. Only for confirmed bookings.
func (h *BookingHandler) SeekerOTP(c *gin.Context) {
	userID := middleware.GetUserID(c)
	booking, ok := h.confirmedBookingFor(c, userID, domain.ActorSeeker)
	if !ok {
		return
	}
	code, expiresAt, err := h.otpSvc.Request(c.Request.Context(), booking, domain.OTPPurposeSeeker)
	if err != nil {
		log.Printf("seeker otp: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate passcode"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code":       code,
		"expires_at": expiresAt,
	})
}

// ProviderOTP sends a passcode to the provider's registered phone. The code
// is never returned in the response.
func (h *BookingHandler) ProviderOTP(c *gin.Context) {
	userID := middleware.GetUserID(c)
	booking, ok := h.confirmedBookingFor(c, userID, domain.ActorProvider)
	if !ok {
		return
	}
	_, expiresAt, err := h.otpSvc.Request(c.Request.Context(), booking, domain.OTPPurposeProviderSMS)
	if err != nil {
		log.Printf("provider otp: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send passcode"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "passcode sent",
		"expires_at": expiresAt,
	})
}

func (h *BookingHandler) confirmedBookingFor(c *gin.Context, userID uint, want domain.Actor) (*models.Booking, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return nil, false
	}
	b, err := h.bookingRepo.GetByID(uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return nil, false
	}
	actor, isParty := b.ActorFor(userID)
	if !isParty || actor != want {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return nil, false
	}
	if b.Status != domain.BookingStatusConfirmed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "passcodes are only issued for confirmed bookings"})
		return nil, false
	}
	return b, true
}
