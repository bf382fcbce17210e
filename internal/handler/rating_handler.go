package handler

import (
	"errors"
	"net/http"
	"strconv"

	"chillconnect/internal/domain"
	"chillconnect/internal/middleware"
	"chillconnect/internal/models"
	"chillconnect/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RatingHandler struct {
	ratingRepo  *repository.RatingRepository
	bookingRepo *repository.BookingRepository
}

func NewRatingHandler(ratingRepo *repository.RatingRepository, bookingRepo *repository.BookingRepository) *RatingHandler {
	return &RatingHandler{ratingRepo: ratingRepo, bookingRepo: bookingRepo}
}

// Create records a rating for a completed booking by one of its parties.
func (h *RatingHandler) Create(c *gin.Context) {
	raterID := middleware.GetUserID(c)
	bookingID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req struct {
		Stars   int    `json:"stars" binding:"required,min=1,max=5"`
		Comment string `json:"comment"`
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
	if !booking.IsParty(raterID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}
	if booking.Status != domain.BookingStatusCompleted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "booking not completed"})
		return
	}
	rateeID := booking.ProviderID
	if raterID == booking.ProviderID {
		rateeID = booking.SeekerID
	}
	rating := &models.Rating{
		BookingID: booking.ID,
		RaterID:   raterID,
		RateeID:   rateeID,
		Stars:     req.Stars,
		Comment:   req.Comment,
	}
	if err := h.ratingRepo.Create(rating); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "already rated"})
		return
	}
	c.JSON(http.StatusCreated, rating)
}

func (h *RatingHandler) ListForUser(c *gin.Context) {
	rateeID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.ratingRepo.ListByRatee(uint(rateeID), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	avg, count, err := h.ratingRepo.AverageForRatee(uint(rateeID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ratings": list, "average": avg, "count": count})
}
