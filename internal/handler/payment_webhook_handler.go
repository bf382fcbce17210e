package handler

import (
	"log"
	"net/http"

	"chillconnect/internal/domain"
	"chillconnect/internal/repository"
	"chillconnect/internal/service"
	"chillconnect/pkg/payment"

	"github.com/gin-gonic/gin"
)

// PaymentWebhookHandler receives gateway confirmations for token purchases
// and payouts. The gateway reference is re-verified through the port before
// any credit.
type PaymentWebhookHandler struct {
	walletRepo     *repository.WalletRepository
	withdrawalRepo *repository.WithdrawalRepository
	provider       payment.Provider
	notifSvc       *service.NotificationService
}

func NewPaymentWebhookHandler(walletRepo *repository.WalletRepository, withdrawalRepo *repository.WithdrawalRepository, provider payment.Provider, notifSvc *service.NotificationService) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{walletRepo: walletRepo, withdrawalRepo: withdrawalRepo, provider: provider, notifSvc: notifSvc}
}

func (h *PaymentWebhookHandler) PurchaseConfirmed(c *gin.Context) {
	var req struct {
		UserID    uint   `json:"user_id" binding:"required"`
		Tokens    int64  `json:"tokens" binding:"required,min=1"`
		Reference string `json:"reference" binding:"required"`
		Status    string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Status != "COMPLETED" {
		c.JSON(http.StatusOK, gin.H{"message": "ignored"})
		return
	}
	ok, err := h.provider.VerifyPayment(c.Request.Context(), req.Reference)
	if err != nil || !ok {
		log.Printf("webhook: payment verification failed ref=%s: %v", req.Reference, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "verification failed"})
		return
	}
	if err := h.walletRepo.Purchase(req.UserID, req.Tokens, req.Reference); err != nil {
		log.Printf("webhook: credit failed ref=%s: %v", req.Reference, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "credit failed"})
		return
	}
	h.notifSvc.NotifyPaymentConfirmed(req.UserID, req.Tokens, req.Reference)
	c.JSON(http.StatusOK, gin.H{"message": "credited"})
}

// PayoutConfirmed settles a pending withdrawal. A failed payout puts the
// debited tokens back so the ledger matches what actually left the platform.
func (h *PaymentWebhookHandler) PayoutConfirmed(c *gin.Context) {
	var req struct {
		Reference string `json:"reference" binding:"required"`
		Status    string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	wd, err := h.withdrawalRepo.GetByReference(req.Reference)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown reference"})
		return
	}
	if wd.Status != domain.WithdrawalStatusPending {
		c.JSON(http.StatusOK, gin.H{"message": "already settled"})
		return
	}
	switch req.Status {
	case "COMPLETED":
		if err := h.withdrawalRepo.UpdateStatus(wd.ID, domain.WithdrawalStatusCompleted); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
			return
		}
	case "FAILED":
		if err := h.withdrawalRepo.UpdateStatus(wd.ID, domain.WithdrawalStatusFailed); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
			return
		}
		if err := h.walletRepo.Compensate(wd.UserID, wd.Tokens, req.Reference); err != nil {
			log.Printf("webhook: payout compensation failed ref=%s: %v", req.Reference, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "compensation failed"})
			return
		}
	default:
		c.JSON(http.StatusOK, gin.H{"message": "ignored"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "settled"})
}
