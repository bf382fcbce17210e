package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"chillconnect/config"
	"chillconnect/internal/domain"
	"chillconnect/internal/middleware"
	"chillconnect/internal/repository"
	"chillconnect/pkg/payment"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WalletHandler struct {
	cfg            *config.TokenConfig
	walletRepo     *repository.WalletRepository
	withdrawalRepo *repository.WithdrawalRepository
	provider       payment.Provider
}

func NewWalletHandler(
	cfg *config.TokenConfig,
	walletRepo *repository.WalletRepository,
	withdrawalRepo *repository.WithdrawalRepository,
	provider payment.Provider,
) *WalletHandler {
	return &WalletHandler{
		cfg:            cfg,
		walletRepo:     walletRepo,
		withdrawalRepo: withdrawalRepo,
		provider:       provider,
	}
}

func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID := middleware.GetUserID(c)
	w, err := h.walletRepo.GetOrCreate(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "wallet error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"available_tokens": w.AvailableTokens,
		"escrow_tokens":    w.EscrowTokens,
	})
}

func (h *WalletHandler) ListTransactions(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.walletRepo.ListTransactions(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": list})
}

// Purchase initiates a token purchase through the payment gateway port. The
// wallet is credited only when the gateway confirms via webhook.
func (h *WalletHandler) Purchase(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Tokens int64 `json:"tokens" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	orderID := uuid.NewString()
	resp, err := h.provider.InitiatePayment(c.Request.Context(), payment.PaymentRequest{
		UserID:      userID,
		AmountINR:   req.Tokens * h.cfg.ValueINR,
		Tokens:      req.Tokens,
		OrderID:     orderID,
		Description: "token purchase",
		ExpiresIn:   30 * time.Minute,
	})
	if err != nil {
		log.Printf("purchase initiate: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment initiation failed"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"order_id":     orderID,
		"reference":    resp.Reference,
		"status":       resp.Status,
		"checkout_url": resp.CheckoutURL,
		"expires_at":   resp.ExpiresAt,
	})
}

// Withdraw debits the wallet and records the pending payout in one ledger
// transaction; the gateway port is invoked afterwards, so a payout failure
// leaves a FAILED record rather than a half-applied ledger.
func (h *WalletHandler) Withdraw(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Tokens int64 `json:"tokens" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	reference := uuid.NewString()
	wd, err := h.walletRepo.Withdraw(userID, req.Tokens, reference)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientBalance) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient tokens"})
			return
		}
		log.Printf("withdraw: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "withdrawal failed"})
		return
	}
	if err := h.provider.InitiatePayout(c.Request.Context(), payment.PayoutRequest{
		UserID:    userID,
		AmountINR: req.Tokens * h.cfg.ValueINR,
		Reference: reference,
	}); err != nil {
		log.Printf("payout initiate: %v", err)
		_ = h.withdrawalRepo.UpdateStatus(wd.ID, domain.WithdrawalStatusFailed)
		c.JSON(http.StatusAccepted, gin.H{"withdrawal": wd, "payout": "failed, will be retried"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"withdrawal": wd})
}

func (h *WalletHandler) ListWithdrawals(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.withdrawalRepo.ListByUser(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": list})
}
