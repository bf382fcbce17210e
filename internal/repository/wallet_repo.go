package repository

import (
	"errors"
	"fmt"
	"math"

	"chillconnect/internal/domain"
	"chillconnect/internal/models"

	"gorm.io/gorm"
)

var (
	ErrInsufficientBalance = errors.New("insufficient token balance")
	ErrNoActiveHold        = errors.New("no active escrow hold for booking")
)

// WalletRepository is the token ledger: it owns balances, escrow holds and
// the transaction history. Every mutation runs inside a DB transaction, and
// balance checks are done with guarded single-statement updates so reads and
// writes cannot interleave into a double spend.
type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) GetByUserID(userID uint) (*models.Wallet, error) {
	var w models.Wallet
	if err := r.db.Where("user_id = ?", userID).First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// GetOrCreate lazily creates a wallet on first token activity.
func (r *WalletRepository) GetOrCreate(userID uint) (*models.Wallet, error) {
	w, err := r.GetByUserID(userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	w = &models.Wallet{UserID: userID}
	if err := r.db.Create(w).Error; err != nil {
		return nil, err
	}
	return w, nil
}

// Reserve moves amount from the seeker's available balance into an escrow
// hold tied to the booking, all-or-nothing. The guarded update fails the
// whole transaction with ErrInsufficientBalance when the balance is short.
func (r *WalletRepository) Reserve(seekerID uint, amount int64, bookingID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txr := NewWalletRepository(tx)
		if _, err := txr.GetOrCreate(seekerID); err != nil {
			return err
		}
		res := tx.Model(&models.Wallet{}).
			Where("user_id = ? AND available_tokens >= ?", seekerID, amount).
			Updates(map[string]interface{}{
				"available_tokens": gorm.Expr("available_tokens - ?", amount),
				"escrow_tokens":    gorm.Expr("escrow_tokens + ?", amount),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientBalance
		}
		if err := tx.Create(&models.EscrowHold{
			BookingID: bookingID,
			SeekerID:  seekerID,
			Amount:    amount,
		}).Error; err != nil {
			return err
		}
		return txr.record(seekerID, domain.TxTypeEscrowHold, -amount, &bookingID)
	})
}

// Release deletes the booking's hold and splits it between the provider and
// the platform. The provider gets floor(amount * (1 - commissionRate)); the
// platform absorbs the rounding remainder so the split always sums exactly
// to the hold.
func (r *WalletRepository) Release(bookingID, providerID uint, commissionRate float64) (providerAmount, platformAmount int64, err error) {
	err = r.db.Transaction(func(tx *gorm.DB) error {
		txr := NewWalletRepository(tx)
		hold, err := txr.HoldByBookingID(bookingID)
		if err != nil {
			return err
		}
		providerAmount = int64(math.Floor(float64(hold.Amount) * (1 - commissionRate)))
		platformAmount = hold.Amount - providerAmount

		res := tx.Model(&models.Wallet{}).
			Where("user_id = ? AND escrow_tokens >= ?", hold.SeekerID, hold.Amount).
			Update("escrow_tokens", gorm.Expr("escrow_tokens - ?", hold.Amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoActiveHold
		}
		if _, err := txr.GetOrCreate(providerID); err != nil {
			return err
		}
		if err := tx.Model(&models.Wallet{}).
			Where("user_id = ?", providerID).
			Update("available_tokens", gorm.Expr("available_tokens + ?", providerAmount)).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.PlatformRevenue{BookingID: bookingID, Amount: platformAmount}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.EscrowHold{}, hold.ID).Error; err != nil {
			return err
		}
		if err := txr.record(hold.SeekerID, domain.TxTypeEscrowRelease, -hold.Amount, &bookingID); err != nil {
			return err
		}
		return txr.record(providerID, domain.TxTypeEarning, providerAmount, &bookingID)
	})
	return providerAmount, platformAmount, err
}

// Refund returns the full hold to the seeker's available balance and deletes
// the hold.
func (r *WalletRepository) Refund(bookingID uint) (int64, error) {
	var amount int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		txr := NewWalletRepository(tx)
		hold, err := txr.HoldByBookingID(bookingID)
		if err != nil {
			return err
		}
		amount = hold.Amount
		res := tx.Model(&models.Wallet{}).
			Where("user_id = ? AND escrow_tokens >= ?", hold.SeekerID, hold.Amount).
			Updates(map[string]interface{}{
				"escrow_tokens":    gorm.Expr("escrow_tokens - ?", hold.Amount),
				"available_tokens": gorm.Expr("available_tokens + ?", hold.Amount),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoActiveHold
		}
		if err := tx.Delete(&models.EscrowHold{}, hold.ID).Error; err != nil {
			return err
		}
		return txr.record(hold.SeekerID, domain.TxTypeRefund, hold.Amount, &bookingID)
	})
	return amount, err
}

// Purchase credits tokens bought through the payment gateway.
func (r *WalletRepository) Purchase(userID uint, amount int64, reference string) error {
	return r.credit(userID, amount, domain.TxTypePurchase, reference)
}

// Compensate credits dispute-resolution tokens.
func (r *WalletRepository) Compensate(userID uint, amount int64, reference string) error {
	return r.credit(userID, amount, domain.TxTypeCompensation, reference)
}

func (r *WalletRepository) credit(userID uint, amount int64, txType, reference string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txr := NewWalletRepository(tx)
		if _, err := txr.GetOrCreate(userID); err != nil {
			return err
		}
		if err := tx.Model(&models.Wallet{}).
			Where("user_id = ?", userID).
			Update("available_tokens", gorm.Expr("available_tokens + ?", amount)).Error; err != nil {
			return err
		}
		return txr.recordRef(userID, txType, amount, reference)
	})
}

// Withdraw debits available tokens and creates the pending payout record in
// one transaction, so a crash can never strand debited tokens without a
// withdrawal to reconcile against. Fails with ErrInsufficientBalance rather
// than ever going negative.
func (r *WalletRepository) Withdraw(userID uint, amount int64, reference string) (*models.Withdrawal, error) {
	wd := &models.Withdrawal{
		UserID:    userID,
		Tokens:    amount,
		Status:    domain.WithdrawalStatusPending,
		Reference: reference,
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		txr := NewWalletRepository(tx)
		res := tx.Model(&models.Wallet{}).
			Where("user_id = ? AND available_tokens >= ?", userID, amount).
			Update("available_tokens", gorm.Expr("available_tokens - ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientBalance
		}
		if err := tx.Create(wd).Error; err != nil {
			return err
		}
		return txr.recordRef(userID, domain.TxTypeWithdrawal, -amount, reference)
	})
	if err != nil {
		return nil, err
	}
	return wd, nil
}

func (r *WalletRepository) HoldByBookingID(bookingID uint) (*models.EscrowHold, error) {
	var hold models.EscrowHold
	err := r.db.Where("booking_id = ?", bookingID).First(&hold).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoActiveHold
	}
	if err != nil {
		return nil, err
	}
	return &hold, nil
}

func (r *WalletRepository) ListTransactions(userID uint, limit, offset int) ([]models.TokenTransaction, error) {
	var list []models.TokenTransaction
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *WalletRepository) record(userID uint, txType string, amount int64, bookingID *uint) error {
	ref := ""
	if bookingID != nil {
		ref = fmt.Sprintf("booking_%d", *bookingID)
	}
	w, err := r.GetByUserID(userID)
	if err != nil {
		return err
	}
	return r.db.Create(&models.TokenTransaction{
		UserID:       userID,
		Type:         txType,
		Amount:       amount,
		BalanceAfter: w.AvailableTokens,
		Reference:    ref,
		BookingID:    bookingID,
	}).Error
}

func (r *WalletRepository) recordRef(userID uint, txType string, amount int64, reference string) error {
	w, err := r.GetByUserID(userID)
	if err != nil {
		return err
	}
	return r.db.Create(&models.TokenTransaction{
		UserID:       userID,
		Type:         txType,
		Amount:       amount,
		BalanceAfter: w.AvailableTokens,
		Reference:    reference,
	}).Error
}
