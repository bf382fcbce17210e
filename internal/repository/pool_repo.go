package repository

import (
	"errors"

	"chillconnect/internal/models"

	"gorm.io/gorm"
)

var (
	ErrNoAvailableStaff = errors.New("no available staff in pool")
	ErrCursorContention = errors.New("pool cursor contention, retry")
)

// cursorRetries bounds the compare-and-swap loop in Next. Contention on a
// single pool row is short-lived, so a handful of retries is plenty.
const cursorRetries = 8

type PoolRepository struct {
	db *gorm.DB
}

func NewPoolRepository(db *gorm.DB) *PoolRepository {
	return &PoolRepository{db: db}
}

func (r *PoolRepository) GetByName(name string) (*models.AssignmentPool, error) {
	var p models.AssignmentPool
	if err := r.db.Where("name = ?", name).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PoolRepository) EnsurePool(name string) (*models.AssignmentPool, error) {
	p, err := r.GetByName(name)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	p = &models.AssignmentPool{Name: name}
	if err := r.db.Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// ActiveMembers returns the rotation order: active members sorted by their
// fixed position.
func (r *PoolRepository) ActiveMembers(poolID uint) ([]models.PoolMember, error) {
	var list []models.PoolMember
	err := r.db.Where("pool_id = ? AND active = ?", poolID, true).
		Order("position ASC").Find(&list).Error
	return list, err
}

// Next picks members[cursor mod n] and advances the persisted cursor with an
// optimistic compare-and-swap, so rotation is exactly-once per call no matter
// how many callers race. Membership shrink is handled by the modulo clamp;
// the cursor is never reset.
func (r *PoolRepository) Next(name string) (uint, error) {
	for i := 0; i < cursorRetries; i++ {
		pool, err := r.GetByName(name)
		if err != nil {
			return 0, err
		}
		members, err := r.ActiveMembers(pool.ID)
		if err != nil {
			return 0, err
		}
		if len(members) == 0 {
			return 0, ErrNoAvailableStaff
		}
		idx := pool.Cursor % len(members)
		next := (idx + 1) % len(members)
		res := r.db.Model(&models.AssignmentPool{}).
			Where("id = ? AND cursor = ?", pool.ID, pool.Cursor).
			Update("cursor", next)
		if res.Error != nil {
			return 0, res.Error
		}
		if res.RowsAffected == 1 {
			return members[idx].StaffID, nil
		}
		// lost the CAS race, reread and retry
	}
	return 0, ErrCursorContention
}

// AddMember appends a staff member at the end of the rotation order.
func (r *PoolRepository) AddMember(poolName string, staffID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txr := NewPoolRepository(tx)
		pool, err := txr.EnsurePool(poolName)
		if err != nil {
			return err
		}
		var existing models.PoolMember
		err = tx.Where("pool_id = ? AND staff_id = ?", pool.ID, staffID).First(&existing).Error
		if err == nil {
			return tx.Model(&existing).Update("active", true).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		var maxPos int
		row := tx.Model(&models.PoolMember{}).Where("pool_id = ?", pool.ID).
			Select("COALESCE(MAX(position), -1)").Row()
		if err := row.Scan(&maxPos); err != nil {
			return err
		}
		return tx.Create(&models.PoolMember{
			PoolID:   pool.ID,
			StaffID:  staffID,
			Position: maxPos + 1,
			Active:   true,
		}).Error
	})
}

// SetMemberActive activates or deactivates a member without touching the
// cursor; fairness continuity is preserved by the modulo clamp in Next.
func (r *PoolRepository) SetMemberActive(poolName string, staffID uint, active bool) error {
	pool, err := r.GetByName(poolName)
	if err != nil {
		return err
	}
	return r.db.Model(&models.PoolMember{}).
		Where("pool_id = ? AND staff_id = ?", pool.ID, staffID).
		Update("active", active).Error
}
