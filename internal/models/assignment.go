package models

import (
	"time"

	"gorm.io/gorm"
)

// AssignmentPool is a named staff pool with a persisted rotation cursor.
// The cursor survives restarts and membership changes; it is advanced only
// through an atomic compare-and-swap so rotation stays exactly-once under
// concurrent callers.
type AssignmentPool struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:32;not null" json:"name"` // employee | manager
	Cursor    int       `gorm:"not null;default:0" json:"cursor"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AssignmentPool) TableName() string {
	return "assignment_pools"
}

// PoolMember is one staff slot in a pool, ordered by Position. Deactivating
// a member shrinks the rotation without resetting the cursor.
type PoolMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PoolID    uint      `gorm:"not null;index:idx_pool_member,unique" json:"pool_id"`
	StaffID   uint      `gorm:"not null;index:idx_pool_member,unique" json:"staff_id"`
	Position  int       `gorm:"not null" json:"position"`
	Active    bool      `gorm:"not null;default:true;index" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Pool  AssignmentPool `gorm:"foreignKey:PoolID" json:"-"`
	Staff User           `gorm:"foreignKey:StaffID" json:"-"`
}

func (PoolMember) TableName() string {
	return "pool_members"
}

// WorkItem is a unit of back-office work (a verification request or a
// dispute) waiting for, or held by, a staff member.
type WorkItem struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Kind       string         `gorm:"size:20;not null;index" json:"kind"` // VERIFICATION | DISPUTE
	SubjectID  uint           `gorm:"not null;index" json:"subject_id"`   // verification or dispute id
	Status     string         `gorm:"size:20;not null;index" json:"status"`
	AssignedTo *uint          `gorm:"index" json:"assigned_to"`
	ResolvedAt *time.Time     `json:"resolved_at"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (WorkItem) TableName() string {
	return "work_items"
}
