package service

import (
	"errors"
	"log"

	"chillconnect/internal/domain"
	"chillconnect/internal/models"
	"chillconnect/internal/repository"

	"gorm.io/gorm"
)

// AssignmentService distributes back-office work to staff pools in strict
// round-robin order: verification requests to the employee pool, disputes to
// the manager pool. When a pool is empty the item stays queued and is picked
// up by the sweep when a staff member becomes active again.
type AssignmentService struct {
	pools *repository.PoolRepository
	items *repository.WorkItemRepository
	notif *NotificationService
}

func NewAssignmentService(db *gorm.DB, notif *NotificationService) *AssignmentService {
	return &AssignmentService{
		pools: repository.NewPoolRepository(db),
		items: repository.NewWorkItemRepository(db),
		notif: notif,
	}
}

// PoolForKind maps a work item kind to the pool that handles it.
func PoolForKind(kind string) string {
	if kind == domain.WorkItemKindDispute {
		return domain.PoolManager
	}
	return domain.PoolEmployee
}

func kindForPool(pool string) string {
	if pool == domain.PoolManager {
		return domain.WorkItemKindDispute
	}
	return domain.WorkItemKindVerification
}

// Next rotates the pool cursor and returns the selected staff id.
func (s *AssignmentService) Next(pool string) (uint, error) {
	return s.pools.Next(pool)
}

// Assign pulls the next staff member for the item's pool. On
// ErrNoAvailableStaff the item is left UNASSIGNED for a later sweep and the
// error is returned so callers can tell queued from assigned.
func (s *AssignmentService) Assign(item *models.WorkItem) (uint, error) {
	staffID, err := s.pools.Next(PoolForKind(item.Kind))
	if err != nil {
		return 0, err
	}
	if err := s.items.Assign(item.ID, staffID); err != nil {
		return 0, err
	}
	item.Status = domain.WorkItemStatusAssigned
	item.AssignedTo = &staffID
	s.notif.NotifyWorkAssigned(staffID, item.ID, item.Kind)
	return staffID, nil
}

// Enqueue creates the work item and tries to assign it immediately. An empty
// pool is not an error: the item simply stays queued.
func (s *AssignmentService) Enqueue(kind string, subjectID uint) (*models.WorkItem, error) {
	item := &models.WorkItem{
		Kind:      kind,
		SubjectID: subjectID,
		Status:    domain.WorkItemStatusUnassigned,
	}
	if err := s.items.Create(item); err != nil {
		return nil, err
	}
	if _, err := s.Assign(item); err != nil {
		if errors.Is(err, repository.ErrNoAvailableStaff) {
			log.Printf("assignment: %s %d queued, pool %s empty", kind, item.ID, PoolForKind(kind))
			return item, nil
		}
		return nil, err
	}
	return item, nil
}

// Reassign hands a work item to a named colleague. This bypasses rotation
// and leaves the pool cursor untouched.
func (s *AssignmentService) Reassign(itemID, newStaffID uint) error {
	item, err := s.items.GetByID(itemID)
	if err != nil {
		return err
	}
	if err := s.items.Assign(item.ID, newStaffID); err != nil {
		return err
	}
	s.notif.NotifyWorkAssigned(newStaffID, item.ID, item.Kind)
	return nil
}

// ActivateStaff marks the member active in their pool and sweeps the queue
// of items that were waiting for one.
func (s *AssignmentService) ActivateStaff(pool string, staffID uint) error {
	if err := s.pools.AddMember(pool, staffID); err != nil {
		return err
	}
	return s.Sweep(pool)
}

func (s *AssignmentService) DeactivateStaff(pool string, staffID uint) error {
	return s.pools.SetMemberActive(pool, staffID, false)
}

// Sweep retries assignment for every queued item of the pool's kind, oldest
// first, stopping as soon as the pool runs dry again.
func (s *AssignmentService) Sweep(pool string) error {
	queued, err := s.items.ListUnassigned(kindForPool(pool))
	if err != nil {
		return err
	}
	for i := range queued {
		if _, err := s.Assign(&queued[i]); err != nil {
			if errors.Is(err, repository.ErrNoAvailableStaff) {
				return nil
			}
			return err
		}
	}
	return nil
}
