package repository

import (
	"time"

	"chillconnect/internal/domain"
	"chillconnect/internal/models"

	"gorm.io/gorm"
)

type WorkItemRepository struct {
	db *gorm.DB
}

func NewWorkItemRepository(db *gorm.DB) *WorkItemRepository {
	return &WorkItemRepository{db: db}
}

func (r *WorkItemRepository) Create(item *models.WorkItem) error {
	return r.db.Create(item).Error
}

func (r *WorkItemRepository) GetByID(id uint) (*models.WorkItem, error) {
	var item models.WorkItem
	if err := r.db.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *WorkItemRepository) Assign(id, staffID uint) error {
	return r.db.Model(&models.WorkItem{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      domain.WorkItemStatusAssigned,
			"assigned_to": staffID,
		}).Error
}

func (r *WorkItemRepository) Resolve(id uint) error {
	now := time.Now()
	return r.db.Model(&models.WorkItem{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      domain.WorkItemStatusResolved,
			"resolved_at": now,
		}).Error
}

func (r *WorkItemRepository) ListByAssignee(staffID uint, limit, offset int) ([]models.WorkItem, error) {
	var list []models.WorkItem
	err := r.db.Where("assigned_to = ? AND status = ?", staffID, domain.WorkItemStatusAssigned).
		Order("created_at ASC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// ResolveBySubject resolves the work item backing a verification or dispute
// once its terminal decision is recorded.
func (r *WorkItemRepository) ResolveBySubject(kind string, subjectID uint) error {
	now := time.Now()
	return r.db.Model(&models.WorkItem{}).
		Where("kind = ? AND subject_id = ? AND status <> ?", kind, subjectID, domain.WorkItemStatusResolved).
		Updates(map[string]interface{}{
			"status":      domain.WorkItemStatusResolved,
			"resolved_at": now,
		}).Error
}

// ListUnassigned returns queued items of one kind, oldest first, for the
// retry sweep after pool membership changes.
func (r *WorkItemRepository) ListUnassigned(kind string) ([]models.WorkItem, error) {
	var list []models.WorkItem
	err := r.db.Where("kind = ? AND status = ?", kind, domain.WorkItemStatusUnassigned).
		Order("created_at ASC").Find(&list).Error
	return list, err
}
