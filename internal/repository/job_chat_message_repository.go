package repository

import (
	"context"

	"gorm.io/gorm"

	"jobtrack/internal/model"
)

// CreateJobChatMessagePayload carries a new chat message.
type CreateJobChatMessagePayload struct {
	JobID           uint
	Content         string
	CreatedByUserID uint
}

// JobChatMessageRepository defines chat message persistence operations.
// Messages are append-only.
type JobChatMessageRepository interface {
	Create(ctx context.Context, payload CreateJobChatMessagePayload) (*model.JobChatMessage, error)
	LoadAllByJobID(ctx context.Context, jobID uint) ([]model.JobChatMessage, error)
}

type jobChatMessageRepository struct {
	db *gorm.DB
}

// NewJobChatMessageRepository creates a new chat message repository.
func NewJobChatMessageRepository(db *gorm.DB) JobChatMessageRepository {
	return &jobChatMessageRepository{db: db}
}

func (r *jobChatMessageRepository) Create(ctx context.Context, payload CreateJobChatMessagePayload) (*model.JobChatMessage, error) {
	message := model.JobChatMessage{
		JobID:           payload.JobID,
		Content:         payload.Content,
		CreatedByUserID: payload.CreatedByUserID,
	}
	if err := r.db.WithContext(ctx).Create(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// LoadAllByJobID returns a job's messages in creation order.
func (r *jobChatMessageRepository) LoadAllByJobID(ctx context.Context, jobID uint) ([]model.JobChatMessage, error) {
	var messages []model.JobChatMessage
	if err := r.db.WithContext(ctx).Where("job_id = ?", jobID).Order("id ASC").Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}
