package service

import (
	"context"

	"jobtrack/internal/auth"
	"jobtrack/internal/errors"
	"jobtrack/internal/model"
	"jobtrack/internal/repository"
)

// JobChatService gates chat access on job visibility: only a job's creator
// and its listed homeowners participate.
type JobChatService interface {
	Create(ctx context.Context, jobID uint, content string, identity auth.Identity) (*model.JobChatMessage, error)
	LoadAllByJobID(ctx context.Context, jobID uint, identity auth.Identity) ([]model.JobChatMessage, error)
}

type jobChatService struct {
	messageRepo repository.JobChatMessageRepository
	jobRepo     repository.JobRepository
}

// NewJobChatService creates a new job chat service.
func NewJobChatService(messageRepo repository.JobChatMessageRepository, jobRepo repository.JobRepository) JobChatService {
	return &jobChatService{messageRepo: messageRepo, jobRepo: jobRepo}
}

// Create appends a message to a job's chat. Writing to an invisible job fails
// with not-found so the caller gets a clear error.
func (s *jobChatService) Create(ctx context.Context, jobID uint, content string, identity auth.Identity) (*model.JobChatMessage, error) {
	if identity.IsZero() {
		return nil, errors.ErrUnauthenticated
	}

	job, err := s.jobRepo.LoadByID(ctx, jobID, identity.UserID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, errors.ErrJobNotFound
	}

	return s.messageRepo.Create(ctx, repository.CreateJobChatMessagePayload{
		JobID:           jobID,
		Content:         content,
		CreatedByUserID: identity.UserID,
	})
}

// LoadAllByJobID returns a job's messages in creation order. An invisible job
// yields an empty list rather than an error: reads never reveal whether the
// job exists.
func (s *jobChatService) LoadAllByJobID(ctx context.Context, jobID uint, identity auth.Identity) ([]model.JobChatMessage, error) {
	if identity.IsZero() {
		return nil, errors.ErrUnauthenticated
	}

	job, err := s.jobRepo.LoadByID(ctx, jobID, identity.UserID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return []model.JobChatMessage{}, nil
	}

	return s.messageRepo.LoadAllByJobID(ctx, jobID)
}
