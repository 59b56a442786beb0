package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"jobtrack/internal/errors"
	"jobtrack/internal/model"
	"jobtrack/internal/repository"
)

func TestJobChatService_Create(t *testing.T) {
	t.Run("participant appends a message", func(t *testing.T) {
		jobRepo := new(MockJobRepository)
		jobRepo.On("LoadByID", mock.Anything, uint(10), uint(7)).
			Return(&model.Job{ID: 10, CreatedByUserID: 1}, nil)

		messageRepo := new(MockJobChatMessageRepository)
		messageRepo.On("Create", mock.Anything, repository.CreateJobChatMessagePayload{
			JobID:           10,
			Content:         "When can you start?",
			CreatedByUserID: 7,
		}).Return(&model.JobChatMessage{ID: 1, JobID: 10, Content: "When can you start?", CreatedByUserID: 7}, nil)

		svc := NewJobChatService(messageRepo, jobRepo)
		message, err := svc.Create(context.Background(), 10, "When can you start?", homeownerIdentity)

		assert.NoError(t, err)
		assert.Equal(t, uint(7), message.CreatedByUserID)
		messageRepo.AssertExpectations(t)
	})

	t.Run("write to invisible job fails not found", func(t *testing.T) {
		jobRepo := new(MockJobRepository)
		jobRepo.On("LoadByID", mock.Anything, uint(10), uint(8)).Return(nil, nil)

		messageRepo := new(MockJobChatMessageRepository)

		svc := NewJobChatService(messageRepo, jobRepo)
		outsider := contractorIdentity
		outsider.UserID = 8
		_, err := svc.Create(context.Background(), 10, "hello", outsider)

		assert.ErrorIs(t, err, errors.ErrJobNotFound)
		messageRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		svc := NewJobChatService(new(MockJobChatMessageRepository), new(MockJobRepository))
		_, err := svc.Create(context.Background(), 10, "hello", anonymousIdentity)
		assert.ErrorIs(t, err, errors.ErrUnauthenticated)
	})
}

func TestJobChatService_LoadAllByJobID(t *testing.T) {
	t.Run("participant reads thread in creation order", func(t *testing.T) {
		jobRepo := new(MockJobRepository)
		jobRepo.On("LoadByID", mock.Anything, uint(10), uint(7)).
			Return(&model.Job{ID: 10, CreatedByUserID: 1}, nil)

		messageRepo := new(MockJobChatMessageRepository)
		messageRepo.On("LoadAllByJobID", mock.Anything, uint(10)).Return([]model.JobChatMessage{
			{ID: 1, JobID: 10, Content: "first"},
			{ID: 2, JobID: 10, Content: "second"},
		}, nil)

		svc := NewJobChatService(messageRepo, jobRepo)
		messages, err := svc.LoadAllByJobID(context.Background(), 10, homeownerIdentity)

		assert.NoError(t, err)
		assert.Len(t, messages, 2)
		assert.Equal(t, "first", messages[0].Content)
	})

	// Reads never reveal whether a job exists: an invisible job yields an
	// empty list, unlike Create which fails not found.
	t.Run("invisible job yields empty list", func(t *testing.T) {
		jobRepo := new(MockJobRepository)
		jobRepo.On("LoadByID", mock.Anything, uint(10), uint(8)).Return(nil, nil)

		messageRepo := new(MockJobChatMessageRepository)

		svc := NewJobChatService(messageRepo, jobRepo)
		outsider := homeownerIdentity
		outsider.UserID = 8
		messages, err := svc.LoadAllByJobID(context.Background(), 10, outsider)

		assert.NoError(t, err)
		assert.Empty(t, messages)
		assert.NotNil(t, messages)
		messageRepo.AssertNotCalled(t, "LoadAllByJobID", mock.Anything, mock.Anything)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		svc := NewJobChatService(new(MockJobChatMessageRepository), new(MockJobRepository))
		_, err := svc.LoadAllByJobID(context.Background(), 10, anonymousIdentity)
		assert.ErrorIs(t, err, errors.ErrUnauthenticated)
	})
}
