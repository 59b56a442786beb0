package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"jobtrack/internal/model"
	"jobtrack/internal/repository"
)

// MockJobRepository is a mock implementation of JobRepository.
type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) Load(ctx context.Context, filter repository.LoadJobsFilter) (*repository.LoadJobsResult, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.LoadJobsResult), args.Error(1)
}

func (m *MockJobRepository) Create(ctx context.Context, payload repository.CreateJobPayload) (*model.Job, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Job), args.Error(1)
}

func (m *MockJobRepository) Update(ctx context.Context, payload repository.UpdateJobPayload) (*model.Job, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Job), args.Error(1)
}

func (m *MockJobRepository) LoadByID(ctx context.Context, id, requestingUserID uint) (*model.Job, error) {
	args := m.Called(ctx, id, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Job), args.Error(1)
}

func (m *MockJobRepository) Delete(ctx context.Context, id, deletedByUserID uint) error {
	args := m.Called(ctx, id, deletedByUserID)
	return args.Error(0)
}

func (m *MockJobRepository) LoadTasksByJobID(ctx context.Context, jobID uint) ([]model.JobTask, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.JobTask), args.Error(1)
}

func (m *MockJobRepository) UpdateJobTask(ctx context.Context, payload repository.CompleteTaskPayload) (*model.JobTask, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.JobTask), args.Error(1)
}

func (m *MockJobRepository) LoadHomeownerIDsByJobIDs(ctx context.Context, jobIDs []uint) (map[uint][]uint, error) {
	args := m.Called(ctx, jobIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint][]uint), args.Error(1)
}

// MockJobChatMessageRepository is a mock implementation of JobChatMessageRepository.
type MockJobChatMessageRepository struct {
	mock.Mock
}

func (m *MockJobChatMessageRepository) Create(ctx context.Context, payload repository.CreateJobChatMessagePayload) (*model.JobChatMessage, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.JobChatMessage), args.Error(1)
}

func (m *MockJobChatMessageRepository) LoadAllByJobID(ctx context.Context, jobID uint) ([]model.JobChatMessage, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.JobChatMessage), args.Error(1)
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, role model.UserType, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, role, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uint, model.UserType, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uint), args.Get(1).(model.UserType), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}
