package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"jobtrack/internal/auth"
	"jobtrack/internal/errors"
	"jobtrack/internal/model"
	"jobtrack/internal/repository"
)

var (
	contractorIdentity = auth.Identity{UserID: 1, Role: model.UserTypeContractor}
	homeownerIdentity  = auth.Identity{UserID: 7, Role: model.UserTypeHomeowner}
	anonymousIdentity  = auth.Identity{}
)

func TestJobService_LoadBasedOnUser_Scoping(t *testing.T) {
	tests := []struct {
		name     string
		identity auth.Identity
		payload  LoadJobsPayload
		check    func(t *testing.T, filter repository.LoadJobsFilter)
	}{
		{
			name:     "contractor scopes by creator with defaults",
			identity: contractorIdentity,
			payload:  LoadJobsPayload{},
			check: func(t *testing.T, filter repository.LoadJobsFilter) {
				if assert.NotNil(t, filter.CreatedByUserID) {
					assert.Equal(t, uint(1), *filter.CreatedByUserID)
				}
				assert.Nil(t, filter.HomeownerID)
				assert.Equal(t, 1, filter.Page)
				assert.Equal(t, 20, filter.Limit)
				assert.Equal(t, repository.JobSortFieldCreatedAt, filter.SortField)
				assert.Equal(t, repository.JobSortAsc, filter.SortDirection)
			},
		},
		{
			name:     "homeowner scopes by homeowner",
			identity: homeownerIdentity,
			payload:  LoadJobsPayload{Page: 3, Limit: 50},
			check: func(t *testing.T, filter repository.LoadJobsFilter) {
				assert.Nil(t, filter.CreatedByUserID)
				if assert.NotNil(t, filter.HomeownerID) {
					assert.Equal(t, uint(7), *filter.HomeownerID)
				}
				assert.Equal(t, 3, filter.Page)
				assert.Equal(t, 50, filter.Limit)
			},
		},
		{
			name:     "limit clamped to 200",
			identity: contractorIdentity,
			payload:  LoadJobsPayload{Limit: 5000},
			check: func(t *testing.T, filter repository.LoadJobsFilter) {
				assert.Equal(t, 200, filter.Limit)
			},
		},
		{
			name:     "status filter and sort pass through",
			identity: contractorIdentity,
			payload: LoadJobsPayload{
				Status:        []model.JobStatus{model.JobStatusInProgress},
				SortField:     repository.JobSortFieldEndDate,
				SortDirection: repository.JobSortDesc,
			},
			check: func(t *testing.T, filter repository.LoadJobsFilter) {
				assert.Equal(t, []model.JobStatus{model.JobStatusInProgress}, filter.Status)
				assert.Equal(t, repository.JobSortFieldEndDate, filter.SortField)
				assert.Equal(t, repository.JobSortDesc, filter.SortDirection)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobRepo := new(MockJobRepository)
			var captured repository.LoadJobsFilter
			jobRepo.On("Load", mock.Anything, mock.MatchedBy(func(filter repository.LoadJobsFilter) bool {
				captured = filter
				return true
			})).Return(&repository.LoadJobsResult{Data: []model.Job{}}, nil)

			svc := NewJobService(jobRepo)
			_, err := svc.LoadBasedOnUser(context.Background(), tt.payload, tt.identity)

			assert.NoError(t, err)
			tt.check(t, captured)
		})
	}
}

func TestJobService_LoadBasedOnUser_Unauthenticated(t *testing.T) {
	svc := NewJobService(new(MockJobRepository))

	_, err := svc.LoadBasedOnUser(context.Background(), LoadJobsPayload{}, anonymousIdentity)

	assert.ErrorIs(t, err, errors.ErrUnauthenticated)
}

func TestJobService_Create(t *testing.T) {
	tests := []struct {
		name          string
		identity      auth.Identity
		description   string
		setupMock     func(*MockJobRepository)
		expectedError error
	}{
		{
			name:        "contractor creates job with trimmed description",
			identity:    contractorIdentity,
			description: "  Paint fence  ",
			setupMock: func(m *MockJobRepository) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(payload repository.CreateJobPayload) bool {
					return payload.Description == "Paint fence" && payload.CreatedByUserID == 1
				})).Return(&model.Job{ID: 10, Description: "Paint fence", Status: model.JobStatusPlanning}, nil)
			},
		},
		{
			name:          "homeowner is forbidden",
			identity:      homeownerIdentity,
			description:   "Paint fence",
			expectedError: errors.ErrForbidden,
		},
		{
			name:          "unauthenticated",
			identity:      anonymousIdentity,
			description:   "Paint fence",
			expectedError: errors.ErrUnauthenticated,
		},
		{
			name:          "whitespace-only description rejected",
			identity:      contractorIdentity,
			description:   "   ",
			expectedError: errors.ErrEmptyDescription,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobRepo := new(MockJobRepository)
			if tt.setupMock != nil {
				tt.setupMock(jobRepo)
			}

			svc := NewJobService(jobRepo)
			job, err := svc.Create(context.Background(), CreateJobPayload{
				Description: tt.description,
				Location:    "12 Elm Street",
				Cost:        decimal.NewFromInt(100),
			}, tt.identity)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, job)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, model.JobStatusPlanning, job.Status)
			}
			jobRepo.AssertExpectations(t)
		})
	}
}

func TestJobService_LoadByID_InvisibleIsAbsentNotError(t *testing.T) {
	jobRepo := new(MockJobRepository)
	jobRepo.On("LoadByID", mock.Anything, uint(42), uint(7)).Return(nil, nil)

	svc := NewJobService(jobRepo)
	job, err := svc.LoadByID(context.Background(), 42, homeownerIdentity)

	assert.NoError(t, err)
	assert.Nil(t, job)
}

func TestJobService_Update(t *testing.T) {
	description := "  Repaint gate  "

	tests := []struct {
		name          string
		identity      auth.Identity
		description   string
		setupMock     func(*MockJobRepository)
		expectedError error
	}{
		{
			name:        "owner updates with trimmed description",
			identity:    contractorIdentity,
			description: description,
			setupMock: func(m *MockJobRepository) {
				m.On("LoadByID", mock.Anything, uint(10), uint(1)).
					Return(&model.Job{ID: 10, CreatedByUserID: 1}, nil)
				m.On("Update", mock.Anything, mock.MatchedBy(func(payload repository.UpdateJobPayload) bool {
					return payload.ID == 10 && payload.Description != nil && *payload.Description == "Repaint gate"
				})).Return(&model.Job{ID: 10, Description: "Repaint gate"}, nil)
			},
		},
		{
			name:          "homeowner is forbidden",
			identity:      homeownerIdentity,
			description:   description,
			expectedError: errors.ErrForbidden,
		},
		{
			name:        "absent job is not found",
			identity:    contractorIdentity,
			description: description,
			setupMock: func(m *MockJobRepository) {
				m.On("LoadByID", mock.Anything, uint(10), uint(1)).Return(nil, nil)
			},
			expectedError: errors.ErrJobNotFound,
		},
		{
			name:        "non-owner contractor is forbidden",
			identity:    contractorIdentity,
			description: description,
			setupMock: func(m *MockJobRepository) {
				m.On("LoadByID", mock.Anything, uint(10), uint(1)).
					Return(&model.Job{ID: 10, CreatedByUserID: 99}, nil)
			},
			expectedError: errors.ErrForbidden,
		},
		{
			name:          "whitespace-only description rejected before load",
			identity:      contractorIdentity,
			description:   "   ",
			expectedError: errors.ErrEmptyDescription,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobRepo := new(MockJobRepository)
			if tt.setupMock != nil {
				tt.setupMock(jobRepo)
			}

			svc := NewJobService(jobRepo)
			_, err := svc.Update(context.Background(), 10, UpdateJobPayload{Description: &tt.description}, tt.identity)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			jobRepo.AssertExpectations(t)
		})
	}
}

func TestJobService_Delete(t *testing.T) {
	deletedAt := time.Now()

	tests := []struct {
		name          string
		identity      auth.Identity
		job           *model.Job
		expectDelete  bool
		expectedError error
	}{
		{
			name:         "owner deletes",
			identity:     contractorIdentity,
			job:          &model.Job{ID: 10, CreatedByUserID: 1},
			expectDelete: true,
		},
		{
			name:          "homeowner is forbidden",
			identity:      homeownerIdentity,
			expectedError: errors.ErrForbidden,
		},
		{
			name:          "absent job is not found",
			identity:      contractorIdentity,
			job:           nil,
			expectedError: errors.ErrJobNotFound,
		},
		{
			name:          "non-owner contractor is forbidden",
			identity:      contractorIdentity,
			job:           &model.Job{ID: 10, CreatedByUserID: 99},
			expectedError: errors.ErrForbidden,
		},
		{
			name:          "second delete conflicts",
			identity:      contractorIdentity,
			job:           &model.Job{ID: 10, CreatedByUserID: 1, DeletedAt: &deletedAt},
			expectedError: errors.ErrJobAlreadyDeleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobRepo := new(MockJobRepository)
			if tt.identity.IsContractor() {
				if tt.job != nil {
					jobRepo.On("LoadByID", mock.Anything, uint(10), tt.identity.UserID).Return(tt.job, nil)
				} else {
					jobRepo.On("LoadByID", mock.Anything, uint(10), tt.identity.UserID).Return(nil, nil)
				}
			}
			if tt.expectDelete {
				jobRepo.On("Delete", mock.Anything, uint(10), uint(1)).Return(nil)
			}

			svc := NewJobService(jobRepo)
			err := svc.Delete(context.Background(), 10, tt.identity)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			jobRepo.AssertExpectations(t)
		})
	}
}

// ChangeStatus deliberately skips the ownership check that Update and Delete
// perform; this pins the behavior so an accidental "fix" fails loudly.
func TestJobService_ChangeStatus_NoOwnershipCheck(t *testing.T) {
	jobRepo := new(MockJobRepository)
	jobRepo.On("LoadByID", mock.Anything, uint(10), uint(1)).
		Return(&model.Job{ID: 10, CreatedByUserID: 99}, nil)
	jobRepo.On("Update", mock.Anything, mock.MatchedBy(func(payload repository.UpdateJobPayload) bool {
		return payload.ID == 10 &&
			payload.Status != nil && *payload.Status == model.JobStatusCompleted &&
			payload.Description == nil && payload.Tasks == nil && payload.HomeownerIDs == nil
	})).Return(&model.Job{ID: 10, Status: model.JobStatusCompleted}, nil)

	svc := NewJobService(jobRepo)
	job, err := svc.ChangeStatus(context.Background(), 10, model.JobStatusCompleted, contractorIdentity)

	assert.NoError(t, err)
	assert.Equal(t, model.JobStatusCompleted, job.Status)
	jobRepo.AssertExpectations(t)
}

func TestJobService_ChangeStatus_AnyTransitionAllowed(t *testing.T) {
	jobRepo := new(MockJobRepository)
	jobRepo.On("LoadByID", mock.Anything, uint(10), uint(1)).
		Return(&model.Job{ID: 10, CreatedByUserID: 1, Status: model.JobStatusCompleted}, nil)
	jobRepo.On("Update", mock.Anything, mock.Anything).
		Return(&model.Job{ID: 10, Status: model.JobStatusPlanning}, nil)

	svc := NewJobService(jobRepo)
	job, err := svc.ChangeStatus(context.Background(), 10, model.JobStatusPlanning, contractorIdentity)

	assert.NoError(t, err)
	assert.Equal(t, model.JobStatusPlanning, job.Status)
}

func TestJobService_ChangeStatus_HomeownerForbidden(t *testing.T) {
	svc := NewJobService(new(MockJobRepository))

	_, err := svc.ChangeStatus(context.Background(), 10, model.JobStatusCanceled, homeownerIdentity)

	assert.ErrorIs(t, err, errors.ErrForbidden)
}

func TestJobService_LoadTasksByJobID_AnyRoleReads(t *testing.T) {
	jobRepo := new(MockJobRepository)
	jobRepo.On("LoadTasksByJobID", mock.Anything, uint(10)).
		Return([]model.JobTask{{ID: 5, JobID: 10}}, nil)

	svc := NewJobService(jobRepo)
	tasks, err := svc.LoadTasksByJobID(context.Background(), 10, homeownerIdentity)

	assert.NoError(t, err)
	assert.Len(t, tasks, 1)
}

// CompleteJobTask stamps the task without loading the parent job; this pins
// the missing ownership check the same way ChangeStatus does.
func TestJobService_CompleteJobTask(t *testing.T) {
	jobRepo := new(MockJobRepository)
	jobRepo.On("UpdateJobTask", mock.Anything, mock.MatchedBy(func(payload repository.CompleteTaskPayload) bool {
		return payload.ID == 5 && payload.CompletedByUserID == 1 && !payload.CompletedAt.IsZero()
	})).Return(&model.JobTask{ID: 5, CompletedByUserID: uintPtr(1)}, nil)

	svc := NewJobService(jobRepo)
	task, err := svc.CompleteJobTask(context.Background(), 5, contractorIdentity)

	assert.NoError(t, err)
	assert.Equal(t, uint(5), task.ID)
	jobRepo.AssertNotCalled(t, "LoadByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestJobService_CompleteJobTask_Errors(t *testing.T) {
	t.Run("homeowner is forbidden", func(t *testing.T) {
		svc := NewJobService(new(MockJobRepository))
		_, err := svc.CompleteJobTask(context.Background(), 5, homeownerIdentity)
		assert.ErrorIs(t, err, errors.ErrForbidden)
	})

	t.Run("missing task is not found", func(t *testing.T) {
		jobRepo := new(MockJobRepository)
		jobRepo.On("UpdateJobTask", mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)

		svc := NewJobService(jobRepo)
		_, err := svc.CompleteJobTask(context.Background(), 5, contractorIdentity)
		assert.ErrorIs(t, err, errors.ErrTaskNotFound)
	})
}

func uintPtr(v uint) *uint {
	return &v
}
