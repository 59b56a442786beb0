package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"jobtrack/internal/auth"
	"jobtrack/internal/errors"
	"jobtrack/internal/model"
	"jobtrack/internal/reconcile"
	"jobtrack/internal/repository"
)

const (
	defaultJobsPage  = 1
	defaultJobsLimit = 20
	maxJobsLimit     = 200
)

// LoadJobsPayload filters a job listing. Zero Page/Limit fall back to the
// defaults; Limit is clamped to maxJobsLimit.
type LoadJobsPayload struct {
	Page          int
	Limit         int
	Status        []model.JobStatus
	SortField     repository.JobSortField
	SortDirection repository.JobSortDirection
}

// CreateJobPayload carries a new job as submitted by a contractor.
type CreateJobPayload struct {
	Description  string
	Location     string
	Cost         decimal.Decimal
	HomeownerIDs []uint
	StartDate    *time.Time
	EndDate      *time.Time
	Tasks        []repository.CreateTaskPayload
}

// UpdateJobPayload is a partial job update. Nil fields are untouched; a
// non-nil HomeownerIDs replaces the homeowner set; a non-nil Tasks list is
// reconciled against the persisted tasks.
type UpdateJobPayload struct {
	Description  *string
	Location     *string
	Cost         *decimal.Decimal
	StartDate    *time.Time
	EndDate      *time.Time
	HomeownerIDs []uint
	Tasks        []reconcile.TaskPatch
}

// JobService is the authorization and business-rule layer above the job
// repository. Every operation requires a resolved identity and enforces role
// and ownership rules before delegating.
type JobService interface {
	LoadBasedOnUser(ctx context.Context, payload LoadJobsPayload, identity auth.Identity) (*repository.LoadJobsResult, error)
	Create(ctx context.Context, payload CreateJobPayload, identity auth.Identity) (*model.Job, error)
	LoadByID(ctx context.Context, id uint, identity auth.Identity) (*model.Job, error)
	Update(ctx context.Context, id uint, payload UpdateJobPayload, identity auth.Identity) (*model.Job, error)
	Delete(ctx context.Context, id uint, identity auth.Identity) error
	ChangeStatus(ctx context.Context, id uint, status model.JobStatus, identity auth.Identity) (*model.Job, error)
	LoadTasksByJobID(ctx context.Context, jobID uint, identity auth.Identity) ([]model.JobTask, error)
	CompleteJobTask(ctx context.Context, taskID uint, identity auth.Identity) (*model.JobTask, error)
	LoadHomeownerIDs(ctx context.Context, jobIDs []uint, identity auth.Identity) (map[uint][]uint, error)
}

type jobService struct {
	jobRepo repository.JobRepository
}

// NewJobService creates a new job service.
func NewJobService(jobRepo repository.JobRepository) JobService {
	return &jobService{jobRepo: jobRepo}
}

// LoadBasedOnUser lists the jobs visible to the identity: contractors see
// jobs they created, homeowners see jobs they are listed on.
func (s *jobService) LoadBasedOnUser(ctx context.Context, payload LoadJobsPayload, identity auth.Identity) (*repository.LoadJobsResult, error) {
	if identity.IsZero() {
		return nil, errors.ErrUnauthenticated
	}

	page := payload.Page
	if page < 1 {
		page = defaultJobsPage
	}
	limit := payload.Limit
	if limit < 1 {
		limit = defaultJobsLimit
	}
	if limit > maxJobsLimit {
		limit = maxJobsLimit
	}
	sortField := payload.SortField
	if sortField == "" {
		sortField = repository.JobSortFieldCreatedAt
	}
	sortDirection := payload.SortDirection
	if sortDirection == "" {
		sortDirection = repository.JobSortAsc
	}

	filter := repository.LoadJobsFilter{
		Status:        payload.Status,
		Page:          page,
		Limit:         limit,
		SortField:     sortField,
		SortDirection: sortDirection,
	}
	if identity.IsContractor() {
		filter.CreatedByUserID = &identity.UserID
	} else {
		filter.HomeownerID = &identity.UserID
	}

	return s.jobRepo.Load(ctx, filter)
}

// Create creates a job owned by the calling contractor. New jobs always start
// in PLANNING.
func (s *jobService) Create(ctx context.Context, payload CreateJobPayload, identity auth.Identity) (*model.Job, error) {
	if identity.IsZero() {
		return nil, errors.ErrUnauthenticated
	}
	if !identity.IsContractor() {
		return nil, errors.ErrForbidden
	}

	payload.Description = strings.TrimSpace(payload.Description)
	if payload.Description == "" {
		return nil, errors.ErrEmptyDescription
	}

	return s.jobRepo.Create(ctx, repository.CreateJobPayload{
		Description:     payload.Description,
		Location:        payload.Location,
		Cost:            payload.Cost,
		CreatedByUserID: identity.UserID,
		HomeownerIDs:    payload.HomeownerIDs,
		StartDate:       payload.StartDate,
		EndDate:         payload.EndDate,
		Tasks:           payload.Tasks,
	})
}

// LoadByID returns the job when it is visible to the identity, (nil, nil)
// otherwise. Missing and forbidden are indistinguishable on purpose.
func (s *jobService) LoadByID(ctx context.Context, id uint, identity auth.Identity) (*model.Job, error) {
	if identity.IsZero() {
		return nil, errors.ErrUnauthenticated
	}
	return s.jobRepo.LoadByID(ctx, id, identity.UserID)
}

// Update applies a partial update to a job owned by the calling contractor.
func (s *jobService) Update(ctx context.Context, id uint, payload UpdateJobPayload, identity auth.Identity) (*model.Job, error) {
	if identity.IsZero() {
		return nil, errors.ErrUnauthenticated
	}
	if !identity.IsContractor() {
		return nil, errors.ErrForbidden
	}

	if payload.Description != nil {
		trimmed := strings.TrimSpace(*payload.Description)
		if trimmed == "" {
			return nil, errors.ErrEmptyDescription
		}
		payload.Description = &trimmed
	}

	job, err := s.jobRepo.LoadByID(ctx, id, identity.UserID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, errors.ErrJobNotFound
	}
	if job.CreatedByUserID != identity.UserID {
		return nil, errors.ErrForbidden
	}

	return s.jobRepo.Update(ctx, repository.UpdateJobPayload{
		ID:           id,
		Description:  payload.Description,
		Location:     payload.Location,
		Cost:         payload.Cost,
		StartDate:    payload.StartDate,
		EndDate:      payload.EndDate,
		HomeownerIDs: payload.HomeownerIDs,
		Tasks:        payload.Tasks,
	})
}

// Delete soft-deletes a job owned by the calling contractor. Deleting an
// already-deleted job is a conflict, not a no-op.
func (s *jobService) Delete(ctx context.Context, id uint, identity auth.Identity) error {
	if identity.IsZero() {
		return errors.ErrUnauthenticated
	}
	if !identity.IsContractor() {
		return errors.ErrForbidden
	}

	job, err := s.jobRepo.LoadByID(ctx, id, identity.UserID)
	if err != nil {
		return err
	}
	if job == nil {
		return errors.ErrJobNotFound
	}
	if job.CreatedByUserID != identity.UserID {
		return errors.ErrForbidden
	}
	if job.DeletedAt != nil {
		return errors.ErrJobAlreadyDeleted
	}

	return s.jobRepo.Delete(ctx, id, identity.UserID)
}

// ChangeStatus moves a job to any of the four statuses; there is no
// transition graph. Unlike Update/Delete this checks role and visibility but
// not ownership, matching the behavior the product shipped with.
func (s *jobService) ChangeStatus(ctx context.Context, id uint, status model.JobStatus, identity auth.Identity) (*model.Job, error) {
	if identity.IsZero() {
		return nil, errors.ErrUnauthenticated
	}
	if !identity.IsContractor() {
		return nil, errors.ErrForbidden
	}

	job, err := s.jobRepo.LoadByID(ctx, id, identity.UserID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, errors.ErrJobNotFound
	}

	return s.jobRepo.Update(ctx, repository.UpdateJobPayload{
		ID:     id,
		Status: &status,
	})
}

// LoadTasksByJobID returns a job's tasks. Any authenticated role may read.
func (s *jobService) LoadTasksByJobID(ctx context.Context, jobID uint, identity auth.Identity) ([]model.JobTask, error) {
	if identity.IsZero() {
		return nil, errors.ErrUnauthenticated
	}
	return s.jobRepo.LoadTasksByJobID(ctx, jobID)
}

// LoadHomeownerIDs returns the homeowner ids of each listed job in one
// query, for response assembly by the facade.
func (s *jobService) LoadHomeownerIDs(ctx context.Context, jobIDs []uint, identity auth.Identity) (map[uint][]uint, error) {
	if identity.IsZero() {
		return nil, errors.ErrUnauthenticated
	}
	return s.jobRepo.LoadHomeownerIDsByJobIDs(ctx, jobIDs)
}

// CompleteJobTask stamps a task completed by the calling contractor. The
// parent job's ownership is not checked, matching the behavior the product
// shipped with.
func (s *jobService) CompleteJobTask(ctx context.Context, taskID uint, identity auth.Identity) (*model.JobTask, error) {
	if identity.IsZero() {
		return nil, errors.ErrUnauthenticated
	}
	if !identity.IsContractor() {
		return nil, errors.ErrForbidden
	}

	task, err := s.jobRepo.UpdateJobTask(ctx, repository.CompleteTaskPayload{
		ID:                taskID,
		CompletedByUserID: identity.UserID,
		CompletedAt:       time.Now(),
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}
