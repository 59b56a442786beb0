package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"jobtrack/internal/model"
	"jobtrack/internal/reconcile"
)

// JobSortField selects the column used to order job listings.
type JobSortField string

const (
	JobSortFieldStartDate JobSortField = "START_DATE"
	JobSortFieldEndDate   JobSortField = "END_DATE"
	JobSortFieldStatus    JobSortField = "STATUS"
	JobSortFieldUpdatedAt JobSortField = "UPDATED_AT"
	JobSortFieldCreatedAt JobSortField = "CREATED_AT"
)

// JobSortDirection is the order direction for job listings.
type JobSortDirection string

const (
	JobSortAsc  JobSortDirection = "ASC"
	JobSortDesc JobSortDirection = "DESC"
)

var jobSortColumns = map[JobSortField]string{
	JobSortFieldStartDate: "start_date",
	JobSortFieldEndDate:   "end_date",
	JobSortFieldStatus:    "status",
	JobSortFieldUpdatedAt: "updated_at",
	JobSortFieldCreatedAt: "created_at",
}

// LoadJobsFilter scopes and pages a job listing. The service sets exactly one
// of CreatedByUserID/HomeownerID depending on the caller's role.
type LoadJobsFilter struct {
	CreatedByUserID *uint
	HomeownerID     *uint
	Status          []model.JobStatus
	Page            int
	Limit           int
	SortField       JobSortField
	SortDirection   JobSortDirection
}

// LoadJobsResult is one page of jobs plus the total match count before
// pagination, so clients can compute page counts.
type LoadJobsResult struct {
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
	Total int64       `json:"total"`
	Data  []model.Job `json:"data"`
}

// CreateTaskPayload is an initial task supplied on job creation.
type CreateTaskPayload struct {
	Description string
	Cost        decimal.Decimal
}

// CreateJobPayload carries everything needed to create a job. Status is not
// part of it: new jobs always start in PLANNING.
type CreateJobPayload struct {
	Description     string
	Location        string
	Cost            decimal.Decimal
	CreatedByUserID uint
	HomeownerIDs    []uint
	StartDate       *time.Time
	EndDate         *time.Time
	Tasks           []CreateTaskPayload
}

// UpdateJobPayload is a partial update: nil fields are untouched. A non-nil
// HomeownerIDs (including empty) fully replaces the homeowner set. A non-nil
// Tasks list is reconciled against the persisted tasks rather than replaced
// wholesale.
type UpdateJobPayload struct {
	ID uint

	Description  *string
	Location     *string
	Cost         *decimal.Decimal
	Status       *model.JobStatus
	StartDate    *time.Time
	EndDate      *time.Time
	HomeownerIDs []uint
	Tasks        []reconcile.TaskPatch
}

// CompleteTaskPayload stamps a task as completed.
type CompleteTaskPayload struct {
	ID                uint
	CompletedByUserID uint
	CompletedAt       time.Time
}

// JobRepository defines job persistence operations.
type JobRepository interface {
	Load(ctx context.Context, filter LoadJobsFilter) (*LoadJobsResult, error)
	Create(ctx context.Context, payload CreateJobPayload) (*model.Job, error)
	Update(ctx context.Context, payload UpdateJobPayload) (*model.Job, error)
	LoadByID(ctx context.Context, id, requestingUserID uint) (*model.Job, error)
	Delete(ctx context.Context, id, deletedByUserID uint) error
	LoadTasksByJobID(ctx context.Context, jobID uint) ([]model.JobTask, error)
	UpdateJobTask(ctx context.Context, payload CompleteTaskPayload) (*model.JobTask, error)
	LoadHomeownerIDsByJobIDs(ctx context.Context, jobIDs []uint) (map[uint][]uint, error)
}

type jobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new job repository.
func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

// Load returns one page of non-deleted jobs matching the filter, plus the
// total count before pagination. Pages are 1-indexed.
func (r *jobRepository) Load(ctx context.Context, filter LoadJobsFilter) (*LoadJobsResult, error) {
	query := r.db.WithContext(ctx).Model(&model.Job{}).Where("jobs.deleted_at IS NULL")

	if filter.CreatedByUserID != nil {
		query = query.Where("jobs.created_by_user_id = ?", *filter.CreatedByUserID)
	}
	if filter.HomeownerID != nil {
		query = query.Joins("JOIN job_homeowners jh ON jh.job_id = jobs.id").
			Where("jh.user_id = ?", *filter.HomeownerID)
	}
	if len(filter.Status) > 0 {
		query = query.Where("jobs.status IN ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	column, ok := jobSortColumns[filter.SortField]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if filter.SortDirection == JobSortDesc {
		direction = "DESC"
	}

	var jobs []model.Job
	if err := query.Order("jobs." + column + " " + direction).
		Offset(filter.Limit * (filter.Page - 1)).
		Limit(filter.Limit).
		Find(&jobs).Error; err != nil {
		return nil, err
	}

	return &LoadJobsResult{
		Page:  filter.Page,
		Limit: filter.Limit,
		Total: total,
		Data:  jobs,
	}, nil
}

// Create inserts a job with its initial tasks and homeowner links. Status is
// forced to PLANNING regardless of input.
func (r *jobRepository) Create(ctx context.Context, payload CreateJobPayload) (*model.Job, error) {
	job := model.Job{
		Description:     payload.Description,
		Location:        payload.Location,
		Cost:            payload.Cost,
		Status:          model.JobStatusPlanning,
		CreatedByUserID: payload.CreatedByUserID,
		StartDate:       payload.StartDate,
		EndDate:         payload.EndDate,
	}
	for _, task := range payload.Tasks {
		job.Tasks = append(job.Tasks, model.JobTask{
			Description: task.Description,
			Cost:        task.Cost,
		})
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Homeowners").Create(&job).Error; err != nil {
			return err
		}
		return replaceHomeowners(tx, job.ID, payload.HomeownerIDs)
	})
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// Update applies a partial update, homeowner replacement and task
// reconciliation as one transaction, and always stamps updated_at.
func (r *jobRepository) Update(ctx context.Context, payload UpdateJobPayload) (*model.Job, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"updated_at": time.Now()}
		if payload.Description != nil {
			updates["description"] = *payload.Description
		}
		if payload.Location != nil {
			updates["location"] = *payload.Location
		}
		if payload.Cost != nil {
			updates["cost"] = *payload.Cost
		}
		if payload.Status != nil {
			updates["status"] = *payload.Status
		}
		if payload.StartDate != nil {
			updates["start_date"] = *payload.StartDate
		}
		if payload.EndDate != nil {
			updates["end_date"] = *payload.EndDate
		}

		if err := tx.Model(&model.Job{}).Where("id = ?", payload.ID).Updates(updates).Error; err != nil {
			return err
		}

		if payload.HomeownerIDs != nil {
			if err := replaceHomeowners(tx, payload.ID, payload.HomeownerIDs); err != nil {
				return err
			}
		}

		if payload.Tasks != nil {
			if err := r.reconcileTasks(tx, payload.ID, payload.Tasks); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	var job model.Job
	if err := r.db.WithContext(ctx).First(&job, payload.ID).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// reconcileTasks diffs the submitted task list against the persisted one and
// applies the resulting delete/update/create sets. An empty diff skips the
// write entirely.
func (r *jobRepository) reconcileTasks(tx *gorm.DB, jobID uint, submitted []reconcile.TaskPatch) error {
	var existing []model.JobTask
	if err := tx.Where("job_id = ?", jobID).Order("id ASC").Find(&existing).Error; err != nil {
		return err
	}

	changes := reconcile.Tasks(existing, submitted)
	if changes.Empty() {
		return nil
	}

	if len(changes.DeleteIDs) > 0 {
		if err := tx.Where("id IN ? AND job_id = ?", changes.DeleteIDs, jobID).
			Delete(&model.JobTask{}).Error; err != nil {
			return err
		}
	}

	for _, update := range changes.Updates {
		fields := map[string]interface{}{}
		if update.Description != nil {
			fields["description"] = *update.Description
		}
		if update.Cost != nil {
			fields["cost"] = *update.Cost
		}
		if err := tx.Model(&model.JobTask{}).
			Where("id = ? AND job_id = ?", update.ID, jobID).
			Updates(fields).Error; err != nil {
			return err
		}
	}

	for _, create := range changes.Creates {
		task := model.JobTask{
			JobID:       jobID,
			Description: create.Description,
			Cost:        create.Cost,
		}
		if err := tx.Create(&task).Error; err != nil {
			return err
		}
	}

	return nil
}

// LoadByID returns the job only when the requesting user is its creator or a
// listed homeowner. Missing and invisible jobs are both (nil, nil): callers
// cannot tell whether the job exists. Soft-deleted rows are still returned so
// the service can detect the already-deleted conflict.
func (r *jobRepository) LoadByID(ctx context.Context, id, requestingUserID uint) (*model.Job, error) {
	var job model.Job
	err := r.db.WithContext(ctx).Model(&model.Job{}).
		Where("jobs.id = ?", id).
		Where("jobs.created_by_user_id = ? OR EXISTS (SELECT 1 FROM job_homeowners jh WHERE jh.job_id = jobs.id AND jh.user_id = ?)",
			requestingUserID, requestingUserID).
		First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// Delete soft-deletes a job. Not idempotent at this layer: the service owns
// the already-deleted guard.
func (r *jobRepository) Delete(ctx context.Context, id, deletedByUserID uint) error {
	return r.db.WithContext(ctx).Model(&model.Job{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"deleted_at":         time.Now(),
			"deleted_by_user_id": deletedByUserID,
		}).Error
}

func (r *jobRepository) LoadTasksByJobID(ctx context.Context, jobID uint) ([]model.JobTask, error) {
	var tasks []model.JobTask
	if err := r.db.WithContext(ctx).Where("job_id = ?", jobID).Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateJobTask stamps completion fields on a task and returns the updated
// row. Returns gorm.ErrRecordNotFound when the task does not exist.
func (r *jobRepository) UpdateJobTask(ctx context.Context, payload CompleteTaskPayload) (*model.JobTask, error) {
	result := r.db.WithContext(ctx).Model(&model.JobTask{}).
		Where("id = ?", payload.ID).
		Updates(map[string]interface{}{
			"completed_at":         payload.CompletedAt,
			"completed_by_user_id": payload.CompletedByUserID,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var task model.JobTask
	if err := r.db.WithContext(ctx).First(&task, payload.ID).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// LoadHomeownerIDsByJobIDs returns the homeowner ids of each job in one
// query, keyed by job id. Jobs without homeowners are absent from the map.
func (r *jobRepository) LoadHomeownerIDsByJobIDs(ctx context.Context, jobIDs []uint) (map[uint][]uint, error) {
	if len(jobIDs) == 0 {
		return map[uint][]uint{}, nil
	}

	var rows []struct {
		JobID  uint
		UserID uint
	}
	if err := r.db.WithContext(ctx).Table("job_homeowners").
		Select("job_id, user_id").
		Where("job_id IN ?", jobIDs).
		Order("job_id ASC, user_id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make(map[uint][]uint, len(jobIDs))
	for _, row := range rows {
		result[row.JobID] = append(result[row.JobID], row.UserID)
	}
	return result, nil
}

// replaceHomeowners rewrites the job_homeowners join rows for a job. The join
// table is managed directly so user rows are never touched.
func replaceHomeowners(tx *gorm.DB, jobID uint, homeownerIDs []uint) error {
	if err := tx.Exec("DELETE FROM job_homeowners WHERE job_id = ?", jobID).Error; err != nil {
		return err
	}
	for _, userID := range homeownerIDs {
		if err := tx.Exec("INSERT INTO job_homeowners (job_id, user_id) VALUES (?, ?)", jobID, userID).Error; err != nil {
			return err
		}
	}
	return nil
}
