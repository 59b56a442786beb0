package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"jobtrack/internal/errors"
	"jobtrack/internal/model"
	"jobtrack/internal/reconcile"
	"jobtrack/internal/repository"
	"jobtrack/internal/service"
)

// JobHandler handles job endpoints.
type JobHandler struct {
	jobService service.JobService
}

// NewJobHandler creates a new job handler.
func NewJobHandler(jobService service.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

// ListJobsRequest is the job listing filter, bound from query parameters.
type ListJobsRequest struct {
	Page          int      `query:"page"`
	Limit         int      `query:"limit"`
	Status        []string `query:"status"`
	SortField     string   `query:"sort_field" validate:"omitempty,oneof=START_DATE END_DATE STATUS UPDATED_AT CREATED_AT"`
	SortDirection string   `query:"sort_direction" validate:"omitempty,oneof=ASC DESC"`
}

// CreateTaskRequest is an initial task on job creation.
type CreateTaskRequest struct {
	Description string `json:"description" validate:"required"`
	Cost        string `json:"cost" validate:"required"`
}

// CreateJobRequest represents a job creation request.
type CreateJobRequest struct {
	Description  string              `json:"description" validate:"required"`
	Location     string              `json:"location" validate:"required"`
	Cost         string              `json:"cost" validate:"required"`
	HomeownerIDs []uint              `json:"homeowner_ids"`
	StartDate    *time.Time          `json:"start_date"`
	EndDate      *time.Time          `json:"end_date"`
	Tasks        []CreateTaskRequest `json:"tasks"`
}

// TaskPatchRequest is one entry of a submitted task list on job update.
type TaskPatchRequest struct {
	ID          *uint   `json:"id"`
	Description *string `json:"description"`
	Cost        *string `json:"cost"`
}

// UpdateJobRequest represents a partial job update. Absent fields are left
// untouched; homeowner_ids and tasks use pointers so "omitted" and "empty"
// stay distinguishable.
type UpdateJobRequest struct {
	Description  *string             `json:"description"`
	Location     *string             `json:"location"`
	Cost         *string             `json:"cost"`
	StartDate    *time.Time          `json:"start_date"`
	EndDate      *time.Time          `json:"end_date"`
	HomeownerIDs *[]uint             `json:"homeowner_ids"`
	Tasks        *[]TaskPatchRequest `json:"tasks"`
}

// ChangeJobStatusRequest moves a job to a new status.
type ChangeJobStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PLANNING IN_PROGRESS COMPLETED CANCELED"`
}

// TaskResponse is the wire shape of a job task.
type TaskResponse struct {
	ID                uint            `json:"id"`
	JobID             uint            `json:"job_id"`
	Description       string          `json:"description"`
	Cost              decimal.Decimal `json:"cost"`
	CompletedAt       *time.Time      `json:"completed_at,omitempty"`
	CompletedByUserID *uint           `json:"completed_by_user_id,omitempty"`
}

// JobResponse is the wire shape of a job, with embedded user references
// resolved through the request-scoped user loader.
type JobResponse struct {
	ID              uint            `json:"id"`
	Description     string          `json:"description"`
	Location        string          `json:"location"`
	Cost            decimal.Decimal `json:"cost"`
	Status          model.JobStatus `json:"status"`
	StartDate       *time.Time      `json:"start_date,omitempty"`
	EndDate         *time.Time      `json:"end_date,omitempty"`
	CreatedByUserID uint            `json:"created_by_user_id"`
	CreatedByUser   *UserResponse   `json:"created_by_user,omitempty"`
	DeletedAt       *time.Time      `json:"deleted_at,omitempty"`
	DeletedByUserID *uint           `json:"deleted_by_user_id,omitempty"`
	DeletedByUser   *UserResponse   `json:"deleted_by_user,omitempty"`
	Homeowners      []UserResponse  `json:"homeowners"`
	Tasks           []TaskResponse  `json:"tasks,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ListJobsResponse is one page of jobs.
type ListJobsResponse struct {
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Total int64         `json:"total"`
	Data  []JobResponse `json:"data"`
}

// JobResult wraps a single mutated job.
type JobResult struct {
	Data JobResponse `json:"data"`
}

// TaskResult wraps a single mutated task.
type TaskResult struct {
	Data TaskResponse `json:"data"`
}

// ListJobs godoc
// @Summary List jobs visible to the authenticated user
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (1-indexed)"
// @Param limit query int false "Page size, capped at 200"
// @Param status query []string false "Status filter"
// @Param sort_field query string false "START_DATE END_DATE STATUS UPDATED_AT CREATED_AT"
// @Param sort_direction query string false "ASC or DESC"
// @Success 200 {object} ListJobsResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /jobs [get]
func (h *JobHandler) ListJobs(c echo.Context) error {
	var req ListJobsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	statuses := make([]model.JobStatus, 0, len(req.Status))
	for _, status := range req.Status {
		statuses = append(statuses, model.JobStatus(status))
	}

	result, err := h.jobService.LoadBasedOnUser(c.Request().Context(), service.LoadJobsPayload{
		Page:          req.Page,
		Limit:         req.Limit,
		Status:        statuses,
		SortField:     repository.JobSortField(req.SortField),
		SortDirection: repository.JobSortDirection(req.SortDirection),
	}, identityFromContext(c))
	if err != nil {
		return domainError(err)
	}

	data, err := h.buildJobResponses(c, result.Data)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, ListJobsResponse{
		Page:  result.Page,
		Limit: result.Limit,
		Total: result.Total,
		Data:  data,
	})
}

// GetJob godoc
// @Summary Load a single job with tasks
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Success 200 {object} JobResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /jobs/{id} [get]
func (h *JobHandler) GetJob(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	identity := identityFromContext(c)
	job, err := h.jobService.LoadByID(c.Request().Context(), id, identity)
	if err != nil {
		return domainError(err)
	}
	if job == nil {
		return domainError(errors.ErrJobNotFound)
	}

	responses, err := h.buildJobResponses(c, []model.Job{*job})
	if err != nil {
		return domainError(err)
	}
	response := responses[0]

	tasks, err := h.jobService.LoadTasksByJobID(c.Request().Context(), id, identity)
	if err != nil {
		return domainError(err)
	}
	response.Tasks = toTaskResponses(tasks)

	return c.JSON(http.StatusOK, response)
}

// CreateJob godoc
// @Summary Create a job (contractors only)
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateJobRequest true "Job data"
// @Success 201 {object} JobResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /jobs [post]
func (h *JobHandler) CreateJob(c echo.Context) error {
	var req CreateJobRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cost, err := decimal.NewFromString(req.Cost)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid cost",
			Code:  "VALIDATION_ERROR",
		})
	}

	tasks := make([]repository.CreateTaskPayload, 0, len(req.Tasks))
	for _, task := range req.Tasks {
		taskCost, err := decimal.NewFromString(task.Cost)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid task cost",
				Code:  "VALIDATION_ERROR",
			})
		}
		tasks = append(tasks, repository.CreateTaskPayload{
			Description: task.Description,
			Cost:        taskCost,
		})
	}

	job, err := h.jobService.Create(c.Request().Context(), service.CreateJobPayload{
		Description:  req.Description,
		Location:     req.Location,
		Cost:         cost,
		HomeownerIDs: req.HomeownerIDs,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Tasks:        tasks,
	}, identityFromContext(c))
	if err != nil {
		return domainError(err)
	}

	responses, err := h.buildJobResponses(c, []model.Job{*job})
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, JobResult{Data: responses[0]})
}

// UpdateJob godoc
// @Summary Update a job (owning contractor only)
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Param request body UpdateJobRequest true "Fields to change"
// @Success 200 {object} JobResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /jobs/{id} [put]
func (h *JobHandler) UpdateJob(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req UpdateJobRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	payload := service.UpdateJobPayload{
		Description: req.Description,
		Location:    req.Location,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}

	if req.Cost != nil {
		cost, err := decimal.NewFromString(*req.Cost)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid cost",
				Code:  "VALIDATION_ERROR",
			})
		}
		payload.Cost = &cost
	}

	if req.HomeownerIDs != nil {
		ids := *req.HomeownerIDs
		if ids == nil {
			ids = []uint{}
		}
		payload.HomeownerIDs = ids
	}

	if req.Tasks != nil {
		patches := make([]reconcile.TaskPatch, 0, len(*req.Tasks))
		for _, task := range *req.Tasks {
			patch := reconcile.TaskPatch{
				ID:          task.ID,
				Description: task.Description,
			}
			if task.Cost != nil {
				taskCost, err := decimal.NewFromString(*task.Cost)
				if err != nil {
					return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
						Error: "invalid task cost",
						Code:  "VALIDATION_ERROR",
					})
				}
				patch.Cost = &taskCost
			}
			patches = append(patches, patch)
		}
		payload.Tasks = patches
	}

	job, err := h.jobService.Update(c.Request().Context(), id, payload, identityFromContext(c))
	if err != nil {
		return domainError(err)
	}

	responses, err := h.buildJobResponses(c, []model.Job{*job})
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, JobResult{Data: responses[0]})
}

// DeleteJob godoc
// @Summary Soft-delete a job (owning contractor only)
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Success 200 {object} map[string]bool
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /jobs/{id} [delete]
func (h *JobHandler) DeleteJob(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.jobService.Delete(c.Request().Context(), id, identityFromContext(c)); err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"deleted": true})
}

// ChangeJobStatus godoc
// @Summary Change a job's status (contractors only)
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Param request body ChangeJobStatusRequest true "New status"
// @Success 200 {object} JobResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /jobs/{id}/status [post]
func (h *JobHandler) ChangeJobStatus(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req ChangeJobStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	job, err := h.jobService.ChangeStatus(c.Request().Context(), id, model.JobStatus(req.Status), identityFromContext(c))
	if err != nil {
		return domainError(err)
	}

	responses, err := h.buildJobResponses(c, []model.Job{*job})
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, JobResult{Data: responses[0]})
}

// ListJobTasks godoc
// @Summary List a job's tasks
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Success 200 {array} TaskResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /jobs/{id}/tasks [get]
func (h *JobHandler) ListJobTasks(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	tasks, err := h.jobService.LoadTasksByJobID(c.Request().Context(), id, identityFromContext(c))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, toTaskResponses(tasks))
}

// CompleteJobTask godoc
// @Summary Mark a task completed (contractors only)
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} TaskResult
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /job-tasks/{id}/complete [post]
func (h *JobHandler) CompleteJobTask(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	task, err := h.jobService.CompleteJobTask(c.Request().Context(), id, identityFromContext(c))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, TaskResult{Data: toTaskResponse(*task)})
}

// buildJobResponses assembles wire responses for a page of jobs. All embedded
// user references (creator, deleter, homeowners) are enqueued on the
// request-scoped loader first, so the whole page costs a single user fetch.
func (h *JobHandler) buildJobResponses(c echo.Context, jobs []model.Job) ([]JobResponse, error) {
	ctx := c.Request().Context()
	identity := identityFromContext(c)
	userLoader := userLoaderFromContext(c)

	jobIDs := make([]uint, 0, len(jobs))
	for _, job := range jobs {
		jobIDs = append(jobIDs, job.ID)
	}

	homeownerIDs, err := h.jobService.LoadHomeownerIDs(ctx, jobIDs, identity)
	if err != nil {
		return nil, err
	}

	type jobThunks struct {
		createdBy  func() (*model.User, error)
		deletedBy  func() (*model.User, error)
		homeowners func() ([]*model.User, error)
	}
	thunks := make([]jobThunks, len(jobs))
	for i, job := range jobs {
		thunks[i].createdBy = userLoader.Load(ctx, job.CreatedByUserID)
		if job.DeletedByUserID != nil {
			thunks[i].deletedBy = userLoader.Load(ctx, *job.DeletedByUserID)
		}
		thunks[i].homeowners = userLoader.LoadMany(ctx, homeownerIDs[job.ID])
	}

	responses := make([]JobResponse, 0, len(jobs))
	for i, job := range jobs {
		response := JobResponse{
			ID:              job.ID,
			Description:     job.Description,
			Location:        job.Location,
			Cost:            job.Cost,
			Status:          job.Status,
			StartDate:       job.StartDate,
			EndDate:         job.EndDate,
			CreatedByUserID: job.CreatedByUserID,
			DeletedAt:       job.DeletedAt,
			DeletedByUserID: job.DeletedByUserID,
			Homeowners:      []UserResponse{},
			CreatedAt:       job.CreatedAt,
			UpdatedAt:       job.UpdatedAt,
		}

		createdBy, err := thunks[i].createdBy()
		if err != nil {
			return nil, err
		}
		response.CreatedByUser = toUserResponse(createdBy)

		if thunks[i].deletedBy != nil {
			deletedBy, err := thunks[i].deletedBy()
			if err != nil {
				return nil, err
			}
			response.DeletedByUser = toUserResponse(deletedBy)
		}

		homeowners, err := thunks[i].homeowners()
		if err != nil {
			return nil, err
		}
		for _, homeowner := range homeowners {
			response.Homeowners = append(response.Homeowners, *toUserResponse(homeowner))
		}

		responses = append(responses, response)
	}

	return responses, nil
}

func toTaskResponse(task model.JobTask) TaskResponse {
	return TaskResponse{
		ID:                task.ID,
		JobID:             task.JobID,
		Description:       task.Description,
		Cost:              task.Cost,
		CompletedAt:       task.CompletedAt,
		CompletedByUserID: task.CompletedByUserID,
	}
}

func toTaskResponses(tasks []model.JobTask) []TaskResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, toTaskResponse(task))
	}
	return responses
}
