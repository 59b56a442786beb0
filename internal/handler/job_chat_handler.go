package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobtrack/internal/model"
	"jobtrack/internal/service"
)

// JobChatHandler handles job chat endpoints.
type JobChatHandler struct {
	chatService service.JobChatService
}

// NewJobChatHandler creates a new job chat handler.
func NewJobChatHandler(chatService service.JobChatService) *JobChatHandler {
	return &JobChatHandler{chatService: chatService}
}

// CreateMessageRequest represents a new chat message.
type CreateMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// MessageResponse is the wire shape of a chat message.
type MessageResponse struct {
	ID              uint          `json:"id"`
	JobID           uint          `json:"job_id"`
	Content         string        `json:"content"`
	CreatedByUserID uint          `json:"created_by_user_id"`
	CreatedByUser   *UserResponse `json:"created_by_user,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// MessageResult wraps a single created message.
type MessageResult struct {
	Data MessageResponse `json:"data"`
}

// ListMessages godoc
// @Summary List a job's chat messages in creation order
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Success 200 {array} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /jobs/{id}/messages [get]
func (h *JobChatHandler) ListMessages(c echo.Context) error {
	jobID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	messages, err := h.chatService.LoadAllByJobID(c.Request().Context(), jobID, identityFromContext(c))
	if err != nil {
		return domainError(err)
	}

	responses, err := h.buildMessageResponses(c, messages)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, responses)
}

// CreateMessage godoc
// @Summary Append a message to a job's chat
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Param request body CreateMessageRequest true "Message content"
// @Success 201 {object} MessageResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /jobs/{id}/messages [post]
func (h *JobChatHandler) CreateMessage(c echo.Context) error {
	jobID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req CreateMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	message, err := h.chatService.Create(c.Request().Context(), jobID, req.Content, identityFromContext(c))
	if err != nil {
		return domainError(err)
	}

	responses, err := h.buildMessageResponses(c, []model.JobChatMessage{*message})
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, MessageResult{Data: responses[0]})
}

// buildMessageResponses resolves message senders through the request-scoped
// user loader: one user fetch for the whole thread.
func (h *JobChatHandler) buildMessageResponses(c echo.Context, messages []model.JobChatMessage) ([]MessageResponse, error) {
	ctx := c.Request().Context()
	userLoader := userLoaderFromContext(c)

	thunks := make([]func() (*model.User, error), len(messages))
	for i, message := range messages {
		thunks[i] = userLoader.Load(ctx, message.CreatedByUserID)
	}

	responses := make([]MessageResponse, 0, len(messages))
	for i, message := range messages {
		sender, err := thunks[i]()
		if err != nil {
			return nil, err
		}
		responses = append(responses, MessageResponse{
			ID:              message.ID,
			JobID:           message.JobID,
			Content:         message.Content,
			CreatedByUserID: message.CreatedByUserID,
			CreatedByUser:   toUserResponse(sender),
			CreatedAt:       message.CreatedAt,
		})
	}
	return responses, nil
}
