package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"jobtrack/internal/service"
)

// UserHandler handles user directory endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers godoc
// @Summary List all users (homeowner picker)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} UserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userService.GetAll(c.Request().Context(), identityFromContext(c))
	if err != nil {
		return domainError(err)
	}

	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, *toUserResponse(&user))
	}
	return c.JSON(http.StatusOK, responses)
}
