package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"libreria-backend/internal/domains/user/model"
	"libreria-backend/internal/domains/user/service"
	"libreria-backend/internal/shared/middleware"
	"libreria-backend/internal/shared/response"
	"libreria-backend/internal/shared/utils"
)

type UserHandler struct {
	service service.Service
}

func NewUserHandler(svc service.Service) *UserHandler {
	return &UserHandler{
		service: svc,
	}
}

// Register - POST /api/auth/register
func (h *UserHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	auth, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "user registered successfully", auth)
}

// Login - POST /api/auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	auth, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "login successful", auth)
}

// Me - GET /api/auth/me (auth)
func (h *UserHandler) Me(c *gin.Context) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, ok := userID.(int64)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "user retrieved successfully", u)
}

func (h *UserHandler) handleError(c *gin.Context, err error) {
	if messages, ok := utils.ValidationMessages(err); ok {
		response.ErrorWithDetails(c, http.StatusBadRequest, "validation failed", messages)
		return
	}

	switch {
	case errors.Is(err, model.ErrUserExists):
		response.Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, model.ErrInvalidCredentials):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, model.ErrUserNotFound):
		response.NotFound(c, err.Error())
	default:
		response.InternalServerError(c, "internal server error")
	}
}
