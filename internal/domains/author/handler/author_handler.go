package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"libreria-backend/internal/domains/author/model"
	"libreria-backend/internal/domains/author/service"
	"libreria-backend/internal/shared/response"
	"libreria-backend/internal/shared/utils"
)

type AuthorHandler struct {
	service service.Service
}

func NewAuthorHandler(svc service.Service) *AuthorHandler {
	return &AuthorHandler{
		service: svc,
	}
}

// GetAll - GET /api/authors
func (h *AuthorHandler) GetAll(c *gin.Context) {
	authors, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, "failed to retrieve authors")
		return
	}

	response.Success(c, http.StatusOK, "authors retrieved successfully", authors)
}

// GetByID - GET /api/authors/:id
func (h *AuthorHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid author id")
		return
	}

	author, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "author retrieved successfully", author)
}

// Create - POST /api/authors (auth)
func (h *AuthorHandler) Create(c *gin.Context) {
	var req model.AuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	author, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "author created successfully", author)
}

// Update - PUT /api/authors/:id (auth)
func (h *AuthorHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid author id")
		return
	}

	var req model.AuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	author, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "author updated successfully", author)
}

// Delete - DELETE /api/authors/:id (admin)
func (h *AuthorHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid author id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "author deleted successfully", nil)
}

func (h *AuthorHandler) handleError(c *gin.Context, err error) {
	if messages, ok := utils.ValidationMessages(err); ok {
		response.ErrorWithDetails(c, http.StatusBadRequest, "validation failed", messages)
		return
	}

	var depErr *model.DependentBooksError
	switch {
	case errors.Is(err, model.ErrAuthorNotFound):
		response.NotFound(c, err.Error())
	case errors.As(err, &depErr):
		response.BadRequest(c, depErr.Error())
	default:
		response.InternalServerError(c, "internal server error")
	}
}
