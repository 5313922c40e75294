package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"libreria-backend/internal/domains/book/model"
	"libreria-backend/internal/domains/book/service"
	"libreria-backend/internal/infrastructure/storage"
	"libreria-backend/internal/shared/response"
	"libreria-backend/internal/shared/utils"
)

type BookHandler struct {
	service service.Service
	blob    storage.BlobStore
}

func NewBookHandler(svc service.Service, blob storage.BlobStore) *BookHandler {
	return &BookHandler{
		service: svc,
		blob:    blob,
	}
}

// GetAll - GET /api/books
func (h *BookHandler) GetAll(c *gin.Context) {
	books, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, "failed to retrieve books")
		return
	}

	response.Success(c, http.StatusOK, "books retrieved successfully", books)
}

// GetByID - GET /api/books/:id
func (h *BookHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid book id")
		return
	}

	book, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "book retrieved successfully", book)
}

// Create - POST /api/books (auth, multipart)
func (h *BookHandler) Create(c *gin.Context) {
	req := bindBookForm(c)

	upload, err := h.storeCover(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	book, err := h.service.Create(c.Request.Context(), req, upload)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "book created successfully", book)
}

// Update - PUT /api/books/:id (auth, multipart)
func (h *BookHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid book id")
		return
	}

	req := bindBookForm(c)
	removeCover := c.PostForm("removeImage") == "true"

	upload, err := h.storeCover(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	book, err := h.service.Update(c.Request.Context(), id, req, upload, removeCover)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "book updated successfully", book)
}

// Delete - DELETE /api/books/:id (admin)
func (h *BookHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid book id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "book deleted successfully", nil)
}

// bindBookForm reads the writable fields from the multipart form. Unparsable
// numbers become zero so the service's validation reports them uniformly and
// runs its cleanup.
func bindBookForm(c *gin.Context) *model.BookRequest {
	year, _ := strconv.Atoi(c.PostForm("year"))
	authorID, _ := strconv.ParseInt(c.PostForm("author_id"), 10, 64)

	return &model.BookRequest{
		Title:    c.PostForm("title"),
		Year:     year,
		AuthorID: authorID,
	}
}

// storeCover writes the uploaded cover, if any, to the blob store before the
// record operation runs. Returns nil when the request carried no file.
func (h *BookHandler) storeCover(c *gin.Context) (*storage.BlobHandle, error) {
	fileHeader, err := c.FormFile("cover")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}

	data, err := readCover(fileHeader)
	if err != nil {
		return nil, err
	}

	return h.blob.Store(
		c.Request.Context(),
		data,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
	)
}

func readCover(fileHeader *multipart.FileHeader) ([]byte, error) {
	if fileHeader.Size > storage.MaxCoverSize {
		return nil, storage.ErrSizeExceeded
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// One extra byte exposes payloads whose declared size was a lie.
	data, err := io.ReadAll(io.LimitReader(f, storage.MaxCoverSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > storage.MaxCoverSize {
		return nil, storage.ErrSizeExceeded
	}

	return data, nil
}

func (h *BookHandler) handleError(c *gin.Context, err error) {
	if messages, ok := utils.ValidationMessages(err); ok {
		response.ErrorWithDetails(c, http.StatusBadRequest, "validation failed", messages)
		return
	}

	switch {
	case errors.Is(err, model.ErrBookNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, model.ErrAuthorNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, storage.ErrInvalidMediaType),
		errors.Is(err, storage.ErrSizeExceeded):
		response.BadRequest(c, err.Error())
	case errors.Is(err, storage.ErrStoreUnavailable):
		response.InternalServerError(c, "failed to store cover image")
	default:
		response.InternalServerError(c, "internal server error")
	}
}
