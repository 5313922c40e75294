package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libreria-backend/internal/domains/book/model"
	"libreria-backend/internal/domains/book/service"
	"libreria-backend/internal/infrastructure/storage"
	"libreria-backend/internal/shared/response"
)

// memRepo backs the handler tests so only the blob store touches disk.
type memRepo struct {
	books  map[int64]*model.Book
	nextID int64
}

func newMemRepo() *memRepo {
	return &memRepo{books: make(map[int64]*model.Book), nextID: 1}
}

func (r *memRepo) Create(ctx context.Context, b *model.Book) (*model.Book, error) {
	stored := *b
	stored.ID = r.nextID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.nextID++
	r.books[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (r *memRepo) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, model.ErrBookNotFound
	}
	out := *b
	out.Author = &model.AuthorRef{ID: b.AuthorID, Name: "Julio Cortazar", Country: "Argentina"}
	return &out, nil
}

func (r *memRepo) GetAll(ctx context.Context) ([]model.Book, error) {
	out := []model.Book{}
	for _, b := range r.books {
		out = append(out, *b)
	}
	return out, nil
}

func (r *memRepo) Update(ctx context.Context, b *model.Book) (*model.Book, error) {
	current, ok := r.books[b.ID]
	if !ok {
		return nil, model.ErrBookNotFound
	}
	stored := *b
	stored.CreatedAt = current.CreatedAt
	stored.UpdatedAt = time.Now()
	r.books[b.ID] = &stored
	out := stored
	return &out, nil
}

func (r *memRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.books[id]; !ok {
		return model.ErrBookNotFound
	}
	delete(r.books, id)
	return nil
}

// authorSet answers the service's author existence check.
type authorSet map[int64]bool

func (s authorSet) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return s[id], nil
}

func setupRouter(t *testing.T) (*gin.Engine, *memRepo, *storage.LocalStorage, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	blob, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)

	repo := newMemRepo()
	svc := service.NewBookService(repo, blob, authorSet{1: true})
	h := NewBookHandler(svc, blob)

	r := gin.New()
	r.GET("/api/books", h.GetAll)
	r.GET("/api/books/:id", h.GetByID)
	r.POST("/api/books", h.Create)
	r.PUT("/api/books/:id", h.Update)
	r.DELETE("/api/books/:id", h.Delete)

	return r, repo, blob, dir
}

// pngBytes returns a payload http.DetectContentType identifies as image/png.
func pngBytes() []byte {
	header := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	return append(header, bytes.Repeat([]byte{0x00}, 64)...)
}

type bookForm struct {
	fields map[string]string
	file   []byte
	name   string
	ctype  string
}

func (f bookForm) encode(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range f.fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if f.file != nil {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", `form-data; name="cover"; filename="`+f.name+`"`)
		hdr.Set("Content-Type", f.ctype)
		part, err := w.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write(f.file)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, form bookForm) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()

	body, contentType := form.encode(t)
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func validFields() map[string]string {
	return map[string]string{"title": "Rayuela", "year": "1963", "author_id": "1"}
}

func blobCount(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return len(entries)
}

func TestCreateBookWithCover(t *testing.T) {
	r, repo, _, dir := setupRouter(t)

	rec, env := doRequest(t, r, http.MethodPost, "/api/books", bookForm{
		fields: validFields(),
		file:   pngBytes(),
		name:   "cover.png",
		ctype:  "image/png",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	require.Len(t, repo.books, 1)
	require.NotNil(t, repo.books[1].CoverLocator)
	assert.FileExists(t, filepath.Join(dir, *repo.books[1].CoverLocator))
}

func TestCreateBookWithoutCover(t *testing.T) {
	r, repo, _, dir := setupRouter(t)

	rec, env := doRequest(t, r, http.MethodPost, "/api/books", bookForm{fields: validFields()})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	require.Len(t, repo.books, 1)
	assert.Nil(t, repo.books[1].CoverLocator)
	assert.Zero(t, blobCount(t, dir))
}

func TestCreateBookValidationErrorLeavesNoBlob(t *testing.T) {
	r, repo, _, dir := setupRouter(t)

	fields := validFields()
	fields["title"] = ""

	rec, env := doRequest(t, r, http.MethodPost, "/api/books", bookForm{
		fields: fields,
		file:   pngBytes(),
		name:   "cover.png",
		ctype:  "image/png",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Errors)
	assert.Empty(t, repo.books)
	assert.Zero(t, blobCount(t, dir), "rejected request must not leave a blob behind")
}

func TestCreateBookBadAuthorIDLeavesNoBlob(t *testing.T) {
	r, repo, _, dir := setupRouter(t)

	fields := validFields()
	fields["author_id"] = "not-a-number"

	rec, _ := doRequest(t, r, http.MethodPost, "/api/books", bookForm{
		fields: fields,
		file:   pngBytes(),
		name:   "cover.png",
		ctype:  "image/png",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repo.books)
	assert.Zero(t, blobCount(t, dir))
}

func TestCreateBookUnknownAuthorLeavesNoBlob(t *testing.T) {
	r, repo, _, dir := setupRouter(t)

	fields := validFields()
	fields["author_id"] = "2"

	rec, env := doRequest(t, r, http.MethodPost, "/api/books", bookForm{
		fields: fields,
		file:   pngBytes(),
		name:   "cover.png",
		ctype:  "image/png",
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	assert.Empty(t, repo.books)
	assert.Zero(t, blobCount(t, dir))
}

func TestCreateBookRejectsNonImage(t *testing.T) {
	r, repo, _, dir := setupRouter(t)

	rec, env := doRequest(t, r, http.MethodPost, "/api/books", bookForm{
		fields: validFields(),
		file:   []byte("#!/bin/sh\necho pwned\n"),
		name:   "script.png",
		ctype:  "image/png",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Empty(t, repo.books)
	assert.Zero(t, blobCount(t, dir))
}

func TestUpdateBookReplacesCoverOnDisk(t *testing.T) {
	r, repo, _, dir := setupRouter(t)

	_, _ = doRequest(t, r, http.MethodPost, "/api/books", bookForm{
		fields: validFields(),
		file:   pngBytes(),
		name:   "first.png",
		ctype:  "image/png",
	})
	require.Len(t, repo.books, 1)
	oldLocator := *repo.books[1].CoverLocator

	rec, _ := doRequest(t, r, http.MethodPut, "/api/books/1", bookForm{
		fields: validFields(),
		file:   pngBytes(),
		name:   "second.png",
		ctype:  "image/png",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	newLocator := *repo.books[1].CoverLocator
	assert.NotEqual(t, oldLocator, newLocator)
	assert.NoFileExists(t, filepath.Join(dir, oldLocator))
	assert.FileExists(t, filepath.Join(dir, newLocator))
	assert.Equal(t, 1, blobCount(t, dir))
}

func TestUpdateBookRemoveImageFlag(t *testing.T) {
	r, repo, _, dir := setupRouter(t)

	_, _ = doRequest(t, r, http.MethodPost, "/api/books", bookForm{
		fields: validFields(),
		file:   pngBytes(),
		name:   "cover.png",
		ctype:  "image/png",
	})

	fields := validFields()
	fields["removeImage"] = "true"

	rec, _ := doRequest(t, r, http.MethodPut, "/api/books/1", bookForm{fields: fields})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, repo.books[1].CoverLocator)
	assert.Zero(t, blobCount(t, dir))
}

func TestUpdateBookNotFound(t *testing.T) {
	r, _, _, dir := setupRouter(t)

	rec, env := doRequest(t, r, http.MethodPut, "/api/books/99", bookForm{
		fields: validFields(),
		file:   pngBytes(),
		name:   "cover.png",
		ctype:  "image/png",
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	assert.Zero(t, blobCount(t, dir), "upload for a missing book must be cleaned up")
}

func TestDeleteBookRemovesCover(t *testing.T) {
	r, repo, _, dir := setupRouter(t)

	_, _ = doRequest(t, r, http.MethodPost, "/api/books", bookForm{
		fields: validFields(),
		file:   pngBytes(),
		name:   "cover.png",
		ctype:  "image/png",
	})
	require.Equal(t, 1, blobCount(t, dir))

	req := httptest.NewRequest(http.MethodDelete, "/api/books/1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, repo.books)
	assert.Zero(t, blobCount(t, dir))
}

func TestGetBookByID(t *testing.T) {
	r, _, _, _ := setupRouter(t)

	_, _ = doRequest(t, r, http.MethodPost, "/api/books", bookForm{fields: validFields()})

	req := httptest.NewRequest(http.MethodGet, "/api/books/1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var env response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)

	data, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Rayuela", data["title"])
	require.NotNil(t, data["author"])
}

func TestGetBookNotFound(t *testing.T) {
	r, _, _, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/books/123", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
