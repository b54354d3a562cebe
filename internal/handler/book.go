package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/bookshelf/internal/service"
)

// BookHandler serves the book routes.
//
// Handlers only translate: path and query params in, one service call,
// JSON out. All persistence rules live below the service.
type BookHandler struct {
	service *service.BookService
	logger  *slog.Logger
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(svc *service.BookService, logger *slog.Logger) *BookHandler {
	return &BookHandler{service: svc, logger: logger}
}

// draftRequest is the body of POST /post.
type draftRequest struct {
	Title       string  `json:"title"`
	Page        int     `json:"page"`
	Description *string `json:"description"`
	AuthorID    int64   `json:"authorId"`
}

// HandleGet returns one book.
//
// HTTP: GET /book/{id}
//
// A missing book is not an error here: the body is null with status 200.
func (h *BookHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	book, err := h.service.Find(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

// HandleDashboard lists books with their authors.
//
// HTTP: GET /dashboard?take=&skip=&searchString=&orderBy=asc|desc
func (h *BookHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	books, err := h.service.Dashboard(r.Context(), service.DashboardParams{
		Take:    queryInt(r, "take"),
		Skip:    queryInt(r, "skip"),
		Search:  q.Get("searchString"),
		OrderBy: q.Get("orderBy"),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, books)
}

// HandleCreateDraft creates an unpublished book.
//
// HTTP: POST /post
// REQUEST BODY: {"title": "...", "page": 120, "description": "...", "authorId": 1}
func (h *BookHandler) HandleCreateDraft(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if err := decodeBody(r, &req); err != nil {
		h.logger.Warn("invalid draft JSON", slog.String("error", err.Error()))
		writeError(w, h.logger, err)
		return
	}

	book, err := h.service.CreateDraft(r.Context(), service.DraftInput{
		Title:       req.Title,
		Page:        req.Page,
		Description: req.Description,
		AuthorID:    req.AuthorID,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, book)
}

// HandleTogglePublish flips a book's published flag.
//
// HTTP: PUT /publish/{id}
func (h *BookHandler) HandleTogglePublish(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	book, err := h.service.TogglePublish(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

// HandleIncrementViews bumps the view counter.
//
// HTTP: PUT /book/{id}/views
func (h *BookHandler) HandleIncrementViews(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	book, err := h.service.RecordView(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

// HandleDelete removes a book and echoes it back.
//
// HTTP: DELETE /book/{id}
func (h *BookHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	book, err := h.service.Delete(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}
