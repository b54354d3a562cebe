package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/bookshelf/internal/service"
)

// UserHandler serves sign-up, user listing, drafts and profiles.
type UserHandler struct {
	service *service.UserService
	logger  *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{service: svc, logger: logger}
}

type bookStubRequest struct {
	Title       string  `json:"title"`
	Page        int     `json:"page"`
	Description *string `json:"description"`
}

// signUpRequest is the body of POST /sign-up. Any other fields sent with a
// book stub (published, viewCount, ...) are dropped by the decoder.
type signUpRequest struct {
	Username string            `json:"username"`
	Password string            `json:"password"`
	Email    string            `json:"email"`
	Books    []bookStubRequest `json:"books"`
}

type profileRequest struct {
	Bio string `json:"bio"`
}

// HandleList returns every user.
//
// HTTP: GET /users
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// HandleDrafts returns a user's unpublished books: null for an unknown
// user, [] for a user with none.
//
// HTTP: GET /user/{id}/drafts
func (h *UserHandler) HandleDrafts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	drafts, err := h.service.Drafts(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, drafts)
}

// HandleSignUp creates a user together with any nested books.
//
// HTTP: POST /sign-up
// REQUEST BODY: {"username": "...", "password": "...", "email": "...", "books": [{"title": "...", "page": 1}]}
func (h *UserHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeBody(r, &req); err != nil {
		h.logger.Warn("invalid sign-up JSON", slog.String("error", err.Error()))
		writeError(w, h.logger, err)
		return
	}

	in := service.SignUpInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	}
	for _, b := range req.Books {
		in.Books = append(in.Books, service.BookStub{
			Title:       b.Title,
			Page:        b.Page,
			Description: b.Description,
		})
	}

	user, err := h.service.SignUp(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// HandleCreateProfile attaches a profile to a user.
//
// HTTP: POST /user/{id}/profile
// REQUEST BODY: {"bio": "..."}
func (h *UserHandler) HandleCreateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req profileRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	profile, err := h.service.CreateProfile(r.Context(), id, req.Bio)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, profile)
}
