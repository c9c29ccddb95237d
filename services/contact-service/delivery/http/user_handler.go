package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"contactbook/contracts/contact_service"
	"contactbook/pkg/api"
	"contactbook/pkg/logger"
	"contactbook/pkg/validator"
	"contactbook/services/contact-service/domain"
	"contactbook/services/contact-service/usecase"
)

// UserHandler handles HTTP requests for contact operations
type UserHandler struct {
	UserUseCase usecase.UserUseCase
	Logger      logger.LoggerInterface
	API         api.Api
	Validator   validator.Validator
}

// NewUserHandler creates a new instance of UserHandler
func NewUserHandler(userUseCase usecase.UserUseCase, logger logger.LoggerInterface) *UserHandler {
	return &UserHandler{
		UserUseCase: userUseCase,
		Logger:      logger,
		API:         api.New(),
		Validator:   validator.NewValidator(),
	}
}

// decodeAndValidate reads a JSON body into req, normalizes and validates it.
// It writes the error response itself and reports whether the caller may continue.
func (h *UserHandler) decodeAndValidate(ctx context.Context, w http.ResponseWriter, r *http.Request, req interface{ Normalize() }) bool {
	limitBody(w, r)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		h.Logger.WarnContext(ctx, "Invalid request body", "error", err)
		h.API.BadRequest(ctx, w, "Invalid request body")
		return false
	}
	req.Normalize()

	if fieldErrors := h.Validator.ValidateStruct(req); len(fieldErrors) > 0 {
		h.Logger.WarnContext(ctx, "Validation failed", "errors", validator.ToMap(fieldErrors))
		details := make([]api.ErrorDetail, len(fieldErrors))
		for i, fe := range fieldErrors {
			details[i] = api.ErrorDetail{Field: fe.Field, Message: fe.Message}
		}
		h.API.ValidationError(ctx, w, details)
		return false
	}
	return true
}

// parseID reads the numeric {id} URL parameter
func (h *UserHandler) parseID(ctx context.Context, w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		h.Logger.WarnContext(ctx, "Invalid user ID", "id", raw)
		h.API.BadRequest(ctx, w, "Invalid user ID")
		return 0, false
	}
	return id, true
}

// handleUserError maps use case errors to responses
func (h *UserHandler) handleUserError(ctx context.Context, w http.ResponseWriter, err error, fallback string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		details := make([]api.ErrorDetail, len(verr.Fields))
		for i, fe := range verr.Fields {
			details[i] = api.ErrorDetail{Field: fe.Field, Message: fe.Message}
		}
		h.API.ValidationError(ctx, w, details)
	case errors.Is(err, domain.ErrInvalidID):
		h.API.BadRequest(ctx, w, "Invalid user ID")
	case errors.Is(err, domain.ErrUserNotFound):
		h.API.NotFound(ctx, w, "User not found")
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		h.API.Conflict(ctx, w, "Email already exists", "A user with this email address already exists")
	case errors.Is(err, domain.ErrBusy):
		h.API.Error(ctx, w, domain.ErrBusy.Code, "BUSY", domain.ErrBusy.Message, "")
	default:
		h.Logger.ErrorContext(ctx, "Unexpected error", "error", err)
		h.API.InternalServerError(ctx, w, fallback)
	}
}

// ListHandler returns every contact, or one page of them when offset or limit is given
func (h *UserHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	if query.Has("offset") || query.Has("limit") {
		offset, errOffset := strconv.Atoi(query.Get("offset"))
		limit, errLimit := strconv.Atoi(query.Get("limit"))
		if (query.Has("offset") && errOffset != nil) || (query.Has("limit") && errLimit != nil) || offset < 0 || limit < 0 {
			h.API.BadRequest(ctx, w, "offset and limit must be non-negative integers")
			return
		}
		if limit == 0 {
			limit = 10
		}

		users, total, err := h.UserUseCase.ListUsersPage(ctx, offset, limit)
		if err != nil {
			h.handleUserError(ctx, w, err, "Failed to fetch users")
			return
		}
		h.API.SuccessWithMeta(ctx, w, "", contact_service.UserModelsToResponses(users), &api.Meta{
			Count:      len(users),
			Pagination: api.NewPagination(offset, limit, total),
		})
		return
	}

	users, err := h.UserUseCase.ListUsers(ctx)
	if err != nil {
		h.handleUserError(ctx, w, err, "Failed to fetch users")
		return
	}
	h.API.SuccessWithMeta(ctx, w, "", contact_service.UserModelsToResponses(users), &api.Meta{Count: len(users)})
}

// CreateHandler creates a contact from a JSON body
func (h *UserHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.Logger.InfoContext(ctx, "Create user handler called")

	var req contact_service.CreateUserRequest
	if !h.decodeAndValidate(ctx, w, r, &req) {
		return
	}

	user, err := h.UserUseCase.CreateUser(ctx, contact_service.CreateUserRequestToModel(&req))
	if err != nil {
		h.handleUserError(ctx, w, err, "Failed to create user")
		return
	}

	h.Logger.InfoContext(ctx, "User created successfully in handler", "id", user.ID, "email", user.Email)
	h.API.Created(ctx, w, "User created successfully", contact_service.UserModelToResponse(user))
}

// GetByIDHandler returns one contact
func (h *UserHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.parseID(ctx, w, r)
	if !ok {
		return
	}

	user, err := h.UserUseCase.GetUserByID(ctx, id)
	if err != nil {
		h.handleUserError(ctx, w, err, "Failed to fetch user")
		return
	}
	h.API.Success(ctx, w, "", contact_service.UserModelToResponse(user))
}

// GetByEmailHandler returns the contact with the given email
func (h *UserHandler) GetByEmailHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	email := chi.URLParam(r, "email")

	if err := h.Validator.ValidateVar(email, "required,email"); err != nil {
		h.API.BadRequest(ctx, w, "Invalid email address")
		return
	}

	user, err := h.UserUseCase.GetUserByEmail(ctx, email)
	if err != nil {
		h.handleUserError(ctx, w, err, "Failed to fetch user")
		return
	}
	h.API.Success(ctx, w, "", contact_service.UserModelToResponse(user))
}

// UpdateHandler replaces a contact's fields
func (h *UserHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.Logger.InfoContext(ctx, "Update user handler called")

	id, ok := h.parseID(ctx, w, r)
	if !ok {
		return
	}

	var req contact_service.UpdateUserRequest
	if !h.decodeAndValidate(ctx, w, r, &req) {
		return
	}

	user, err := h.UserUseCase.UpdateUser(ctx, contact_service.UpdateUserRequestToModel(id, &req))
	if err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			h.API.Conflict(ctx, w, "Email already exists", "Another user with this email address already exists")
			return
		}
		h.handleUserError(ctx, w, err, "Failed to update user")
		return
	}

	h.API.Success(ctx, w, "User updated successfully", contact_service.UserModelToResponse(user))
}

// DeleteHandler removes a contact
func (h *UserHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.Logger.InfoContext(ctx, "Delete user handler called")

	id, ok := h.parseID(ctx, w, r)
	if !ok {
		return
	}

	if _, err := h.UserUseCase.DeleteUser(ctx, id); err != nil {
		h.handleUserError(ctx, w, err, "Failed to delete user")
		return
	}
	h.API.Success(ctx, w, "User deleted successfully", nil)
}

// SearchHandler returns contacts whose name contains {name}
func (h *UserHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := strings.TrimSpace(chi.URLParam(r, "name"))
	if name == "" {
		h.API.BadRequest(ctx, w, "Search name is required")
		return
	}

	users, err := h.UserUseCase.SearchUsers(ctx, name)
	if err != nil {
		h.handleUserError(ctx, w, err, "Failed to search users")
		return
	}
	h.API.SuccessWithMeta(ctx, w, "", contact_service.UserModelsToResponses(users), &api.Meta{Count: len(users)})
}
