package account

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/authservice/handler"
	"github.com/dmitrymomot/authservice/pkg/auth"
	"github.com/dmitrymomot/authservice/pkg/binder"
	"github.com/dmitrymomot/authservice/pkg/logger"
)

// UserService is the subset of auth.UserService used by the HTTP layer.
type UserService interface {
	CreateUser(ctx context.Context, in auth.CreateUserInput) (*auth.User, error)
	ListUsers(ctx context.Context, p auth.ListParams) (*auth.UserList, error)
}

// CreateUserRequest is the JSON body of POST /users.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// ListUsersRequest holds the query parameters of GET /users.
type ListUsersRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// UsersHandler serves POST /users and GET /users.
type UsersHandler struct {
	svc          UserService
	logger       *slog.Logger
	errorHandler handler.ErrorHandler[handler.Context]
}

// Option configures a UsersHandler.
type Option func(*UsersHandler)

// WithLogger sets the handler logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *UsersHandler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithErrorHandler replaces the handler used for bind and render errors.
func WithErrorHandler(eh handler.ErrorHandler[handler.Context]) Option {
	return func(h *UsersHandler) {
		if eh != nil {
			h.errorHandler = eh
		}
	}
}

// NewUsersHandler creates the /users handler. Without WithErrorHandler,
// errors are logged and rendered with handler.NewErrorHandler.
func NewUsersHandler(svc UserService, opts ...Option) *UsersHandler {
	h := &UsersHandler{
		svc:    svc,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.errorHandler == nil {
		h.errorHandler = handler.NewErrorHandler(h.logger)
	}
	h.logger = h.logger.With(logger.Component("account"))
	return h
}

// Handle returns the router serving the collection root.
func (h *UsersHandler) Handle() http.Handler {
	r := chi.NewRouter()

	r.Post("/", handler.Wrap(h.create,
		handler.WithBinder[handler.Context, CreateUserRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, CreateUserRequest](h.errorHandler),
	))
	r.Get("/", handler.Wrap(h.list,
		handler.WithBinder[handler.Context, ListUsersRequest](binder.Query()),
		handler.WithErrorHandler[handler.Context, ListUsersRequest](h.errorHandler),
	))

	return r
}

func (h *UsersHandler) create(ctx handler.Context, req CreateUserRequest) handler.Response {
	user, err := h.svc.CreateUser(ctx, auth.CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		return h.fail(ctx, err)
	}

	return handler.JSON(user, handler.WithJSONStatus(http.StatusCreated))
}

func (h *UsersHandler) list(ctx handler.Context, req ListUsersRequest) handler.Response {
	list, err := h.svc.ListUsers(ctx, auth.ListParams{
		Limit:  req.Limit,
		Offset: req.Offset,
	})
	if err != nil {
		return h.fail(ctx, err)
	}

	return handler.JSON(list.Users, handler.WithJSONMeta(map[string]any{
		"total":  list.Total,
		"limit":  list.Limit,
		"offset": list.Offset,
	}))
}

func (h *UsersHandler) fail(ctx handler.Context, err error) handler.Response {
	if errors.Is(err, auth.ErrEmailAlreadyExists) {
		return handler.JSONError(handler.ErrConflict.WithMessage(auth.ErrEmailAlreadyExists.Error()))
	}

	if status, _ := handler.Classify(err); status >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "user request failed",
			logger.Error(err),
			slog.String("path", ctx.Request().URL.Path),
		)
	}
	return handler.JSONError(err)
}
