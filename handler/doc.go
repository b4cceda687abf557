// Package handler provides type-safe JSON HTTP handlers.
//
// A HandlerFunc receives a Context and a request value already populated by
// binders, and returns a Response. Wrap adapts it to http.HandlerFunc:
//
//	type CreateUserRequest struct {
//		Email    string `json:"email"`
//		Password string `json:"password"`
//	}
//
//	func createUser(ctx handler.Context, req CreateUserRequest) handler.Response {
//		user, err := users.CreateUser(ctx, req.Email, req.Password)
//		if err != nil {
//			return handler.JSONError(err)
//		}
//		return handler.JSON(user, handler.WithJSONStatus(http.StatusCreated))
//	}
//
//	r.Post("/users", handler.Wrap(createUser,
//		handler.WithBinders[handler.Context, CreateUserRequest](binder.JSON()),
//		handler.WithErrorHandler[handler.Context, CreateUserRequest](handler.NewErrorHandler(log)),
//	))
//
// # Responses
//
// Every body uses the JSONResponse envelope: "data" and "meta" on success,
// "error" with code, message and optional per-field details on failure.
//
// # Errors
//
// Classify decides the status of an error. Validation errors become 422 with
// details, binder errors 400 or 415, HTTPError values their own code, and
// anything else a 500 whose message does not leak internals. NewErrorHandler
// logs the error with the request id before rendering it; Recoverer does the
// same for panics.
package handler
