// Package binder decodes HTTP request data into Go structs.
//
// Binders share the signature func(*http.Request, any) error so that several
// of them can be chained by the handler package:
//
//	type ListUsersRequest struct {
//		Limit  int `query:"limit"`
//		Offset int `query:"offset"`
//	}
//
//	http.HandleFunc("/users", handler.Wrap(listUsers,
//		handler.WithBinders[handler.Context, ListUsersRequest](binder.Query()),
//	))
//
// JSON enforces an application/json content type, a 1 MB body limit, unknown
// field rejection and a single top-level value. Query fills fields tagged
// `query:"name"`; untagged fields fall back to the lower-cased field name and
// `query:"-"` skips a field. Pointers, slices (repeated or comma-separated
// values) and the basic scalar kinds are supported.
//
// Every failure wraps one of the package sentinel errors; IsBindError groups
// them for callers mapping errors to HTTP status codes.
package binder
