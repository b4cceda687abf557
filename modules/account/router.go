package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Mountable is a service exposing its own routes.
type Mountable interface {
	Handle() http.Handler
}

// RouterOptions selects the services mounted by Router. Nil services are skipped.
type RouterOptions struct {
	Users Mountable
}

// Router creates the account module router.
//
//	users := account.NewUsersHandler(svc, account.WithLogger(log))
//	r.Mount("/", account.Router(account.RouterOptions{Users: users}))
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	if opts.Users != nil {
		r.Mount("/users", opts.Users.Handle())
	}

	return r
}
