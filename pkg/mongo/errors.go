package mongo

import "errors"

var (
	ErrConnectionFailed     = errors.New("failed to connect to mongo")
	ErrDisconnectFailed     = errors.New("failed to disconnect from mongo")
	ErrPingFailed           = errors.New("mongo ping failed")
	ErrHealthcheckFailed    = errors.New("mongo healthcheck failed")
	ErrNotConnected         = errors.New("mongo is not connected")
	ErrNoReachableServer    = errors.New("no reachable mongo server")
	ErrMissingURI           = errors.New("missing mongo connection uri, use MONGODB_URI env var")
	ErrInvalidURI           = errors.New("invalid mongo connection uri")
	ErrMissingDatabase      = errors.New("missing mongo database name")
	ErrInvalidRetryAttempts = errors.New("mongo retry attempts must be at least 1")
)
