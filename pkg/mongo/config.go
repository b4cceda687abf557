package mongo

import (
	"errors"
	"net"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/x/mongo/driver/connstring"

	"github.com/dmitrymomot/authservice/pkg/config"
	"github.com/dmitrymomot/authservice/pkg/environment"
)

const defaultPort = "27017"

// Config holds everything needed for one connection attempt.
type Config struct {
	URI      string
	Database string
	Username string
	Password string

	RetryAttempts int
	RetryDelay    time.Duration

	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
	Timeout                time.Duration
	MaxPoolSize            uint64
	MinPoolSize            uint64

	Mode environment.Environment
}

// envConfig mirrors the process environment consumed by ResolveConfig.
type envConfig struct {
	Mode                   string        `env:"APP_ENV" envDefault:"development"`
	URI                    string        `env:"MONGODB_URI"`
	Database               string        `env:"MONGODB_DATABASE" envDefault:"authservice"`
	TestDatabase           string        `env:"MONGODB_TEST_DATABASE"`
	Username               string        `env:"MONGODB_USERNAME"`
	Password               string        `env:"MONGODB_PASSWORD"`
	ConnectTimeout         time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`
	ServerSelectionTimeout time.Duration `env:"MONGODB_SERVER_SELECTION_TIMEOUT" envDefault:"5s"`
	Timeout                time.Duration `env:"MONGODB_TIMEOUT" envDefault:"45s"`
	MaxPoolSize            uint64        `env:"MONGODB_MAX_POOL_SIZE" envDefault:"10"`
	MinPoolSize            uint64        `env:"MONGODB_MIN_POOL_SIZE" envDefault:"0"`
}

type retryPolicy struct {
	attempts int
	delay    time.Duration
}

var retryPolicies = map[environment.Environment]retryPolicy{
	environment.Production:  {attempts: 5, delay: 2000 * time.Millisecond},
	environment.Testing:     {attempts: 1, delay: 500 * time.Millisecond},
	environment.Development: {attempts: 3, delay: 1000 * time.Millisecond},
}

// ResolveConfig builds a Config from the current process environment.
// It is not memoized: every call re-reads the environment.
func ResolveConfig() (Config, error) {
	var raw envConfig
	if err := config.Parse(&raw); err != nil {
		return Config{}, err
	}

	mode := environment.Parse(raw.Mode)
	policy := retryPolicies[mode]

	cfg := Config{
		URI:                    strings.TrimSpace(raw.URI),
		Database:               raw.Database,
		Username:               raw.Username,
		Password:               raw.Password,
		RetryAttempts:          policy.attempts,
		RetryDelay:             policy.delay,
		ConnectTimeout:         raw.ConnectTimeout,
		ServerSelectionTimeout: raw.ServerSelectionTimeout,
		Timeout:                raw.Timeout,
		MaxPoolSize:            raw.MaxPoolSize,
		MinPoolSize:            raw.MinPoolSize,
		Mode:                   mode,
	}

	if mode == environment.Testing {
		if raw.TestDatabase != "" {
			cfg.Database = raw.TestDatabase
		} else {
			cfg.Database = raw.Database + "_test"
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the invariants a connection attempt relies on.
func (c Config) Validate() error {
	if c.URI == "" {
		return ErrMissingURI
	}
	if _, err := c.hosts(); err != nil {
		return err
	}
	if c.Database == "" {
		return ErrMissingDatabase
	}
	if c.RetryAttempts < 1 {
		return ErrInvalidRetryAttempts
	}
	return nil
}

// HasCredentials reports whether explicit credentials are attached to the
// connect options. Both username and password must be set; a lone value is ignored.
func (c Config) HasCredentials() bool {
	return c.Username != "" && c.Password != ""
}

// Target is the credential-free connect target, "host[,host...]/database".
func (c Config) Target() string {
	hosts, err := c.hosts()
	if err != nil || len(hosts) == 0 {
		return "/" + c.Database
	}
	return strings.Join(hosts, ",") + "/" + c.Database
}

// HostPort returns the first seed host and its port.
func (c Config) HostPort() (host, port string) {
	hosts, err := c.hosts()
	if err != nil || len(hosts) == 0 {
		return "", ""
	}
	h, p, err := net.SplitHostPort(hosts[0])
	if err != nil {
		if strings.HasPrefix(c.URI, "mongodb+srv://") {
			return hosts[0], ""
		}
		return hosts[0], defaultPort
	}
	return h, p
}

// hosts extracts the seed list. SRV URIs are not resolved here: connstring
// would perform a DNS lookup for them, so only the SRV name is returned.
func (c Config) hosts() ([]string, error) {
	switch {
	case strings.HasPrefix(c.URI, "mongodb+srv://"):
		u, err := url.Parse(c.URI)
		if err != nil || u.Host == "" {
			return nil, errors.Join(ErrInvalidURI, err)
		}
		return []string{u.Hostname()}, nil
	case strings.HasPrefix(c.URI, "mongodb://"):
		cs, err := connstring.Parse(c.URI)
		if err != nil {
			return nil, errors.Join(ErrInvalidURI, err)
		}
		if len(cs.Hosts) == 0 {
			return nil, ErrInvalidURI
		}
		return cs.Hosts, nil
	default:
		return nil, ErrInvalidURI
	}
}
