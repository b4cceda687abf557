package environment

import "strings"

// Environment represents the deployment mode of the service.
type Environment string

const (
	// Development is the default mode for local work.
	Development Environment = "development"
	// Testing is used by automated test runs against disposable infrastructure.
	Testing Environment = "testing"
	// Production is the live deployment.
	Production Environment = "production"
)

// Parse converts a raw mode flag into an Environment.
// Empty or unrecognised values resolve to Development.
func Parse(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(Production), "prod":
		return Production
	case string(Testing), "test":
		return Testing
	default:
		return Development
	}
}

// String implements fmt.Stringer.
func (e Environment) String() string {
	return string(e)
}

// IsProduction reports whether e is the production mode.
func (e Environment) IsProduction() bool { return e == Production }

// IsTesting reports whether e is the testing mode.
func (e Environment) IsTesting() bool { return e == Testing }

// IsDevelopment reports whether e is the development mode.
func (e Environment) IsDevelopment() bool { return e == Development }
