// Package cors resolves the service's CORS policy from raw configuration
// strings and classifies whether that policy is safe for the environment the
// service runs in.
//
// Every function in this package is pure and safe for concurrent use.
package cors

// Environment is the deployment environment tag (ENV). Known tags map to a
// Kind; any other value is kept verbatim and reported as KindOther.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// EnvKind is the closed set of environments the policy distinguishes.
type EnvKind int

const (
	KindOther EnvKind = iota
	KindDevelopment
	KindStaging
	KindProduction
)

// Kind classifies e. Matching is exact: "Production" is KindOther.
func (e Environment) Kind() EnvKind {
	switch e {
	case Development:
		return KindDevelopment
	case Staging:
		return KindStaging
	case Production:
		return KindProduction
	default:
		return KindOther
	}
}

func (e Environment) String() string {
	return string(e)
}

func (k EnvKind) String() string {
	switch k {
	case KindDevelopment:
		return "development"
	case KindStaging:
		return "staging"
	case KindProduction:
		return "production"
	default:
		return "other"
	}
}
