package cors

// RawConfig is the CORS configuration as read from the environment.
type RawConfig struct {
	Origins      string
	AllowMethods string
	AllowHeaders string
	Environment  Environment
}

// Policy is the effective allow-lists derived from a RawConfig.
type Policy struct {
	Origins []string
	Methods []string
	Headers []string
}

// Resolve derives the effective policy from raw.
func Resolve(raw RawConfig) Policy {
	return Policy{
		Origins: ParseOrigins(raw.Origins, raw.Environment),
		Methods: ParseList(raw.AllowMethods),
		Headers: ParseList(raw.AllowHeaders),
	}
}

// Secure reports whether the policy's origins are acceptable for env.
func (p Policy) Secure(env Environment) bool {
	return IsSecure(p.Origins, env)
}

// AllowsAnyOrigin reports whether the origin list contains the wildcard.
func (p Policy) AllowsAnyOrigin() bool { return contains(p.Origins, Wildcard) }

// AllowsAnyMethod reports whether the method list contains the wildcard.
func (p Policy) AllowsAnyMethod() bool { return contains(p.Methods, Wildcard) }

// AllowsAnyHeader reports whether the header list contains the wildcard.
func (p Policy) AllowsAnyHeader() bool { return contains(p.Headers, Wildcard) }

// DeniesAllOrigins reports whether no cross-origin request can be allowed.
func (p Policy) DeniesAllOrigins() bool { return len(p.Origins) == 0 }

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
