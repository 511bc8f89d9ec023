package cors

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateOrigin(t *testing.T) {
	t.Parallel()
	tests := []struct {
		origin string
		want   bool
	}{
		{"*", true},
		{"https://example.com", true},
		{"http://localhost:3000", true},
		{"https://subdomain.example.com", true},
		{"https://example.com:8080", true},
		{"HTTPS://EXAMPLE.COM", true},
		{"https://example.com/", true},
		{"https://example.com/app/path", true},
		{"https://my-app.example.com", true},
		{"invalid-url", false},
		{"ftp://example.com", false},
		{"", false},
		{"https://", false},
		{"https://-bad.example.com", false},
		{"https://bad-.example.com", false},
		{"https://example..com", false},
		{"https://example.com:port", false},
		{"https://exa mple.com", false},
		{"https://" + strings.Repeat("a", 64) + ".com", false},
		{"https://" + strings.Repeat("a", 63) + ".com", true},
	}
	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ValidateOrigin(tt.origin))
		})
	}
}

func TestParseOrigins(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		raw  string
		env  Environment
		want []string
	}{
		{"wildcard in development", "*", Development, []string{"*"}},
		{"wildcard in production", "*", Production, []string{}},
		{"wildcard in staging", "*", Staging, []string{}},
		{"wildcard in unknown env", "*", Environment("qa"), []string{}},
		{"multiple", "https://app.com,https://admin.app.com", Production, []string{"https://app.com", "https://admin.app.com"}},
		{"whitespace trimmed", " https://a.com , https://b.com ", Production, []string{"https://a.com", "https://b.com"}},
		{"invalid dropped", "https://valid.com,not-a-url,https://also-valid.com", Production, []string{"https://valid.com", "https://also-valid.com"}},
		{"empty pieces dropped", "https://a.com,, ,https://b.com", Production, []string{"https://a.com", "https://b.com"}},
		{"duplicates kept", "https://a.com,https://a.com", Production, []string{"https://a.com", "https://a.com"}},
		{"empty string", "", Production, []string{}},
		{"wildcard inside list dropped in production", "https://a.com,*", Production, []string{"https://a.com"}},
		{"wildcard inside list dropped in staging", "*,https://a.com", Staging, []string{"https://a.com"}},
		{"wildcard inside list kept in development", "https://a.com,*", Development, []string{"https://a.com", "*"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ParseOrigins(tt.raw, tt.env)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseOrigins_Idempotent(t *testing.T) {
	t.Parallel()
	inputs := []struct {
		raw string
		env Environment
	}{
		{"*", Development},
		{"*", Production},
		{" https://a.com , bogus, http://localhost:3000/ ", Production},
		{"https://x.io,https://x.io", Staging},
		{"", Development},
	}
	for _, in := range inputs {
		first := ParseOrigins(in.raw, in.env)
		second := ParseOrigins(strings.Join(first, ","), in.env)
		assert.Equal(t, first, second, "raw=%q env=%s", in.raw, in.env)
	}
}

func TestHasWildcard(t *testing.T) {
	t.Parallel()
	assert.True(t, HasWildcard("*"))
	assert.True(t, HasWildcard("https://a.com, *"))
	assert.False(t, HasWildcard("https://a.com"))
	assert.False(t, HasWildcard(""))
}

func TestDroppedOrigins(t *testing.T) {
	t.Parallel()
	assert.Nil(t, DroppedOrigins("*"))
	assert.Nil(t, DroppedOrigins("https://a.com, https://b.com"))
	assert.Equal(t, []string{"not-a-url", "ftp://x.com"}, DroppedOrigins("https://a.com,not-a-url, ftp://x.com"))
}

func TestIsSecure(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		origins []string
		env     Environment
		want    bool
	}{
		{"wildcard development", []string{"*"}, Development, true},
		{"http development", []string{"http://insecure.com"}, Development, true},
		{"wildcard production", []string{"*"}, Production, false},
		{"https production", []string{"https://app.com"}, Production, true},
		{"http production", []string{"http://app.com"}, Production, false},
		{"localhost production", []string{"http://localhost:3000"}, Production, true},
		{"mixed production", []string{"https://app.com", "http://app.com"}, Production, false},
		{"wildcard staging", []string{"*"}, Staging, false},
		{"https staging", []string{"https://staging.app.com"}, Staging, true},
		{"http staging", []string{"http://staging.app.com"}, Staging, true},
		{"wildcard other", []string{"https://a.com", "*"}, Environment("qa"), false},
		{"empty production", []string{}, Production, true},
		{"case sensitive env", []string{"*"}, Environment("Development"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsSecure(tt.origins, tt.env))
		})
	}
}

func TestCheckOrigins(t *testing.T) {
	t.Parallel()

	require.NoError(t, CheckOrigins("*"))
	require.NoError(t, CheckOrigins("https://example.com, http://localhost:3000"))
	require.NoError(t, CheckOrigins(""))
	require.NoError(t, CheckOrigins("https://example.com,,"))

	err := CheckOrigins("invalid-url")
	require.Error(t, err)
	var invalid *InvalidOriginError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "invalid-url", invalid.Origin)
	assert.Contains(t, err.Error(), "invalid origin format: invalid-url")

	err = CheckOrigins("https://valid.com, invalid-url, ftp://also-bad")
	require.Error(t, err)
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "invalid-url", invalid.Origin)
}

func TestParseList(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"*"}, ParseList("*"))
	assert.Equal(t, []string{"GET", "POST", "PUT"}, ParseList("GET,POST,PUT"))
	assert.Equal(t, []string{"Authorization", "Content-Type"}, ParseList(" Authorization , Content-Type "))
	assert.Equal(t, []string{"GET", "GET"}, ParseList("GET,GET"))
	assert.Equal(t, []string{}, ParseList(""))
	assert.Equal(t, []string{"X Weird"}, ParseList("X Weird,"))
}

func TestResolve(t *testing.T) {
	t.Parallel()

	p := Resolve(RawConfig{
		Origins:      "https://app.com,https://admin.app.com",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Authorization,Content-Type,Accept",
		Environment:  Production,
	})
	assert.Equal(t, []string{"https://app.com", "https://admin.app.com"}, p.Origins)
	assert.Equal(t, []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}, p.Methods)
	assert.Equal(t, []string{"Authorization", "Content-Type", "Accept"}, p.Headers)
	assert.True(t, p.Secure(Production))
	assert.False(t, p.AllowsAnyOrigin())
	assert.False(t, p.DeniesAllOrigins())

	dev := Resolve(RawConfig{Origins: "*", AllowMethods: "*", AllowHeaders: "*", Environment: Development})
	assert.True(t, dev.AllowsAnyOrigin())
	assert.True(t, dev.AllowsAnyMethod())
	assert.True(t, dev.AllowsAnyHeader())

	prod := Resolve(RawConfig{Origins: "*", AllowMethods: "GET", AllowHeaders: "*", Environment: Production})
	assert.True(t, prod.DeniesAllOrigins())
	assert.False(t, prod.AllowsAnyOrigin())
}

func TestEnvironmentKind(t *testing.T) {
	t.Parallel()
	assert.Equal(t, KindDevelopment, Development.Kind())
	assert.Equal(t, KindStaging, Staging.Kind())
	assert.Equal(t, KindProduction, Production.Kind())
	assert.Equal(t, KindOther, Environment("preview").Kind())
	assert.Equal(t, KindOther, Environment("").Kind())
	assert.Equal(t, "other", Environment("preview").Kind().String())
	assert.Equal(t, "preview", Environment("preview").String())
}
