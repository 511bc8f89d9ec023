package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/benvon/healthcheck-api/internal/cors"
	"github.com/benvon/healthcheck-api/internal/ratelimit"
	"github.com/go-playground/validator/v10"
	"golang.org/x/net/http/httpguts"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for configuration values
	if err := Validate.RegisterValidation("cors_origins", validateCorsOrigins); err != nil {
		panic(fmt.Sprintf("failed to register cors_origins validator: %v", err))
	}
	if err := Validate.RegisterValidation("rate_spec", validateRateSpec); err != nil {
		panic(fmt.Sprintf("failed to register rate_spec validator: %v", err))
	}
	if err := Validate.RegisterValidation("storage_url", validateStorageURL); err != nil {
		panic(fmt.Sprintf("failed to register storage_url validator: %v", err))
	}
}

func validateCorsOrigins(fl validator.FieldLevel) bool {
	return cors.CheckOrigins(fl.Field().String()) == nil
}

func validateRateSpec(fl validator.FieldLevel) bool {
	_, err := ratelimit.ParseRates(fl.Field().String())
	return err == nil
}

func validateStorageURL(fl validator.FieldLevel) bool {
	return ratelimit.ValidateStorageURL(fl.Field().String()) == nil
}

// Struct validates s and turns validator errors into messages naming the
// field and the offending value. Custom tags report the underlying parse
// error so that e.g. a bad origin is named in the message.
func Struct(s any) error {
	err := Validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	value := fmt.Sprintf("%v", fe.Value())
	switch fe.Tag() {
	case "cors_origins":
		if err := cors.CheckOrigins(value); err != nil {
			return fmt.Sprintf("%s: %v", fe.Field(), err)
		}
	case "rate_spec":
		if _, err := ratelimit.ParseRates(value); err != nil {
			return fmt.Sprintf("%s: %v", fe.Field(), err)
		}
	case "storage_url":
		if err := ratelimit.ValidateStorageURL(value); err != nil {
			return fmt.Sprintf("%s: %v", fe.Field(), err)
		}
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	}
	if fe.Param() != "" {
		return fmt.Sprintf("%s: %q fails %s=%s", fe.Field(), value, fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s: %q fails %s", fe.Field(), value, fe.Tag())
}

// InvalidTokens returns the entries of list that are not valid HTTP tokens.
// The wildcard is accepted.
func InvalidTokens(list []string) []string {
	var invalid []string
	for _, tok := range list {
		if tok == cors.Wildcard {
			continue
		}
		if !httpguts.ValidHeaderFieldName(tok) {
			invalid = append(invalid, tok)
		}
	}
	return invalid
}
