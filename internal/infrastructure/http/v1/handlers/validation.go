package handlers

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// phonePattern accepts local and international numbers with common separators.
var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 .\-]{7,18}[0-9]$`)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators installs custom rules on gin's validator and makes
// errors report JSON field names.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
			return
		}
		registerErr = registerRules(v)
	})
	return registerErr
}

func registerRules(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)
	if err := v.RegisterValidation("phone", validatePhone); err != nil {
		return fmt.Errorf("register phone rule: %w", err)
	}
	return nil
}

// validatePhone passes empty values; pair with required where needed.
func validatePhone(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	if value == "" {
		return true
	}
	return phonePattern.MatchString(value)
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// fieldPath turns a validator namespace into the JSON path of the field.
// The request type and embedded struct names are dropped, e.g.
// "CreateOrderRequest.CustomerRequest.customerPhone" becomes "customerPhone".
func fieldPath(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	if len(parts) > 0 {
		parts = parts[1:]
	}
	out := parts[:0]
	for _, p := range parts {
		if p != "" && unicode.IsUpper(rune(p[0])) {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return fe.Field()
	}
	return strings.Join(out, ".")
}
