// internal/config/validator.go
//
// go-playground/validator setup for the Config tree.
//
// Context
// -------
// LoadFrom validates right after unmarshalling, and ResolveSecrets again
// once `vault:` references hold real values.  Field names in errors use
// the koanf keys ("session.hash_key") so operators can find the line in
// global.yaml.
//
// Custom rules
// ------------
//   - hashkey  : 32 or 64 bytes, or a pending `vault:` reference.
//   - blockkey : empty, 16, 24, or 32 bytes, or a pending `vault:` reference.
//   - mysqldsn : parses as a go-sql-driver/mysql DSN once `%s` is filled.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = val.RegisterValidation("hashkey", keyLen(32, 64))
	_ = val.RegisterValidation("blockkey", keyLen(0, 16, 24, 32))
	_ = val.RegisterValidation("mysqldsn", func(fl validator.FieldLevel) bool {
		_, err := mysql.ParseDSN(strings.ReplaceAll(fl.Field().String(), "%s", "x"))
		return err == nil
	})
	return val
}

// keyLen accepts strings whose byte length is one of sizes.
func keyLen(sizes ...int) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if strings.HasPrefix(s, vaultPrefix) {
			return true
		}
		for _, n := range sizes {
			if len(s) == n {
				return true
			}
		}
		return false
	}
}

// validateStruct checks c and reports every failing field.
func validateStruct(c *Config) error {
	err := v.Struct(c)
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return err
	}
	errs := make([]error, 0, len(fields))
	for _, fe := range fields {
		errs = append(errs, fieldError(fe))
	}
	return errors.Join(errs...)
}

func fieldError(fe validator.FieldError) error {
	_, key, _ := strings.Cut(fe.Namespace(), ".") // drop the root struct name
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s: required", key)
	case "hashkey":
		return fmt.Errorf("%s: must be 32 or 64 bytes", key)
	case "blockkey":
		return fmt.Errorf("%s: must be empty or 16, 24, or 32 bytes", key)
	case "mysqldsn":
		return fmt.Errorf("%s: not a MySQL DSN", key)
	}
	if fe.Param() != "" {
		return fmt.Errorf("%s: failed %s=%s", key, fe.Tag(), fe.Param())
	}
	return fmt.Errorf("%s: failed %s", key, fe.Tag())
}
