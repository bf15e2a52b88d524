// Package sqlguard refuses identifier values that cannot be placed safely into
// SQL text, for the few statements where identifiers cannot be bound.
package sqlguard

import (
	"fmt"
	"strings"

	libinjection "github.com/corazawaf/libinjection-go"

	"github.com/ekaya-inc/ekaya-dal/pkg/apperrors"
)

// MaxIdentifierLength bounds identifier input. Oracle allows 128 bytes and
// PostgreSQL truncates at 63, so anything longer is not a catalog name.
const MaxIdentifierLength = 128

// InjectionCheckResult contains the result of an injection check on an identifier.
type InjectionCheckResult struct {
	IsSQLi      bool   // True if SQL injection pattern detected
	Fingerprint string // libinjection fingerprint of the detected pattern
	Kind        string // "schema", "table", ...
	Value       string // The value that was checked
}

// CheckIdentifierForInjection uses libinjection to detect SQL injection patterns
// in an identifier value.
//
// Returns nil if no injection is detected.
//
// Example:
//
//	result := CheckIdentifierForInjection("table", "ORDERS")
//	// result == nil
//
//	result := CheckIdentifierForInjection("table", "x; DROP TABLE users--")
//	// result.IsSQLi == true
func CheckIdentifierForInjection(kind, value string) *InjectionCheckResult {
	isSQLi, fingerprint := libinjection.IsSQLi(value)
	if isSQLi {
		return &InjectionCheckResult{
			IsSQLi:      true,
			Fingerprint: string(fingerprint),
			Kind:        kind,
			Value:       value,
		}
	}
	return nil
}

// ValidateIdentifier returns an error wrapping apperrors.ErrInvalidIdentifier
// when value is empty, too long, contains a NUL byte or looks like SQL injection.
// Quoting still happens afterwards; this only rejects input no catalog holds.
func ValidateIdentifier(kind, value string) error {
	switch {
	case value == "":
		return fmt.Errorf("%w: %s name is empty", apperrors.ErrInvalidIdentifier, kind)
	case len(value) > MaxIdentifierLength:
		return fmt.Errorf("%w: %s name is longer than %d bytes", apperrors.ErrInvalidIdentifier, kind, MaxIdentifierLength)
	case strings.ContainsRune(value, 0):
		return fmt.Errorf("%w: %s name contains a NUL byte", apperrors.ErrInvalidIdentifier, kind)
	}
	if res := CheckIdentifierForInjection(kind, value); res != nil {
		return fmt.Errorf("%w: %s name %q matches injection fingerprint %s",
			apperrors.ErrInvalidIdentifier, kind, value, res.Fingerprint)
	}
	return nil
}

// ValidateQualifiedName validates a schema and table pair.
func ValidateQualifiedName(schema, table string) error {
	if err := ValidateIdentifier("schema", schema); err != nil {
		return err
	}
	return ValidateIdentifier("table", table)
}
