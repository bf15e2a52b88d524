package postgres

import (
	"github.com/ekaya-inc/ekaya-dal/pkg/adapters/datasource"
)

// constraintType maps pg_constraint.contype onto the shared enum.
// Check, exclusion and trigger constraints are not part of the model.
func constraintType(op, code string) (datasource.ConstraintType, error) {
	switch code {
	case "p":
		return datasource.ConstraintPrimary, nil
	case "u":
		return datasource.ConstraintUnique, nil
	case "f":
		return datasource.ConstraintForeignKey, nil
	default:
		return 0, datasource.NewContractViolation(op, "unsupported constraint type %q", code)
	}
}

// nullable decodes information_schema.columns.is_nullable.
func nullable(op, flag string) (bool, error) {
	switch flag {
	case "YES":
		return true, nil
	case "NO":
		return false, nil
	default:
		return false, datasource.NewContractViolation(op, "unexpected is_nullable value %q", flag)
	}
}
