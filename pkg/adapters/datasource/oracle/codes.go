package oracle

import (
	"github.com/ekaya-inc/ekaya-dal/pkg/adapters/datasource"
)

// constraintType maps ALL_CONSTRAINTS.CONSTRAINT_TYPE onto the shared enum.
func constraintType(op, code string) (datasource.ConstraintType, error) {
	switch code {
	case "P":
		return datasource.ConstraintPrimary, nil
	case "U":
		return datasource.ConstraintUnique, nil
	case "R":
		return datasource.ConstraintForeignKey, nil
	default:
		return 0, datasource.NewContractViolation(op, "unsupported constraint type %q", code)
	}
}

// nullable decodes ALL_TAB_COLUMNS.NULLABLE.
func nullable(op, flag string) (bool, error) {
	switch flag {
	case "Y":
		return true, nil
	case "N":
		return false, nil
	default:
		return false, datasource.NewContractViolation(op, "unexpected NULLABLE flag %q", flag)
	}
}
