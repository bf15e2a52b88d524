package apperrors

import "errors"

var (
	ErrUnsupportedDatasource = errors.New("unsupported datasource type")
	ErrConnectionClosed      = errors.New("connection is closed")
	ErrInvalidIdentifier     = errors.New("invalid SQL identifier")
	ErrInvalidSetting        = errors.New("invalid adapter setting")
)
