package oracle

import (
	"context"
	"database/sql/driver"
	"errors"
	"io"
	"net"
	"regexp"
	"strconv"

	"github.com/ekaya-inc/ekaya-dal/pkg/adapters/datasource"
)

var oraCodePattern = regexp.MustCompile(`ORA-(\d{5})`)

// oraCode extracts the first ORA- error number from err, or 0.
func oraCode(err error) int {
	m := oraCodePattern.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	code, _ := strconv.Atoi(m[1])
	return code
}

// isConnectivityCode reports whether an ORA- code means the session could not
// be established or was lost.
func isConnectivityCode(code int) bool {
	switch code {
	case 1017, // invalid username/password
		1033, // initialization or shutdown in progress
		1034, // ORACLE not available
		1089, // immediate shutdown in progress
		3113, // end-of-file on communication channel
		3114, // not connected to ORACLE
		3135, // connection lost contact
		28000: // account is locked
		return true
	}
	return code >= 12150 && code <= 12699 // TNS and listener errors
}

// mapError translates a go-ora error into a datasource.Error.
func mapError(op, msg string, err error) error {
	if err == nil {
		return nil
	}

	var dalErr *datasource.Error
	if errors.As(err, &dalErr) {
		return err
	}

	if code := oraCode(err); code != 0 {
		if isConnectivityCode(code) {
			return datasource.NewConnectivityError(op, msg, err)
		}
		return datasource.NewQueryError(op, msg, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return datasource.NewConnectivityError(op, msg, err)
	}

	return datasource.NewQueryError(op, msg, err)
}
