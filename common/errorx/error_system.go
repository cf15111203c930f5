package errorx

import (
	"database/sql"
	"errors"
	"strings"
)

const errSysPrefix = "SYS-ERR"

const (
	// --- SYS-ERR-xxx: System / Service exceptions ---
	internalServerError = iota
	remoteServiceFail
	internalServiceFailure
	// When select in DB, encounter connection failure or other error
	databaseFailure
	// Replace sql.ErrNoRows
	databaseNoRows
	databaseDuplicateKey
)

var (
	// --- SYS-ERR-xxx: System / Service exceptions ---
	// Used when marshal error, type convert error
	ErrInternalServerError error = CustomError{prefix: errSysPrefix, code: internalServerError}
	ErrRemoteServiceFail   error = CustomError{prefix: errSysPrefix, code: remoteServiceFail}
	// Used in httpClient, then need to convert it to specific error
	ErrInternalServiceFailure error = CustomError{prefix: errSysPrefix, code: internalServiceFailure}
	// Used to instead of sql.ErrConnDone and other unhandled error
	ErrDatabaseFailure error = CustomError{prefix: errSysPrefix, code: databaseFailure}
	// Used to instead of sql.ErrNoRows
	//
	// Convert it to specific error in component or handler
	ErrDatabaseNoRows       error = CustomError{prefix: errSysPrefix, code: databaseNoRows}
	ErrDatabaseDuplicateKey error = CustomError{prefix: errSysPrefix, code: databaseDuplicateKey}
)

func RemoteServiceFail(err error, ctx context) error {
	return CustomError{
		prefix:  errSysPrefix,
		context: ctx,
		err:     err,
		code:    remoteServiceFail,
	}
}

// HandleDBError converts a db error to a custom error, keeping the
// original reachable through errors.Is.
func HandleDBError(err error, ctx map[string]interface{}) error {
	if err == nil {
		return nil
	}
	customErr := CustomError{
		prefix:  errSysPrefix,
		err:     err,
		context: ctx,
	}
	if errors.Is(err, sql.ErrNoRows) {
		customErr.code = databaseNoRows
	} else if strings.Contains(err.Error(), "duplicate key value") {
		customErr.code = databaseDuplicateKey
	} else {
		customErr.code = databaseFailure
	}
	return customErr
}
