package errorx

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_CustomErr_Error(t *testing.T) {
	t.Run(
		"Test_Error_With_Original_Error",
		func(t *testing.T) {
			originalErr := fmt.Errorf("original error")
			customErr := CustomError{
				prefix: errSysPrefix,
				code:   internalServerError,
				err:    originalErr,
			}

			expectedMsg := fmt.Sprintf("%s-%d: %s", errSysPrefix, internalServerError, originalErr.Error())
			assert.Equal(t, expectedMsg, customErr.Error())
		},
	)
	t.Run(
		"Test_Error_Without_Original_Error",
		func(t *testing.T) {
			customErr := CustomError{
				prefix: errSysPrefix,
				code:   internalServerError,
			}

			expectedMsg := fmt.Sprintf("%s-%d", errSysPrefix, internalServerError)
			assert.Equal(t, expectedMsg, customErr.Error())
		},
	)
}

func Test_CustomErr_Code(t *testing.T) {
	customErr := CustomError{
		prefix: errSysPrefix,
		code:   internalServerError,
		err:    fmt.Errorf("original error"),
	}

	expectedCode := fmt.Sprintf("%s-%d", errSysPrefix, internalServerError)
	assert.Equal(t, expectedCode, customErr.Code())
}

func Test_CustomErr_Is(t *testing.T) {
	t.Run(
		"Test_Is_With_Same_Prefix_And_Code",
		func(t *testing.T) {
			customErr := CustomError{
				prefix: errSysPrefix,
				code:   internalServerError,
			}
			sameErr := CustomError{
				prefix: errSysPrefix,
				code:   internalServerError,
			}

			assert.True(t, customErr.Is(sameErr))
		},
	)
	t.Run(
		"Test_Is_With_Different_Prefix",
		func(t *testing.T) {
			customErr := CustomError{
				prefix: errSysPrefix,
				code:   internalServerError,
			}
			differentErr := CustomError{
				prefix: "DIFF-PREFIX",
				code:   internalServerError,
			}

			assert.False(t, customErr.Is(differentErr))
		},
	)
}

func Test_CustomErr_Unwrap(t *testing.T) {
	t.Run(
		"Test_Unwrap_With_Original_Error",
		func(t *testing.T) {
			originalErr := fmt.Errorf("original error")
			customErr := CustomError{
				prefix: errSysPrefix,
				code:   internalServerError,
				err:    originalErr,
			}

			unwrappedErr := UnwrapError(customErr)
			assert.Equal(t, originalErr, unwrappedErr)
		},
	)
	t.Run(
		"Test_Unwrap_Without_Original_Error",
		func(t *testing.T) {
			customErr := CustomError{
				prefix: errSysPrefix,
				code:   internalServerError,
			}

			unwrappedErr := UnwrapError(customErr)
			assert.Nil(t, unwrappedErr)
		},
	)
}

func Test_ParseErrorCode(t *testing.T) {
	parsed := ParseErrorCode("JOB-ERR-3")
	assert.Equal(t, "JOB-ERR-3", parsed.Code())

	unknown := ParseErrorCode("not-a-code")
	assert.Equal(t, errUnknownPrefix+"-0", unknown.Code())
}

func Test_Err_SYS_Core(t *testing.T) {
	t.Run(
		"Test_ErrDatabaseNoRows",
		func(t *testing.T) {
			getErr := fmt.Errorf("error msg: %w", ErrDatabaseNoRows)
			unwrapErr := UnwrapAllError(getErr)
			assert.Contains(t, unwrapErr, ErrDatabaseNoRows)

			getCustomErr, ok := GetFirstCustomError(getErr)
			assert.Equal(t, true, ok)
			assert.Equal(t, true, errors.Is(getCustomErr, ErrDatabaseNoRows))
			assert.Equal(t, true, IsValidErrorCode(getCustomErr.Error()))
		},
	)
	t.Run(
		"Test_ErrDatabaseFailure",
		func(t *testing.T) {
			getErr := fmt.Errorf("error msg: %w", ErrDatabaseFailure)
			unwrapErr := UnwrapAllError(getErr)
			assert.Contains(t, unwrapErr, ErrDatabaseFailure)

			getCustomErr, ok := GetFirstCustomError(getErr)
			assert.Equal(t, true, ok)
			assert.Equal(t, true, errors.Is(getCustomErr, ErrDatabaseFailure))
			assert.Equal(t, true, IsValidErrorCode(getCustomErr.Error()))
		},
	)
}

func Test_Err_SYS_HandleDB(t *testing.T) {
	t.Run(
		"Test_ErrDatabaseNoRows",
		func(t *testing.T) {
			getErr := HandleDBError(sql.ErrNoRows, map[string]interface{}{"tt": "tt"})
			assert.Equal(t, true, errors.Is(getErr, ErrDatabaseNoRows))
			assert.Equal(t, true, errors.Is(getErr, sql.ErrNoRows))

			unwrapErr := UnwrapAllError(getErr)
			assert.Contains(t, unwrapErr, CustomError{
				prefix:  errSysPrefix,
				code:    databaseNoRows,
				err:     sql.ErrNoRows,
				context: map[string]interface{}{"tt": "tt"},
			})

			getCustomErr := GetCustomErrors(getErr)
			assert.Equal(t, 1, len(getCustomErr))
			assert.Equal(t, true, IsValidErrorCode(getCustomErr[0].(CustomError).Code()))

			getFirstCustom, ok := GetFirstCustomError(getErr)
			assert.Equal(t, true, ok)
			assert.Equal(t, getFirstCustom, CustomError{
				prefix:  errSysPrefix,
				code:    databaseNoRows,
				err:     sql.ErrNoRows,
				context: map[string]interface{}{"tt": "tt"},
			})
		},
	)
	t.Run(
		"Test_ErrDatabaseDuplicateKey",
		func(t *testing.T) {
			getErr := HandleDBError(errors.New(`ERROR: duplicate key value violates unique constraint "train_jobs_name_key"`), nil)
			assert.Equal(t, true, errors.Is(getErr, ErrDatabaseDuplicateKey))
		},
	)
	t.Run(
		"Test_ErrDatabaseFailure",
		func(t *testing.T) {
			getErr := HandleDBError(sql.ErrConnDone, nil)
			unwrapErr := UnwrapAllError(getErr)
			assert.Contains(t, unwrapErr, CustomError{
				prefix: errSysPrefix,
				code:   databaseFailure,
				err:    sql.ErrConnDone,
			})

			getCustomErr := GetCustomErrors(getErr)
			assert.Equal(t, 1, len(getCustomErr))
			assert.Equal(t, true, errors.Is(getCustomErr[0], ErrDatabaseFailure))
			assert.Equal(t, true, errors.Is(getErr, sql.ErrConnDone))
		},
	)
}

func Test_Err_Domain_Helpers(t *testing.T) {
	t.Run(
		"Test_JobSubmitFailed",
		func(t *testing.T) {
			originalErr := fmt.Errorf("runner returned 503")
			getErr := JobSubmitFailed(originalErr, Ctx().Set("job_name", "tj-123"))

			assert.Equal(t, true, errors.Is(getErr, ErrJobSubmitFailed))
			assert.Equal(t, originalErr, UnwrapError(getErr))

			custom, ok := GetFirstCustomError(getErr)
			assert.Equal(t, true, ok)
			assert.Contains(t, custom.(CustomError).Detail(), "job_name")
		},
	)
	t.Run(
		"Test_ClusterNotFound_Distinct_From_DatasetNotFound",
		func(t *testing.T) {
			assert.Equal(t, false, errors.Is(ErrClusterNotFound, ErrDatasetNotFound))
		},
	)
}
