package errorx

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var errorCodeRegex = regexp.MustCompile(`^([A-Z]+-ERR)-(\d+)$`)

func IsValidErrorCode(code string) bool {
	return errorCodeRegex.MatchString(code)
}

// ParseErrorCode parses the corresponding error object from an error code
// string of the form "PREFIX-ERR-NUMBER" (e.g.: "JOB-ERR-1", "SYS-ERR-2").
// Returns ErrUnknown's CustomError when parsing fails.
func ParseErrorCode(errorCode string) CustomError {
	errUnknown := CustomError{
		prefix: errUnknownPrefix,
		code:   0,
	}

	matches := errorCodeRegex.FindStringSubmatch(errorCode)
	if len(matches) != 3 {
		return errUnknown
	}

	prefix := matches[1]
	codeNum, err := strconv.Atoi(matches[2])
	if err != nil {
		return errUnknown
	}

	return CustomError{
		prefix: prefix,
		code:   codeNum,
	}
}

type CoreError interface {
	Error() string
	Code() string
	CustomError() CustomError
}

func NewCustomError(prefix string, code int, err error, ctx context) CustomError {
	return CustomError{
		prefix:  prefix,
		code:    code,
		err:     err,
		context: ctx,
	}
}

// CustomError is the standard coded error. Clients match on the code
// string, eg. ErrClusterNotFound.Code() returns "CLS-ERR-0".
// CustomError implements the error interface.
type CustomError struct {
	prefix  string
	code    int
	err     error
	context context
}

func (err CustomError) Error() string {
	if err.err != nil {
		return fmt.Sprintf("%s-%d: %s", err.prefix, err.code, err.err.Error())
	}
	return fmt.Sprintf("%s-%d", err.prefix, err.code)
}

func (err CustomError) Code() string {
	return fmt.Sprintf("%s-%d", err.prefix, err.code)
}

func (err CustomError) CustomError() CustomError {
	return err
}

// Detail appends the context key/values to the code for log lines.
func (err CustomError) Detail() string {
	errorMsg := err.Code()
	if len(err.context) > 0 {
		var auxParts []string
		for key, value := range err.context {
			auxParts = append(auxParts, fmt.Sprintf("%s:%v", key, value))
		}
		errorMsg += " [" + strings.Join(auxParts, ", ") + "]"
	}

	return errorMsg
}

// used for errors.Is to check error type
func (err CustomError) Is(target error) bool {
	targetErr, ok := target.(CustomError)
	if !ok {
		return false
	}
	return err.prefix == targetErr.prefix && err.code == targetErr.code
}

func (err CustomError) Unwrap() error {
	return err.err
}

var (
	ErrNotFound = errors.New("not found")
	// not enough permission for current user
	ErrForbidden             = errors.New("forbidden")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrAlreadyExists         = errors.New("the record already exists")
	ErrContentLengthTooLarge = errors.New("content length too large")
)

// ErrForbiddenMsg returns a new ErrForbidden with extra message
func ErrForbiddenMsg(msg string) error {
	return fmt.Errorf("%s, %w", msg, ErrForbidden)
}

type HTTPError struct {
	StatusCode int
	Message    any
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("StatusCode: %d, Message: %v", e.StatusCode, e.Message)
}
