package errorx

const errReqPrefix = "REQ-ERR"

const (
	errBadRequest = iota

	errReqBodyFormat
	errReqBodyEmpty
	errReqBodyTooLarge

	errReqParamMissing
	errReqParamInvalid
	errReqParamOutOfRange
)

var (
	// --- REQ-ERR-xxx: Request related errors ---
	ErrBadRequest error = CustomError{prefix: errReqPrefix, code: errBadRequest}

	// Request body format error
	ErrReqBodyFormat error = CustomError{prefix: errReqPrefix, code: errReqBodyFormat}
	// Request body is empty
	ErrReqBodyEmpty error = CustomError{prefix: errReqPrefix, code: errReqBodyEmpty}
	// Request body too large
	ErrReqBodyTooLarge error = CustomError{prefix: errReqPrefix, code: errReqBodyTooLarge}

	// Required request parameter missing
	ErrReqParamMissing error = CustomError{prefix: errReqPrefix, code: errReqParamMissing}
	// Invalid request parameter
	ErrReqParamInvalid error = CustomError{prefix: errReqPrefix, code: errReqParamInvalid}
	// Request parameter out of range
	ErrReqParamOutOfRange error = CustomError{prefix: errReqPrefix, code: errReqParamOutOfRange}
)

func ReqBodyFormat(err error, ctx context) error {
	return CustomError{
		prefix:  errReqPrefix,
		context: ctx,
		err:     err,
		code:    errReqBodyFormat,
	}
}

func ReqParamInvalid(err error, ctx context) error {
	return CustomError{
		prefix:  errReqPrefix,
		context: ctx,
		err:     err,
		code:    errReqParamInvalid,
	}
}
