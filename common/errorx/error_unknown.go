package errorx

const errUnknownPrefix = "UNK-ERR"

var ErrUnknown error = CustomError{prefix: errUnknownPrefix, code: 0}
