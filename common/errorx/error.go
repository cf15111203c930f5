package errorx

// UnwrapError walks the single-error Unwrap chain and returns the
// innermost error. Joined errors need UnwrapAllError instead.
func UnwrapError(err error) error {
	for err != nil {
		wrapped, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = wrapped.Unwrap()
	}
	return err
}

// UnwrapAllError flattens the whole wrap tree, including multi-error
// joins, into a slice ordered outermost first.
func UnwrapAllError(err error) []error {
	if err == nil {
		return nil
	}

	result := []error{err}

	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, sub := range joined.Unwrap() {
			result = append(result, UnwrapAllError(sub)...)
		}
		return result
	}

	if wrapped, ok := err.(interface{ Unwrap() error }); ok {
		if sub := wrapped.Unwrap(); sub != nil {
			result = append(result, UnwrapAllError(sub)...)
		}
	}

	return result
}

// GetCustomErrors collects every coded error found anywhere in the
// wrap tree.
func GetCustomErrors(err error) []error {
	var customErrors []error
	for _, e := range UnwrapAllError(err) {
		if IsValidErrorCode(e.Error()) {
			customErrors = append(customErrors, e)
		} else if coreErr, ok := e.(CoreError); ok {
			customErrors = append(customErrors, coreErr.CustomError())
		}
	}
	return customErrors
}

// GetFirstCustomError returns the outermost coded error in the wrap
// tree, or the original error and false when none is coded.
func GetFirstCustomError(err error) (error, bool) {
	for _, e := range UnwrapAllError(err) {
		if IsValidErrorCode(e.Error()) {
			return e, true
		} else if coreErr, ok := e.(CoreError); ok {
			return coreErr.CustomError(), true
		}
	}
	return err, false
}
