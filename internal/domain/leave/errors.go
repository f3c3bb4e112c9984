package leave

import "errors"

var ErrInvalidLeaveDates = errors.New("leave request has invalid dates")
