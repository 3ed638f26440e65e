package pricing

import "errors"

var ErrUnknownDirection = errors.New("unknown trade direction")
