package usage

import "errors"

// ErrLimitReached indicates the employer exceeded their session quota.
var ErrLimitReached = errors.New("limit reached")
