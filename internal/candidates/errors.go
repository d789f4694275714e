package candidates

import "errors"

var (
	ErrNotFound     = errors.New("candidate not found")
	ErrInvalidInput = errors.New("invalid candidate input")
	ErrNoResume     = errors.New("candidate has no resume")
)
