package csvsource

import "errors"

// Sentinel kinds for source loading errors.
var (
	ErrOpenSource = errors.New("open source file failed")
	ErrReadSource = errors.New("read source file failed")
	ErrEmpty      = errors.New("source file has no header row")
)
