package contracts

import "errors"

// Structural input errors. Surfaced to the caller as hard failures;
// everything softer (bad pair, degenerate statistic) degrades to
// sentinel values and a skip instead.
var (
	ErrEmptyPanel           = errors.New("price panel is empty")
	ErrMisalignedPanel      = errors.New("price panel is misaligned")
	ErrInvalidConfiguration = errors.New("invalid configuration")
)
