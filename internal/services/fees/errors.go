package fees

import "errors"

// Service errors
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNegativeAmount  = errors.New("amount must not be negative")
	ErrNegativeRate    = errors.New("percentage and fixed fee must not be negative")
	ErrBoundsInverted  = errors.New("minimum fee exceeds maximum fee")
	ErrMixedCurrencies = errors.New("schedule amounts must share one currency")
	ErrUnknownCorridor = errors.New("unknown fee corridor")
)
