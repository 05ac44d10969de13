package fedavg

import "errors"

var (
	ErrNoContributions = errors.New("no contributions provided for aggregation")
	ErrLengthMismatch  = errors.New("contribution vector length mismatch")
	ErrZeroWeight      = errors.New("total contribution weight is zero")
)
