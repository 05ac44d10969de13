package coordinator

import "errors"

var (
	ErrNotRegistered         = errors.New("participant is not registered")
	ErrDuplicateContribution = errors.New("duplicate contribution for this round")
	ErrRoundMismatch         = errors.New("contribution tagged with a different round")
)
