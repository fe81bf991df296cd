package domain

import "errors"

// Business errors returned as structured results at the API boundary,
// never as bare 500s.
var (
	ErrInsufficientFunds = errors.New("insufficient credits")
	ErrUnknownAction     = errors.New("unknown credit action")
	ErrDuplicateReferral = errors.New("user already has a referral record")
	ErrInvalidSignature  = errors.New("gateway signature verification failed")
	ErrBelowMinimum      = errors.New("amount below project minimum investment")
	ErrInvalidStake      = errors.New("expected stake must be between 0 and 100")
)
