package service

import (
	"errors"

	"brandhub/internal/repository"
)

var (
	ErrNotFound          = repository.ErrNotFound
	ErrAlreadySettled    = repository.ErrAlreadySettled
	ErrAlreadyReferred   = repository.ErrAlreadyReferred
	ErrForbidden         = errors.New("forbidden")
	ErrMissingPrice      = errors.New("ad has no pay per influencer configured")
	ErrInvalidPrice      = errors.New("ad pay per influencer must not be negative")
	ErrInvalidTransition = errors.New("invalid application status transition")
	ErrAlreadyApplied    = errors.New("influencer already applied to this ad")
	ErrInvalidStatus     = errors.New("status must be earned or paid")
	ErrInvalidPagination = errors.New("limit must be between 1 and 100 and offset must not be negative")
	ErrSelfReferral      = errors.New("cannot redeem your own referral code")
	ErrEmptyReferralCode = errors.New("referral code is required")
	ErrNotInfluencer     = errors.New("caller has no influencer profile")
)
