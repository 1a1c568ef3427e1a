package auth

import "errors"

var (
	ErrInvalidToken             = errors.New("invalid or expired token")
	ErrOrganizationClaimMissing = errors.New("token has no valid organization")
)
