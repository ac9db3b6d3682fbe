package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownUser        = errors.New("unknown user")
	ErrInvalidArgument    = errors.New("invalid argument")

	// ErrInvalidToken is the parent of every structural token failure
	ErrInvalidToken     = errors.New("invalid token")
	ErrMalformedToken   = fmt.Errorf("%w: malformed", ErrInvalidToken)
	ErrInvalidSignature = fmt.Errorf("%w: signature mismatch", ErrInvalidToken)
	ErrIssuerMismatch   = fmt.Errorf("%w: issuer mismatch", ErrInvalidToken)
	ErrAudienceMismatch = fmt.Errorf("%w: audience mismatch", ErrInvalidToken)

	ErrTokenExpired     = errors.New("token has expired")
	ErrWrongTokenKind   = errors.New("wrong token kind")
	ErrTokenRevoked     = errors.New("token has been revoked")
	ErrMissingToken     = errors.New("no bearer token")
	ErrInsufficientRole = errors.New("insufficient role")

	ErrRevocationUnavailable = errors.New("revocation store unavailable")

	ErrProductNotFound = errors.New("product not found")
)
