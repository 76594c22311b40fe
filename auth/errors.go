package auth

import "errors"

// Signer configuration and signing errors.
var (
	// ErrMissingAccessKey indicates no access key ID was provided.
	ErrMissingAccessKey = errors.New("access key ID is required")

	// ErrMissingSecretKey indicates no secret access key was provided.
	ErrMissingSecretKey = errors.New("secret access key is required")

	// ErrMissingRegion indicates no AWS region was provided.
	ErrMissingRegion = errors.New("region is required")

	// ErrMissingService indicates no service name was provided.
	ErrMissingService = errors.New("service name is required")

	// ErrMalformedURL indicates the request URL cannot be canonicalized.
	ErrMalformedURL = errors.New("request URL cannot be canonicalized")

	// ErrInvalidAuthorizationHeader indicates the Authorization header is malformed.
	ErrInvalidAuthorizationHeader = errors.New("invalid authorization header")

	// ErrMissingRefreshToken indicates no LWA refresh token was provided.
	ErrMissingRefreshToken = errors.New("refresh token is required")

	// ErrMissingClientCredentials indicates the LWA client ID or secret is absent.
	ErrMissingClientCredentials = errors.New("LWA client ID and client secret are required")
)

// ErrorKind classifies authentication failures.
type ErrorKind string

const (
	// KindConfiguration marks caller programming errors detected at
	// construction time. Never retried.
	KindConfiguration ErrorKind = "Configuration"

	// KindSigning marks failures to canonicalize or sign a prepared
	// request. Retrying with the same input reproduces the failure.
	KindSigning ErrorKind = "Signing"

	// KindToken marks LWA token exchange failures.
	KindToken ErrorKind = "Token"

	// KindCredentials marks role-assumption failures.
	KindCredentials ErrorKind = "Credentials"
)

// Error is an authentication error with its failure kind attached.
type Error struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// Err is the underlying error.
	Err error
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err with the kind implied by its sentinel.
func NewError(err error) *Error {
	switch {
	case errors.Is(err, ErrMissingAccessKey),
		errors.Is(err, ErrMissingSecretKey),
		errors.Is(err, ErrMissingRegion),
		errors.Is(err, ErrMissingService),
		errors.Is(err, ErrMissingRefreshToken),
		errors.Is(err, ErrMissingClientCredentials):
		return &Error{Kind: KindConfiguration, Err: err}

	case errors.Is(err, ErrMalformedURL):
		return &Error{Kind: KindSigning, Err: err}

	default:
		return &Error{Kind: KindSigning, Err: err}
	}
}

// IsConfiguration reports whether err is a configuration-kind error.
func IsConfiguration(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == KindConfiguration
}
