package auth

import (
	"time"
)

// =============================================================================
// Credential Types
// =============================================================================

// Credentials is one set of AWS credentials used for a single signing call.
// Instances are ephemeral: fetched per request from the credential provider,
// held for the duration of one Sign call and discarded.
type Credentials struct {
	// AccessKeyID is the public key identifier.
	AccessKeyID string

	// SecretAccessKey is the signing secret.
	SecretAccessKey string

	// SessionToken is set when the credentials are temporary (role
	// assumption). Empty for long-lived keys.
	SessionToken string
}

// CredentialScope binds a derived signing key to a narrow validity window.
// Format: {date}/{region}/{service}/aws4_request
type CredentialScope struct {
	// Date is the date portion of the scope (YYYYMMDD).
	Date time.Time

	// Region is the AWS region (e.g. "us-east-1").
	Region string

	// Service is the AWS service (e.g. "execute-api").
	Service string
}

// String returns the credential scope as a string.
func (cs CredentialScope) String() string {
	return cs.Date.Format(YYYYMMDD) + "/" + cs.Region + "/" + cs.Service + "/" + AWS4Request
}

// CredentialHeader is the Credential= component of an Authorization header.
type CredentialHeader struct {
	// AccessKey is the access key ID.
	AccessKey string

	// Scope is the credential scope.
	Scope CredentialScope
}

// String returns the credential as a string.
// Format: {access_key}/{scope}
func (ch CredentialHeader) String() string {
	return ch.AccessKey + "/" + ch.Scope.String()
}

// =============================================================================
// Signature Components
// =============================================================================

// CanonicalRequest holds the components of a canonical request. It exists
// only as input to the string-to-sign hash within one signing call.
type CanonicalRequest struct {
	// Method is the HTTP method, uppercase.
	Method string

	// URI is the canonical URI path (never empty; "/" when the path is).
	URI string

	// QueryString is the canonical query string.
	QueryString string

	// Headers is the canonical headers block, newline-terminated.
	Headers string

	// SignedHeaders is the sorted, semicolon-joined signed header names.
	SignedHeaders string

	// PayloadHash is the lowercase hex SHA-256 of the request body.
	PayloadHash string
}

// String returns the canonical request as the string that gets hashed.
// The headers block already carries its trailing newline.
func (cr CanonicalRequest) String() string {
	return cr.Method + "\n" +
		cr.URI + "\n" +
		cr.QueryString + "\n" +
		cr.Headers + "\n" +
		cr.SignedHeaders + "\n" +
		cr.PayloadHash
}

// StringToSign holds the components of the string to sign.
type StringToSign struct {
	// Algorithm is the signing algorithm tag.
	Algorithm string

	// RequestDateTime is the full request timestamp (YYYYMMDDTHHMMSSZ).
	RequestDateTime string

	// CredentialScope is the credential scope string.
	CredentialScope string

	// CanonicalRequestHash is the hex SHA-256 of the canonical request.
	CanonicalRequestHash string
}

// String returns the string to sign.
func (sts StringToSign) String() string {
	return sts.Algorithm + "\n" +
		sts.RequestDateTime + "\n" +
		sts.CredentialScope + "\n" +
		sts.CanonicalRequestHash
}

// SignedValues is an Authorization header decomposed into its parts, as
// produced by ParseSignV4.
type SignedValues struct {
	// Credential contains the access key and scope.
	Credential CredentialHeader

	// SignedHeaders is the list of headers included in the signature.
	SignedHeaders []string

	// Signature is the hex-encoded signature.
	Signature string
}
