// Package auth implements request authentication for the Selling Partner API:
// AWS Signature Version 4 request signing, LWA access-token exchange and
// temporary AWS credential sourcing via role assumption.
package auth

// =============================================================================
// Constants
// =============================================================================

const (
	// SignV4Algorithm is the algorithm identifier for AWS Signature Version 4.
	SignV4Algorithm = "AWS4-HMAC-SHA256"

	// ISO8601BasicFormat is the timestamp format used in AWS v4 signatures.
	ISO8601BasicFormat = "20060102T150405Z"

	// YYYYMMDD is the short date format used in credential scope.
	YYYYMMDD = "20060102"

	// ServiceExecuteAPI is the service name SP-API requests are signed for.
	ServiceExecuteAPI = "execute-api"

	// AWS4Request is the termination string for credential scope.
	AWS4Request = "aws4_request"
)

// =============================================================================
// Header Constants
// =============================================================================

const (
	// AuthorizationHeader is the HTTP header carrying the signature.
	AuthorizationHeader = "Authorization"

	// HostHeader is the HTTP Host header.
	HostHeader = "Host"

	// ContentTypeHeader is the HTTP Content-Type header.
	ContentTypeHeader = "Content-Type"

	// UserAgentHeader is the HTTP User-Agent header.
	UserAgentHeader = "User-Agent"

	// XAmzDateHeader is the AWS request timestamp header.
	XAmzDateHeader = "X-Amz-Date"

	// XAmzContentSHA256Header is the payload hash header.
	XAmzContentSHA256Header = "X-Amz-Content-Sha256"

	// XAmzSecurityTokenHeader is the session token header.
	XAmzSecurityTokenHeader = "X-Amz-Security-Token"

	// XAmzAccessTokenHeader carries the LWA access token on SP-API requests.
	XAmzAccessTokenHeader = "X-Amz-Access-Token"
)

// Default header values applied when the caller did not set them.
const (
	// DefaultContentType is applied when no Content-Type is present.
	DefaultContentType = "application/x-www-form-urlencoded; charset=utf-8"

	// DefaultUserAgent is applied when no User-Agent is present.
	DefaultUserAgent = "amazon-sp-api-go/1.0 (Language=Go)"
)

// EmptyStringSHA256 is the SHA-256 hash of an empty string.
const EmptyStringSHA256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

// signedHeaderPrefix selects which headers enter the signature. Only headers
// starting with this prefix, plus Host, are signed; everything else travels
// unsigned so proxies that rewrite headers cannot break the signature.
const signedHeaderPrefix = "x-amz-"
