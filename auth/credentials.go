package auth

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// DefaultRoleSessionName identifies SP-API sessions in CloudTrail.
const DefaultRoleSessionName = "amazon-sp-api"

// CredentialsProvider supplies the AWS credentials for one signing call.
// Providers must be safe for concurrent use; the signer itself never caches
// what they return.
type CredentialsProvider interface {
	// Credentials returns credentials valid for an immediate signing call.
	Credentials(ctx context.Context) (Credentials, error)
}

// =============================================================================
// Static Credentials
// =============================================================================

// StaticCredentialsProvider returns the same long-lived key pair on every
// call. Used when no IAM role ARN is configured.
type StaticCredentialsProvider struct {
	creds Credentials
}

// NewStaticCredentialsProvider creates a provider over a fixed key pair.
// Missing keys fail fast as configuration errors.
func NewStaticCredentialsProvider(accessKeyID, secretAccessKey string) (*StaticCredentialsProvider, error) {
	if accessKeyID == "" {
		return nil, NewError(ErrMissingAccessKey)
	}
	if secretAccessKey == "" {
		return nil, NewError(ErrMissingSecretKey)
	}
	return &StaticCredentialsProvider{
		creds: Credentials{
			AccessKeyID:     accessKeyID,
			SecretAccessKey: secretAccessKey,
		},
	}, nil
}

// Credentials returns the fixed key pair.
func (p *StaticCredentialsProvider) Credentials(ctx context.Context) (Credentials, error) {
	return p.creds, nil
}

// =============================================================================
// Role Assumption
// =============================================================================

// AssumeRoleProvider obtains temporary credentials by assuming an IAM role
// through STS. Temporary credentials are cached by the underlying SDK cache
// and refreshed inside their expiry window, so every signing call sees a
// currently valid access key / secret / session token triple.
type AssumeRoleProvider struct {
	cache *aws.CredentialsCache
}

// AssumeRoleConfig configures role assumption.
type AssumeRoleConfig struct {
	// AccessKeyID and SecretAccessKey are the long-lived IAM user keys
	// allowed to assume the role. When both are empty the AWS SDK's
	// default credential chain is used instead.
	AccessKeyID     string
	SecretAccessKey string

	// RoleARN is the IAM role to assume. Required.
	RoleARN string

	// Region is the STS region. Required.
	Region string

	// SessionName names the assumed-role session. Defaults to
	// DefaultRoleSessionName.
	SessionName string
}

// NewAssumeRoleProvider builds the STS client and assume-role credential
// chain. Missing region is a configuration error.
func NewAssumeRoleProvider(ctx context.Context, cfg AssumeRoleConfig) (*AssumeRoleProvider, error) {
	if cfg.Region == "" {
		return nil, NewError(ErrMissingRegion)
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" || cfg.SecretAccessKey != "" {
		if cfg.AccessKeyID == "" {
			return nil, NewError(ErrMissingAccessKey)
		}
		if cfg.SecretAccessKey == "" {
			return nil, NewError(ErrMissingSecretKey)
		}
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, &Error{Kind: KindCredentials, Err: err}
	}

	sessionName := cfg.SessionName
	if sessionName == "" {
		sessionName = DefaultRoleSessionName
	}

	provider := stscreds.NewAssumeRoleProvider(sts.NewFromConfig(awsCfg), cfg.RoleARN,
		func(o *stscreds.AssumeRoleOptions) {
			o.RoleSessionName = sessionName
		})

	return &AssumeRoleProvider{cache: aws.NewCredentialsCache(provider)}, nil
}

// Credentials retrieves the current temporary credentials, assuming the role
// again when the cached set is close to expiry.
func (p *AssumeRoleProvider) Credentials(ctx context.Context) (Credentials, error) {
	c, err := p.cache.Retrieve(ctx)
	if err != nil {
		return Credentials{}, &Error{Kind: KindCredentials, Err: err}
	}
	return Credentials{
		AccessKeyID:     c.AccessKeyID,
		SecretAccessKey: c.SecretAccessKey,
		SessionToken:    c.SessionToken,
	}, nil
}
