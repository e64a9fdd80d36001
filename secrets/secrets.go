package secrets

import (
	"errors"

	"github.com/hashicorp/go-hclog"
)

// SecretsManagerType defines the SecretsManager type
type SecretsManagerType string

// Define constant types of secrets managers
const (
	// Local pertains to the local FS [Default]
	Local SecretsManagerType = "local"

	// HashicorpVault pertains to the Hashicorp Vault server
	HashicorpVault SecretsManagerType = "hashicorp-vault"

	// AWSSSM pertains to AWS SSM using configured EC2 instance role
	AWSSSM SecretsManagerType = "aws-ssm"

	// GCPSSM pertains to the Google Cloud Computing secret store manager
	GCPSSM SecretsManagerType = "gcp-ssm"
)

// Define constant secrets names
const (
	// RelayerKey is the private key of the account submitting bridge transactions
	RelayerKey = "relayer-key"
)

// Define constant file names for the local secrets manager
const (
	KeysFolderLocal = "keys"

	RelayerKeyLocal = "relayer.key"
)

var ErrSecretNotFound = errors.New("secret not found")

// Define constant keys for the extra parameters map
const (
	Path      = "path"
	Token     = "token"
	Server    = "server"
	Name      = "name"
	Region    = "region"
	ProjectID = "project-id"
)

// SecretsManager defines the base public interface that all
// secret manager implementations should have
type SecretsManager interface {
	// Setup performs secret manager-specific setup
	Setup() error

	// GetSecret gets the secret by name
	GetSecret(name string) ([]byte, error)

	// SetSecret sets the secret to a provided value
	SetSecret(name string, value []byte) error

	// HasSecret checks if the secret is present
	HasSecret(name string) bool

	// RemoveSecret removes the secret from storage
	RemoveSecret(name string) error
}

// SecretsManagerParams defines the setup params for the secrets manager
type SecretsManagerParams struct {
	// Logger object for the secrets manager
	Logger hclog.Logger

	// Extra contains additional data needed for the SecretsManager to function
	Extra map[string]interface{}
}

// SecretsManagerFactory is the factory method for secrets managers
type SecretsManagerFactory func(
	config *SecretsManagerConfig,
	params *SecretsManagerParams,
) (SecretsManager, error)
