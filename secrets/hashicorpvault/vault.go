package hashicorpvault

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fiamma-chain/cosmwasm-indexer/secrets"
	"github.com/hashicorp/go-hclog"
	vault "github.com/hashicorp/vault/api"
)

// VaultSecretsManager is a SecretsManager that
// stores secrets on a Hashicorp Vault instance
type VaultSecretsManager struct {
	// Logger object
	logger hclog.Logger

	// Token used for Vault instance authentication
	token string

	// The Server URL of the Vault instance
	serverURL string

	// The name of the current node, used for secret namespacing
	name string

	// The base path to store the secrets in KV-2 Vault storage
	basePath string

	// The namespace under which the secrets are stored
	namespace string

	// The HTTP client used for interacting with the Vault server
	client *vault.Client
}

// SecretsManagerFactory implements the factory method
func SecretsManagerFactory(
	config *secrets.SecretsManagerConfig,
	params *secrets.SecretsManagerParams,
) (secrets.SecretsManager, error) {
	// Check if the token is present
	if config.Token == "" {
		return nil, errors.New("no token specified for vault secrets manager")
	}

	// Check if the server URL is present
	if config.ServerURL == "" {
		return nil, errors.New("no server URL specified for vault secrets manager")
	}

	// Check if the node name is present
	if config.Name == "" {
		return nil, errors.New("no node name specified for vault secrets manager")
	}

	vaultManager := &VaultSecretsManager{
		logger:    params.Logger.Named("vault"),
		token:     config.Token,
		serverURL: config.ServerURL,
		name:      config.Name,
		namespace: config.Namespace,
		basePath:  config.Path,
	}

	// Run the initial setup
	if err := vaultManager.Setup(); err != nil {
		return nil, err
	}

	return vaultManager, nil
}

// Setup sets up the Hashicorp Vault secrets manager
func (v *VaultSecretsManager) Setup() error {
	if v.basePath == "" {
		v.basePath = "secret"
	}

	config := vault.DefaultConfig()

	// Set the server URL
	config.Address = v.serverURL

	client, err := vault.NewClient(config)
	if err != nil {
		return fmt.Errorf("unable to instantiate Vault client, %w", err)
	}

	// Set the access token
	client.SetToken(v.token)

	// Set the namespace
	client.SetNamespace(v.namespace)

	v.client = client

	return nil
}

// constructSecretPath creates the secret path for the KV-2 Vault secret engine
func (v *VaultSecretsManager) constructSecretPath(name string) string {
	return fmt.Sprintf("%s/data/%s", v.basePath, filepath.Join(v.name, name))
}

// GetSecret fetches a secret from the Hashicorp Vault server
func (v *VaultSecretsManager) GetSecret(name string) ([]byte, error) {
	secret, err := v.client.Logical().Read(v.constructSecretPath(name))
	if err != nil {
		return nil, fmt.Errorf("unable to read secret from Vault, %w", err)
	}

	if secret == nil {
		return nil, secrets.ErrSecretNotFound
	}

	// KV-2 secrets are nested under the data map
	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf(
			"unable to assert type for secret from Vault, %T %#v",
			secret.Data["data"], secret.Data["data"],
		)
	}

	// Check if the data is present
	secretRaw, ok := data[name]
	if !ok {
		return nil, secrets.ErrSecretNotFound
	}

	value, ok := secretRaw.(string)
	if !ok {
		return nil, errors.New("invalid secret value type in Vault")
	}

	return []byte(value), nil
}

// SetSecret saves a secret to the Hashicorp Vault server
func (v *VaultSecretsManager) SetSecret(name string, value []byte) error {
	data := map[string]interface{}{
		name: string(value),
	}

	_, err := v.client.Logical().Write(v.constructSecretPath(name), map[string]interface{}{
		"data": data,
	})
	if err != nil {
		return fmt.Errorf("unable to store secret (%s), %w", name, err)
	}

	return nil
}

// HasSecret checks if the secret is present on the Hashicorp Vault server
func (v *VaultSecretsManager) HasSecret(name string) bool {
	_, err := v.GetSecret(name)

	return err == nil
}

// RemoveSecret removes the secret from the Hashicorp Vault server
func (v *VaultSecretsManager) RemoveSecret(name string) error {
	// Check if secret exists
	if _, err := v.GetSecret(name); err != nil {
		return err
	}

	// Delete the secret from Vault storage
	_, err := v.client.Logical().Delete(v.constructSecretPath(name))
	if err != nil {
		return fmt.Errorf("unable to delete secret (%s), %w", name, err)
	}

	return nil
}
