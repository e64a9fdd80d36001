package gcpssm

import (
	"context"
	"errors"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/fiamma-chain/cosmwasm-indexer/secrets"
	"github.com/hashicorp/go-hclog"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// GCPSSMCred is the path to the credentials file for the GCP secret manager
	GCPSSMCred = "gcp-ssm-cred"
)

// GCPSecretsManager is a SecretsManager that
// stores secrets in the Google Cloud secret manager
type GCPSecretsManager struct {
	// Logger object
	logger hclog.Logger

	// The GCP project id
	projectID string

	// The name of the current node, used for secret namespacing
	name string

	// The context used by the GCP client
	context context.Context

	// The GCP secret manager client
	client *secretmanager.Client
}

// SecretsManagerFactory implements the factory method
func SecretsManagerFactory(
	config *secrets.SecretsManagerConfig,
	params *secrets.SecretsManagerParams,
) (secrets.SecretsManager, error) {
	projectID, ok := config.Extra[secrets.ProjectID].(string)
	if !ok || projectID == "" {
		return nil, errors.New("no project id specified for GCP secrets manager")
	}

	if config.Name == "" {
		return nil, errors.New("no node name specified for GCP secrets manager")
	}

	gcpManager := &GCPSecretsManager{
		logger:    params.Logger.Named("gcp-ssm"),
		projectID: projectID,
		name:      config.Name,
		context:   context.Background(),
	}

	var clientOptions []option.ClientOption
	if credFile, ok := config.Extra[GCPSSMCred].(string); ok && credFile != "" {
		clientOptions = append(clientOptions, option.WithCredentialsFile(credFile))
	}

	// Run the initial setup
	if err := gcpManager.setup(clientOptions); err != nil {
		return nil, err
	}

	return gcpManager, nil
}

// Setup sets up the GCP secrets manager
func (g *GCPSecretsManager) Setup() error {
	return g.setup(nil)
}

func (g *GCPSecretsManager) setup(clientOptions []option.ClientOption) error {
	client, err := secretmanager.NewClient(g.context, clientOptions...)
	if err != nil {
		return fmt.Errorf("unable to initialize GCP secret manager client, %w", err)
	}

	g.client = client

	return nil
}

// constructSecretID creates the secret id, secrets of all nodes
// live in the same project
func (g *GCPSecretsManager) constructSecretID(name string) string {
	return fmt.Sprintf("%s-%s", g.name, name)
}

func (g *GCPSecretsManager) constructSecretName(name string) string {
	return fmt.Sprintf("projects/%s/secrets/%s", g.projectID, g.constructSecretID(name))
}

// GetSecret fetches a secret from the GCP secret manager
func (g *GCPSecretsManager) GetSecret(name string) ([]byte, error) {
	result, err := g.client.AccessSecretVersion(g.context, &secretmanagerpb.AccessSecretVersionRequest{
		Name: g.constructSecretName(name) + "/versions/latest",
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, secrets.ErrSecretNotFound
		}

		return nil, fmt.Errorf("unable to read secret (%s), %w", name, err)
	}

	return result.GetPayload().GetData(), nil
}

// SetSecret saves a secret to the GCP secret manager
func (g *GCPSecretsManager) SetSecret(name string, value []byte) error {
	secret, err := g.client.CreateSecret(g.context, &secretmanagerpb.CreateSecretRequest{
		Parent:   "projects/" + g.projectID,
		SecretId: g.constructSecretID(name),
		Secret: &secretmanagerpb.Secret{
			Replication: &secretmanagerpb.Replication{
				Replication: &secretmanagerpb.Replication_Automatic_{
					Automatic: &secretmanagerpb.Replication_Automatic{},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("unable to create secret (%s), %w", name, err)
	}

	if _, err := g.client.AddSecretVersion(g.context, &secretmanagerpb.AddSecretVersionRequest{
		Parent: secret.GetName(),
		Payload: &secretmanagerpb.SecretPayload{
			Data: value,
		},
	}); err != nil {
		return fmt.Errorf("unable to store secret (%s), %w", name, err)
	}

	return nil
}

// HasSecret checks if the secret is present in the GCP secret manager
func (g *GCPSecretsManager) HasSecret(name string) bool {
	_, err := g.GetSecret(name)

	return err == nil
}

// RemoveSecret removes the secret from the GCP secret manager
func (g *GCPSecretsManager) RemoveSecret(name string) error {
	// Check if secret exists
	if _, err := g.GetSecret(name); err != nil {
		return err
	}

	if err := g.client.DeleteSecret(g.context, &secretmanagerpb.DeleteSecretRequest{
		Name: g.constructSecretName(name),
	}); err != nil {
		return fmt.Errorf("unable to delete secret (%s), %w", name, err)
	}

	return nil
}
