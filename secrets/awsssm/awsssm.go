package awsssm

import (
	"errors"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ssm"
	"github.com/fiamma-chain/cosmwasm-indexer/secrets"
	"github.com/hashicorp/go-hclog"
)

// AwsSsmManager is a SecretsManager that
// stores secrets on AWS SSM Parameter Store
type AwsSsmManager struct {
	// Logger object
	logger hclog.Logger

	// The AWS region
	region string

	// The AWS SSM client
	client *ssm.SSM

	// The base path under which the secrets are stored
	ssmPath string
}

// SecretsManagerFactory implements the factory method
func SecretsManagerFactory(
	config *secrets.SecretsManagerConfig,
	params *secrets.SecretsManagerParams,
) (secrets.SecretsManager, error) {
	region, ok := config.Extra[secrets.Region].(string)
	if !ok || region == "" {
		return nil, errors.New("no region specified for AWS SSM secrets manager")
	}

	ssmPath, ok := config.Extra[secrets.Path].(string)
	if !ok || ssmPath == "" {
		return nil, errors.New("no path specified for AWS SSM secrets manager")
	}

	awsSsmManager := &AwsSsmManager{
		logger:  params.Logger.Named("aws-ssm"),
		region:  region,
		ssmPath: ssmPath,
	}

	// Run the initial setup
	if err := awsSsmManager.Setup(); err != nil {
		return nil, err
	}

	return awsSsmManager, nil
}

// Setup sets up the AWS SSM secrets manager
func (a *AwsSsmManager) Setup() error {
	sess, err := session.NewSessionWithOptions(session.Options{
		Config: aws.Config{
			Region: aws.String(a.region),
		},
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return fmt.Errorf("unable to initialize AWS SSM client, %w", err)
	}

	a.client = ssm.New(sess)

	return nil
}

// constructSecretPath creates the secret path for AWS SSM Parameter Store
func (a *AwsSsmManager) constructSecretPath(name string) string {
	return path.Join(a.ssmPath, name)
}

// GetSecret fetches a secret from AWS SSM Parameter Store
func (a *AwsSsmManager) GetSecret(name string) ([]byte, error) {
	param, err := a.client.GetParameter(&ssm.GetParameterInput{
		Name:           aws.String(a.constructSecretPath(name)),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		var awsErr awserr.Error
		if errors.As(err, &awsErr) && awsErr.Code() == ssm.ErrCodeParameterNotFound {
			return nil, secrets.ErrSecretNotFound
		}

		return nil, fmt.Errorf("unable to read secret (%s), %w", name, err)
	}

	if param.Parameter == nil || param.Parameter.Value == nil {
		return nil, secrets.ErrSecretNotFound
	}

	return []byte(*param.Parameter.Value), nil
}

// SetSecret saves a secret to AWS SSM Parameter Store
func (a *AwsSsmManager) SetSecret(name string, value []byte) error {
	_, err := a.client.PutParameter(&ssm.PutParameterInput{
		Name:  aws.String(a.constructSecretPath(name)),
		Value: aws.String(string(value)),
		Type:  aws.String(ssm.ParameterTypeSecureString),
	})
	if err != nil {
		return fmt.Errorf("unable to store secret (%s), %w", name, err)
	}

	return nil
}

// HasSecret checks if the secret is present on AWS SSM Parameter Store
func (a *AwsSsmManager) HasSecret(name string) bool {
	_, err := a.GetSecret(name)

	return err == nil
}

// RemoveSecret removes the secret from AWS SSM Parameter Store
func (a *AwsSsmManager) RemoveSecret(name string) error {
	// Check if secret exists
	if _, err := a.GetSecret(name); err != nil {
		return err
	}

	// Delete the secret from AWS SSM
	if _, err := a.client.DeleteParameter(&ssm.DeleteParameterInput{
		Name: aws.String(a.constructSecretPath(name)),
	}); err != nil {
		return fmt.Errorf("unable to delete secret (%s), %w", name, err)
	}

	return nil
}
