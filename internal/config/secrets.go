// Package config provides configuration management for the gridiron-edge engine.
package config

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

const (
	errLoadAWSConfig           = "failed to load AWS config: %w"
	errGetSecretFromAWSSecrets = "failed to get secret from AWS Secrets Manager: %w"
	errParseSecretJSON         = "failed to parse secret JSON: %w"
	errParseSecretBinary       = "failed to parse secret binary: %w"
	errNoSecretDataFound       = "no secret data found in AWS Secrets Manager"
)

// SecretsOverlay represents the structure of secrets stored in AWS Secrets Manager
type SecretsOverlay struct {
	DatabasePassword  string `json:"database_password"`
	DataServiceAPIKey string `json:"data_service_api_key"`
}

// fetchSecretsFromAWS retrieves secrets from AWS Secrets Manager
func fetchSecretsFromAWS(ctx context.Context, region string, secretName string) (*SecretsOverlay, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf(errLoadAWSConfig, err)
	}

	client := secretsmanager.NewFromConfig(awsCfg)
	input := &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretName),
	}

	result, err := client.GetSecretValue(ctx, input)
	if err != nil {
		return nil, fmt.Errorf(errGetSecretFromAWSSecrets, err)
	}

	return parseSecretData(result)
}

// parseSecretData extracts the secrets overlay from a Secrets Manager response
func parseSecretData(result *secretsmanager.GetSecretValueOutput) (*SecretsOverlay, error) {
	secrets := &SecretsOverlay{}

	if result.SecretString != nil {
		if err := json.Unmarshal([]byte(*result.SecretString), secrets); err != nil {
			return nil, fmt.Errorf(errParseSecretJSON, err)
		}
		return secrets, nil
	}

	if result.SecretBinary != nil {
		if err := json.Unmarshal(result.SecretBinary, secrets); err != nil {
			return nil, fmt.Errorf(errParseSecretBinary, err)
		}
		return secrets, nil
	}

	return nil, fmt.Errorf(errNoSecretDataFound)
}

// LoadSecretsFromAWS overlays sensitive values from AWS Secrets Manager
// onto an already-loaded configuration. Only values present in the secret
// are overwritten.
func LoadSecretsFromAWS(cfg *Config, region string, secretName string) error {
	secrets, err := fetchSecretsFromAWS(context.Background(), region, secretName)
	if err != nil {
		return err
	}

	if secrets.DatabasePassword != "" {
		cfg.Database.Password = secrets.DatabasePassword
	}
	if secrets.DataServiceAPIKey != "" {
		cfg.Dataset.APIKey = secrets.DataServiceAPIKey
	}

	return nil
}
