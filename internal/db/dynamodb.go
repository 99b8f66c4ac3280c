package db

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/yigit/councilcms/internal/config"
	"github.com/yigit/councilcms/internal/pkg/logger"
)

// NewDynamoDBClient creates a DynamoDB client. Static credentials are used when
// configured, otherwise the default AWS credential chain. Endpoint points the
// client at DynamoDB Local or another compatible service.
func NewDynamoDBClient(ctx context.Context, cfg config.DynamoDBConfig) (*dynamodb.Client, error) {
	cfgOptions := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		cfgOptions = append(cfgOptions, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		cfgOptions = append(cfgOptions, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, cfgOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	logger.Info().Str("region", awsCfg.Region).Str("table_prefix", cfg.TablePrefix).Msg("DynamoDB client ready")
	return client, nil
}
