package repository

import (
	"context"
	"fmt"
	"sync"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/paylist/payments-api/internal/model"
	"go.uber.org/zap"
)

// DynamoRepository serves payments from a DynamoDB table. The client is
// constructed lazily on first use and reused for the process lifetime, so
// local and test runs never touch the AWS SDK.
type DynamoRepository struct {
	tableName string
	region    string
	logger    *zap.Logger

	initOnce sync.Once
	client   *dynamodb.Client
	initErr  error
}

// NewDynamoRepository creates a repository reading from the named table in
// the given region.
func NewDynamoRepository(tableName, region string, logger *zap.Logger) *DynamoRepository {
	return &DynamoRepository{
		tableName: tableName,
		region:    region,
		logger:    logger,
	}
}

func (r *DynamoRepository) ensureClient(ctx context.Context) (*dynamodb.Client, error) {
	r.initOnce.Do(func() {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(r.region))
		if err != nil {
			r.initErr = fmt.Errorf("load aws config: %w", err)
			return
		}
		r.client = dynamodb.NewFromConfig(awsCfg)
		r.logger.Info("Initialized DynamoDB client",
			zap.String("table", r.tableName),
			zap.String("region", r.region),
		)
	})
	return r.client, r.initErr
}

func (r *DynamoRepository) ScanAll(ctx context.Context) ([]model.Payment, error) {
	client, err := r.ensureClient(ctx)
	if err != nil {
		return nil, err
	}

	var payments []model.Payment

	paginator := dynamodb.NewScanPaginator(client, &dynamodb.ScanInput{
		TableName: &r.tableName,
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan payments: %w", err)
		}

		var batch []model.Payment
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal payments: %w", err)
		}
		payments = append(payments, batch...)
	}

	return payments, nil
}

func (r *DynamoRepository) GetByID(ctx context.Context, id string) (*model.Payment, error) {
	client, err := r.ensureClient(ctx)
	if err != nil {
		return nil, err
	}

	out, err := client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &r.tableName,
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var payment model.Payment
	if err := attributevalue.UnmarshalMap(out.Item, &payment); err != nil {
		return nil, fmt.Errorf("unmarshal payment: %w", err)
	}

	return &payment, nil
}
