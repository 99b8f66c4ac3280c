package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/yigit/councilcms/internal/app/models"
	"github.com/yigit/councilcms/internal/pkg/apperrors"
	"github.com/yigit/councilcms/internal/pkg/logger"
)

// DynamoAPI is the part of the DynamoDB client the document store uses
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

const (
	dynamoKeyAttr       = "id"
	dynamoUpdatedAtAttr = "updatedAt"
	maxCreateAttempts   = 5
)

// dynamoStore keeps one item per record in the table <prefix><type>, keyed by id
type dynamoStore[R models.Record] struct {
	contentType models.ContentType
	client      DynamoAPI
	table       string
	newRecord   func() R
	opts        Options[R]
}

// NewDynamoStore creates a document store over client
func NewDynamoStore[R models.Record](ct models.ContentType, client DynamoAPI, tablePrefix string, newRecord func() R, opts Options[R]) Store[R] {
	return &dynamoStore[R]{
		contentType: ct,
		client:      client,
		table:       tablePrefix + string(ct),
		newRecord:   newRecord,
		opts:        opts,
	}
}

func (s *dynamoStore[R]) Backend() string { return "dynamodb" }

func jsonTags(o *attributevalue.EncoderOptions) { o.TagKey = "json" }

func jsonTagsDecode(o *attributevalue.DecoderOptions) { o.TagKey = "json" }

func (s *dynamoStore[R]) marshal(r R) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMapWithOptions(r, jsonTags)
	if err != nil {
		return nil, fmt.Errorf("marshal %s %q: %w", s.contentType, r.GetID(), err)
	}
	return item, nil
}

func (s *dynamoStore[R]) unmarshal(item map[string]types.AttributeValue) (R, error) {
	r := s.newRecord()
	if err := attributevalue.UnmarshalMapWithOptions(item, r, jsonTagsDecode); err != nil {
		var zero R
		return zero, fmt.Errorf("unmarshal %s item: %w", s.contentType, err)
	}
	return r, nil
}

func keyOf(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{dynamoKeyAttr: &types.AttributeValueMemberS{Value: id}}
}

func isTableMissing(err error) bool {
	var notFoundErr *types.ResourceNotFoundException
	return errors.As(err, &notFoundErr)
}

func isConditionFailed(err error) bool {
	var condErr *types.ConditionalCheckFailedException
	return errors.As(err, &condErr)
}

func (s *dynamoStore[R]) GetAll(ctx context.Context) (map[string]R, error) {
	records, bad, missing, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}
	if missing {
		logger.Debug().Str("table", s.table).Msg("Table missing, serving default dataset")
		return keyed(s.opts.defaults()), nil
	}
	if len(bad) > 0 {
		return nil, unavailable(s.contentType, s.Backend(), "decode", bad[0])
	}
	return records, nil
}

func (s *dynamoStore[R]) GetStored(ctx context.Context) (map[string]R, []RecordError, error) {
	records, bad, _, err := s.scan(ctx)
	return records, bad, err
}

// scan reads every item. Items that do not unmarshal are collected in bad;
// missing reports that the table does not exist.
func (s *dynamoStore[R]) scan(ctx context.Context) (records map[string]R, bad []RecordError, missing bool, err error) {
	records = map[string]R{}
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName:      aws.String(s.table),
		ConsistentRead: aws.Bool(true),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			if isTableMissing(err) {
				return map[string]R{}, nil, true, nil
			}
			return nil, nil, false, unavailable(s.contentType, s.Backend(), "scan", err)
		}
		for _, item := range page.Items {
			r, err := s.unmarshal(item)
			if err != nil {
				var id string
				_ = attributevalue.Unmarshal(item[dynamoKeyAttr], &id)
				bad = append(bad, RecordError{ID: id, Err: err})
				continue
			}
			records[r.GetID()] = r
		}
	}
	return records, bad, false, nil
}

// getItem returns the record and its raw updatedAt attribute, or ErrNotFound
func (s *dynamoStore[R]) getItem(ctx context.Context, id string) (R, types.AttributeValue, error) {
	var zero R
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            keyOf(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return zero, nil, err
	}
	if len(out.Item) == 0 {
		return zero, nil, notFound(s.contentType, id)
	}
	r, err := s.unmarshal(out.Item)
	if err != nil {
		return zero, nil, err
	}
	return r, out.Item[dynamoUpdatedAtAttr], nil
}

func (s *dynamoStore[R]) GetByID(ctx context.Context, id string) (R, error) {
	var zero R
	r, _, err := s.getItem(ctx, id)
	switch {
	case err == nil:
		return r, nil
	case IsNotFound(err):
		return zero, err
	case isTableMissing(err):
		if r, ok := keyed(s.opts.defaults())[id]; ok {
			return r, nil
		}
		return zero, notFound(s.contentType, id)
	default:
		return zero, unavailable(s.contentType, s.Backend(), "get", err)
	}
}

func (s *dynamoStore[R]) exists(ctx context.Context, id string) (bool, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:            aws.String(s.table),
		Key:                  keyOf(id),
		ProjectionExpression: aws.String(dynamoKeyAttr),
		ConsistentRead:       aws.Bool(true),
	})
	if err != nil {
		return false, unavailable(s.contentType, s.Backend(), "get", err)
	}
	return len(out.Item) > 0, nil
}

// putNew writes r only when no item with its id exists
func (s *dynamoStore[R]) putNew(ctx context.Context, r R) error {
	item, err := s.marshal(r)
	if err != nil {
		return unavailable(s.contentType, s.Backend(), "encode", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": dynamoKeyAttr,
		},
	})
	if err != nil {
		if isConditionFailed(err) {
			return alreadyExists(s.contentType, r.GetID())
		}
		return unavailable(s.contentType, s.Backend(), "put", err)
	}
	return nil
}

func (s *dynamoStore[R]) Create(ctx context.Context, record R) (R, error) {
	var zero R
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		id, err := uniqueID(ctx, record.SlugSource(), s.exists)
		if err != nil {
			return zero, err
		}
		record.SetID(id)
		record.SetTimestamps(zeroTime, zeroTime)
		s.opts.Clock.stampNew(record)

		err = s.putNew(ctx, record)
		if err == nil {
			return record, nil
		}
		if !errors.Is(err, ErrAlreadyExists) {
			return zero, err
		}
		// another writer took the id between the check and the put
	}
	return zero, alreadyExists(s.contentType, record.GetID())
}

func (s *dynamoStore[R]) Update(ctx context.Context, id string, patch Patch[R]) (R, error) {
	var zero R
	current, prevStamp, err := s.getItem(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return zero, err
		}
		return zero, unavailable(s.contentType, s.Backend(), "get", err)
	}

	createdAt, updatedAt := current.GetCreatedAt(), current.GetUpdatedAt()
	if patch != nil {
		if err := patch(current); err != nil {
			return zero, err
		}
	}
	current.SetID(id)
	s.opts.Clock.stampUpdate(current, createdAt, updatedAt)

	item, err := s.marshal(current)
	if err != nil {
		return zero, unavailable(s.contentType, s.Backend(), "encode", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:                aws.String(s.table),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": dynamoKeyAttr},
	}
	if prevStamp != nil {
		input.ConditionExpression = aws.String("attribute_exists(#id) AND #u = :prev")
		input.ExpressionAttributeNames["#u"] = dynamoUpdatedAtAttr
		input.ExpressionAttributeValues = map[string]types.AttributeValue{":prev": prevStamp}
	}

	if _, err := s.client.PutItem(ctx, input); err != nil {
		if isConditionFailed(err) {
			return zero, apperrors.NewConflictError(fmt.Sprintf("%s %q was modified concurrently", s.contentType.Label(), id))
		}
		return zero, unavailable(s.contentType, s.Backend(), "put", err)
	}
	return current, nil
}

func (s *dynamoStore[R]) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(s.table),
		Key:                      keyOf(id),
		ConditionExpression:      aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": dynamoKeyAttr},
	})
	if err != nil {
		if isConditionFailed(err) {
			return notFound(s.contentType, id)
		}
		return unavailable(s.contentType, s.Backend(), "delete", err)
	}
	return nil
}

func (s *dynamoStore[R]) Insert(ctx context.Context, record R) (R, error) {
	var zero R
	if record.GetID() == "" {
		return zero, fmt.Errorf("insert %s: record has no id", s.contentType)
	}
	s.opts.Clock.stampNew(record)
	if err := s.putNew(ctx, record); err != nil {
		return zero, err
	}
	return record, nil
}

func (s *dynamoStore[R]) Clear(ctx context.Context) (int, error) {
	removed := 0
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName:            aws.String(s.table),
		ProjectionExpression: aws.String(dynamoKeyAttr),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			if isTableMissing(err) {
				return removed, nil
			}
			return removed, unavailable(s.contentType, s.Backend(), "scan", err)
		}
		for _, item := range page.Items {
			if _, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
				TableName: aws.String(s.table),
				Key:       map[string]types.AttributeValue{dynamoKeyAttr: item[dynamoKeyAttr]},
			}); err != nil {
				return removed, unavailable(s.contentType, s.Backend(), "delete", err)
			}
			removed++
		}
	}
	return removed, nil
}
