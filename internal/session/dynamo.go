package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/capitalize-ai/assistant-gateway/internal/model"
	"github.com/capitalize-ai/assistant-gateway/pkg/metrics"
)

// dynamoAPI is the slice of the DynamoDB client this store uses.
type dynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// DynamoStore persists state as JSON documents in a DynamoDB table keyed by
// session id, with a TTL attribute for expiry.
type DynamoStore struct {
	client dynamoAPI
	table  string
	ttl    time.Duration
}

// NewDynamoStore wraps a DynamoDB client for the given table.
func NewDynamoStore(client dynamoAPI, table string, ttl time.Duration) *DynamoStore {
	return &DynamoStore{client: client, table: table, ttl: ttl}
}

func dynamoKey(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: "SESSION#" + userID},
	}
}

func (s *DynamoStore) Get(ctx context.Context, userID string) (model.State, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       dynamoKey(userID),
	})
	if err != nil {
		metrics.RecordSessionOp("dynamo", "get", err)
		return model.State{}, fmt.Errorf("dynamo get %s: %w", userID, err)
	}

	attr, ok := out.Item["state"].(*types.AttributeValueMemberS)
	if !ok {
		metrics.RecordSessionOp("dynamo", "get", nil)
		return model.State{}, nil
	}

	state, err := decodeState([]byte(attr.Value))
	metrics.RecordSessionOp("dynamo", "get", err)
	return state, err
}

func (s *DynamoStore) Save(ctx context.Context, userID string, state model.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding session state: %w", err)
	}

	item := map[string]types.AttributeValue{
		"pk":    &types.AttributeValueMemberS{Value: "SESSION#" + userID},
		"state": &types.AttributeValueMemberS{Value: string(data)},
	}
	if s.ttl > 0 {
		expires := time.Now().Add(s.ttl).Unix()
		item["expiresAt"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(expires, 10)}
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	metrics.RecordSessionOp("dynamo", "save", err)
	if err != nil {
		return fmt.Errorf("dynamo put %s: %w", userID, err)
	}
	return nil
}

func (s *DynamoStore) Delete(ctx context.Context, userID string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       dynamoKey(userID),
	})
	metrics.RecordSessionOp("dynamo", "delete", err)
	if err != nil {
		return fmt.Errorf("dynamo delete %s: %w", userID, err)
	}
	return nil
}
