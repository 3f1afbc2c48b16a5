// Package dynamo provides a DynamoDB-backed store.VectorStore.
//
// Table schema:
//   - Partition key: group_id (string)
//   - Sort key: user_id (string)
//   - vector attribute: codec-encoded preference vector (binary)
//
// Create the table with:
//
//	aws dynamodb create-table \
//	  --table-name tastematch-vectors \
//	  --attribute-definitions AttributeName=group_id,AttributeType=S AttributeName=user_id,AttributeType=S \
//	  --key-schema AttributeName=group_id,KeyType=HASH AttributeName=user_id,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/gkoduol/tastematch/codec"
	"github.com/gkoduol/tastematch/model"
)

// DDBClient is the interface for the DynamoDB operations the store uses.
// Satisfied by *dynamodb.Client; narrow so tests can substitute a mock.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// VectorStore implements store.VectorStore on DynamoDB.
type VectorStore struct {
	client    DDBClient
	tableName string
	codec     codec.Codec
}

// NewVectorStore creates a DynamoDB-backed vector store.
// A nil codec falls back to codec.Default.
func NewVectorStore(client DDBClient, tableName string, c codec.Codec) *VectorStore {
	if c == nil {
		c = codec.Default
	}
	return &VectorStore{
		client:    client,
		tableName: tableName,
		codec:     c,
	}
}

// UpsertUserVector overwrites the user's preference vector.
func (s *VectorStore) UpsertUserVector(ctx context.Context, groupID, userID string, vec model.Vector) error {
	body, err := s.codec.Marshal(vec)
	if err != nil {
		return fmt.Errorf("encode vector: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item: map[string]types.AttributeValue{
			"group_id":   &types.AttributeValueMemberS{Value: groupID},
			"user_id":    &types.AttributeValueMemberS{Value: userID},
			"codec":      &types.AttributeValueMemberS{Value: s.codec.Name()},
			"vector":     &types.AttributeValueMemberB{Value: body},
			"updated_at": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
		},
	})
	return err
}

// GetUserVector returns the user's stored preference vector, if any.
func (s *VectorStore) GetUserVector(ctx context.Context, groupID, userID string) (model.Vector, bool, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"group_id": &types.AttributeValueMemberS{Value: groupID},
			"user_id":  &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, false, err
	}
	if out.Item == nil {
		return nil, false, nil
	}

	vec, err := s.decodeItem(out.Item)
	if err != nil {
		return nil, false, err
	}
	return vec, true, nil
}

// ListUserVectors returns every stored vector for the group.
func (s *VectorStore) ListUserVectors(ctx context.Context, groupID string) (map[string]model.Vector, error) {
	vectors := make(map[string]model.Vector)

	var lastKey map[string]types.AttributeValue
	for {
		out, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.tableName),
			KeyConditionExpression: aws.String("group_id = :gid"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":gid": &types.AttributeValueMemberS{Value: groupID},
			},
			ExclusiveStartKey: lastKey,
		})
		if err != nil {
			return nil, err
		}

		for _, item := range out.Items {
			userAttr, ok := item["user_id"].(*types.AttributeValueMemberS)
			if !ok {
				return nil, fmt.Errorf("vector item in group %q missing user_id", groupID)
			}
			vec, err := s.decodeItem(item)
			if err != nil {
				return nil, err
			}
			vectors[userAttr.Value] = vec
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		lastKey = out.LastEvaluatedKey
	}
	return vectors, nil
}

func (s *VectorStore) decodeItem(item map[string]types.AttributeValue) (model.Vector, error) {
	blob, ok := item["vector"].(*types.AttributeValueMemberB)
	if !ok {
		return nil, fmt.Errorf("vector attribute missing or not binary")
	}

	// Items record the codec they were written with.
	c := s.codec
	if nameAttr, ok := item["codec"].(*types.AttributeValueMemberS); ok {
		byName, found := codec.ByName(nameAttr.Value)
		if !found {
			return nil, fmt.Errorf("unknown vector codec %q", nameAttr.Value)
		}
		c = byName
	}

	var vec model.Vector
	if err := c.Unmarshal(blob.Value, &vec); err != nil {
		return nil, fmt.Errorf("decode vector: %w", err)
	}
	return vec, nil
}
