// Package dynamo is the DynamoDB-backed verification store, for deployments
// with more than one server process. Consume is a conditional delete, so the
// redeem-at-most-once guarantee holds across processes.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/verify-api/internal/domain"
)

// Store keeps verification records in a DynamoDB table keyed by receiver.
type Store struct {
	client    *dynamodb.Client
	tableName string
	now       func() time.Time
}

func NewStore(client *dynamodb.Client, tableName string) *Store {
	return &Store{client: client, tableName: tableName, now: time.Now}
}

// Put creates or replaces the record for receiver. PutItem overwrites any
// existing item with the same key, which is exactly the last-write-wins
// semantics the store contract asks for.
func (s *Store) Put(ctx context.Context, receiver, code string, ttl time.Duration) error {
	rec := domain.VerificationRecord{
		Receiver:  receiver,
		Code:      code,
		ExpiresAt: s.now().Add(ttl).Unix(),
	}
	item, err := attributevalue.MarshalMap(&rec)
	if err != nil {
		return fmt.Errorf("marshal verification: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put verification: %w", err)
	}
	return nil
}

// Consume deletes the record for receiver only if the code matches and the
// record is still live — a single conditional DeleteItem, so two concurrent
// submissions of the same code can never both succeed. When the condition
// fails, a second conditional delete lazily purges the record if it turns
// out to be expired; a live record with a mismatched code is left intact.
func (s *Store) Consume(ctx context.Context, receiver, code string) (bool, error) {
	now := strconv.FormatInt(s.now().Unix(), 10)

	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(s.tableName),
		Key:                 strKey("receiver", receiver),
		ConditionExpression: aws.String("#c = :code AND #exp > :now"),
		ExpressionAttributeNames: map[string]string{
			"#c":   "code",
			"#exp": "expires_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":code": &types.AttributeValueMemberS{Value: code},
			":now":  &types.AttributeValueMemberN{Value: now},
		},
	})
	if err == nil {
		return true, nil
	}
	var ccf *types.ConditionalCheckFailedException
	if !errors.As(err, &ccf) {
		return false, fmt.Errorf("consume verification: %w", err)
	}

	// Absent, expired, or wrong code. Purge only if expired.
	_, err = s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(s.tableName),
		Key:                 strKey("receiver", receiver),
		ConditionExpression: aws.String("#exp <= :now"),
		ExpressionAttributeNames: map[string]string{
			"#exp": "expires_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now": &types.AttributeValueMemberN{Value: now},
		},
	})
	if err != nil && !errors.As(err, &ccf) {
		return false, fmt.Errorf("purge expired verification: %w", err)
	}
	return false, nil
}

// strKey builds a DynamoDB primary key map with a single string attribute.
func strKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}
