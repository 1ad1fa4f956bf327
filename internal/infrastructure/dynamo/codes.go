package dynamo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/civictrust-api/internal/domain"
)

// CodeRepo manages the fixed set of one-shot redemption codes.
// PK: code (uppercased). The used flag only ever transitions false→true, and
// that transition happens under a condition expression so two concurrent
// redemptions can never both win.
type CodeRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewCodeRepo(client *dynamodb.Client, tableName string) *CodeRepo {
	return &CodeRepo{client: client, tableName: tableName}
}

// Seed inserts the configured codes, skipping any that already exist so a
// restart never resurrects a consumed code.
func (r *CodeRepo) Seed(ctx context.Context, codes map[string]int) error {
	for code, points := range codes {
		item, err := attributevalue.MarshalMap(&domain.RedemptionCode{Code: code, PointValue: points})
		if err != nil {
			return fmt.Errorf("marshal redemption code: %w", err)
		}
		_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName:           aws.String(r.tableName),
			Item:                item,
			ConditionExpression: aws.String("attribute_not_exists(code)"),
		})
		if err != nil && !isConditionalCheckFailed(err) {
			return fmt.Errorf("seed code %s: %w", code, err)
		}
	}
	return nil
}

func (r *CodeRepo) Get(ctx context.Context, code string) (*domain.RedemptionCode, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("code", code),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("redemption code not found: %w", domain.ErrNotFound)
	}
	var rc domain.RedemptionCode
	if err := attributevalue.UnmarshalMap(out.Item, &rc); err != nil {
		return nil, err
	}
	return &rc, nil
}

// Claim atomically flips used false→true for the code. Returns the claimed
// code's point value; domain.ErrNotFound for an unregistered code;
// domain.ErrConflict when the code is already consumed.
func (r *CodeRepo) Claim(ctx context.Context, code, userID string, usedAt int64) (*domain.RedemptionCode, error) {
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("code", code),
		ConditionExpression: aws.String("attribute_exists(code) AND used = :false"),
		UpdateExpression:    aws.String("SET used = :true, used_by = :uid, used_at = :at"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":false": &types.AttributeValueMemberBOOL{Value: false},
			":true":  &types.AttributeValueMemberBOOL{Value: true},
			":uid":   &types.AttributeValueMemberS{Value: userID},
			":at":    &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", usedAt)},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		if !isConditionalCheckFailed(err) {
			return nil, err
		}
		// Distinguish unknown code from consumed code.
		if _, getErr := r.Get(ctx, code); errors.Is(getErr, domain.ErrNotFound) {
			return nil, fmt.Errorf("redemption code not found: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("redemption code already used: %w", domain.ErrConflict)
	}
	var rc domain.RedemptionCode
	if err := attributevalue.UnmarshalMap(out.Attributes, &rc); err != nil {
		return nil, err
	}
	return &rc, nil
}

// Release reverts a claim after a failed credit so the code stays redeemable.
func (r *CodeRepo) Release(ctx context.Context, code string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("code", code),
		ConditionExpression: aws.String("attribute_exists(code)"),
		UpdateExpression:    aws.String("SET used = :false REMOVE used_by, used_at"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":false": &types.AttributeValueMemberBOOL{Value: false},
		},
	})
	if err != nil {
		slog.Error("failed to release redemption code", "code", code, "err", err)
	}
	return err
}

// ListAvailable returns the unused codes only; consumed codes are never
// revealed, not even their existence.
func (r *CodeRepo) ListAvailable(ctx context.Context) ([]domain.RedemptionCode, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(r.tableName),
		FilterExpression: aws.String("used = :false"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":false": &types.AttributeValueMemberBOOL{Value: false},
		},
	})
	if err != nil {
		return nil, err
	}
	codes := make([]domain.RedemptionCode, 0, len(out.Items))
	for _, it := range out.Items {
		var rc domain.RedemptionCode
		if err := attributevalue.UnmarshalMap(it, &rc); err != nil {
			return nil, err
		}
		codes = append(codes, rc)
	}
	return codes, nil
}

// isConditionalCheckFailed reports whether err is a DynamoDB conditional
// write rejection.
func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
