package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/civictrust-api/internal/domain"
)

// PointsRepo manages points accounts and their append-only event log.
// Accounts: PK user_id. Events: PK user_id, SK event_id (ULID), so a plain
// ascending query returns the ledger in chronological order.
type PointsRepo struct {
	client        *dynamodb.Client
	accountsTable string
	eventsTable   string
}

func NewPointsRepo(client *dynamodb.Client, accountsTable, eventsTable string) *PointsRepo {
	return &PointsRepo{client: client, accountsTable: accountsTable, eventsTable: eventsTable}
}

func (r *PointsRepo) GetAccount(ctx context.Context, userID string) (*domain.PointsAccount, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.accountsTable),
		Key:       strKey("user_id", userID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("points account not found: %w", domain.ErrNotFound)
	}
	var acc domain.PointsAccount
	if err := attributevalue.UnmarshalMap(out.Item, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// Append writes the event and increments the account balance in one
// transaction, lazily creating the account item on first credit. The ledger
// and the balance can never drift apart.
func (r *PointsRepo) Append(ctx context.Context, ev *domain.PointsEvent) error {
	item, err := attributevalue.MarshalMap(ev)
	if err != nil {
		return fmt.Errorf("marshal points event: %w", err)
	}
	now, err := attributevalue.Marshal(ev.CreatedAt)
	if err != nil {
		return err
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName: aws.String(r.eventsTable),
					Item:      item,
					// Event ids are ULIDs, so a collision means a retry of
					// the same logical credit; reject it.
					ConditionExpression: aws.String("attribute_not_exists(event_id)"),
				},
			},
			{
				Update: &types.Update{
					TableName: aws.String(r.accountsTable),
					Key:       strKey("user_id", ev.UserID),
					UpdateExpression: aws.String(
						"ADD balance :p SET updated_at = :t, created_at = if_not_exists(created_at, :t)"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":p": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", ev.Points)},
						":t": now,
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("append points event: %w", err)
	}
	return nil
}

// ListEvents returns the full ledger for a user, oldest first.
func (r *PointsRepo) ListEvents(ctx context.Context, userID string) ([]domain.PointsEvent, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.eventsTable),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
		ScanIndexForward: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	events := make([]domain.PointsEvent, 0, len(out.Items))
	for _, it := range out.Items {
		var ev domain.PointsEvent
		if err := attributevalue.UnmarshalMap(it, &ev); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

// EnsureAccount creates a zero-balance account if none exists and returns the
// current state either way.
func (r *PointsRepo) EnsureAccount(ctx context.Context, userID string, now time.Time) (*domain.PointsAccount, error) {
	acc := &domain.PointsAccount{UserID: userID, Balance: 0, CreatedAt: now, UpdatedAt: now}
	item, err := attributevalue.MarshalMap(acc)
	if err != nil {
		return nil, fmt.Errorf("marshal points account: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.accountsTable),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(user_id)"),
	})
	if err == nil {
		return acc, nil
	}
	if !isConditionalCheckFailed(err) {
		return nil, err
	}
	return r.GetAccount(ctx, userID)
}
