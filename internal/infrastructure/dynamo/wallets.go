package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/civictrust-api/internal/domain"
)

// WalletRepo manages wallet-address-to-user associations.
// PK: wallet_address. The first write wins; later writes resolve to the
// existing user id instead of overwriting.
type WalletRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewWalletRepo(client *dynamodb.Client, tableName string) *WalletRepo {
	return &WalletRepo{client: client, tableName: tableName}
}

// Link associates walletAddress with userID unless a link already exists, and
// returns the effective user id either way.
func (r *WalletRepo) Link(ctx context.Context, walletAddress, userID string, now time.Time) (string, error) {
	link := &domain.WalletLink{WalletAddress: walletAddress, UserID: userID, CreatedAt: now}
	item, err := attributevalue.MarshalMap(link)
	if err != nil {
		return "", fmt.Errorf("marshal wallet link: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(wallet_address)"),
	})
	if err == nil {
		return userID, nil
	}
	if !isConditionalCheckFailed(err) {
		return "", err
	}
	existing, err := r.Get(ctx, walletAddress)
	if err != nil {
		return "", err
	}
	return existing.UserID, nil
}

func (r *WalletRepo) Get(ctx context.Context, walletAddress string) (*domain.WalletLink, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("wallet_address", walletAddress),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("wallet link not found: %w", domain.ErrNotFound)
	}
	var link domain.WalletLink
	if err := attributevalue.UnmarshalMap(out.Item, &link); err != nil {
		return nil, err
	}
	return &link, nil
}
