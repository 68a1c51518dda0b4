package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/clubledger/backend/internal/domain/account"
	commonErrors "github.com/clubledger/backend/internal/domain/errors"
	"github.com/clubledger/backend/internal/platform/dynamodb/client"
)

// DynamoDBAccountRepository implements the account.Repository interface
type DynamoDBAccountRepository struct {
	client client.Client
	table  string
	logger *slog.Logger
}

// NewDynamoDBAccountRepository creates a new DynamoDBAccountRepository
func NewDynamoDBAccountRepository(client client.Client, table string, logger *slog.Logger) *DynamoDBAccountRepository {
	return &DynamoDBAccountRepository{
		client: client,
		table:  table,
		logger: logger,
	}
}

func accountSK(accountID string) string {
	return fmt.Sprintf("ACCOUNT#%s", accountID)
}

// Create persists a new account
func (r *DynamoDBAccountRepository) Create(ctx context.Context, bookID string, acct *account.Account) (*account.Account, error) {
	item, err := attributevalue.MarshalMap(acct)
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to marshal account", err)
	}

	item["PK"] = &types.AttributeValueMemberS{Value: bookPK(bookID)}
	item["SK"] = &types.AttributeValueMemberS{Value: accountSK(acct.AccountID)}
	item["Type"] = &types.AttributeValueMemberS{Value: "account"}
	item["createdAt"] = &types.AttributeValueMemberS{Value: acct.CreatedAt.Format(time.RFC3339Nano)}
	item["updatedAt"] = &types.AttributeValueMemberS{Value: acct.UpdatedAt.Format(time.RFC3339Nano)}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(SK)"),
	})
	if err != nil {
		var condCheckErr *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckErr) {
			return nil, commonErrors.NewConflictError("account already exists")
		}
		return nil, commonErrors.NewStoreUnavailableError("failed to create account", err)
	}

	return acct, nil
}

// Get retrieves an account by ID
func (r *DynamoDBAccountRepository) Get(ctx context.Context, bookID string, accountID string) (*account.Account, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: bookPK(bookID)},
			"SK": &types.AttributeValueMemberS{Value: accountSK(accountID)},
		},
	})
	if err != nil {
		return nil, commonErrors.NewStoreUnavailableError("failed to get account", err)
	}
	if len(result.Item) == 0 {
		return nil, commonErrors.NewNotFoundError("account not found")
	}

	var acct account.Account
	if err := attributevalue.UnmarshalMap(result.Item, &acct); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal account", err)
	}
	return &acct, nil
}

// List retrieves all accounts of a book
func (r *DynamoDBAccountRepository) List(ctx context.Context, bookID string) ([]*account.Account, error) {
	keyCondition := expression.Key("PK").Equal(expression.Value(bookPK(bookID))).
		And(expression.Key("SK").BeginsWith("ACCOUNT#"))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCondition).Build()
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to build expression", err)
	}

	accounts := []*account.Account{}
	var startKey map[string]types.AttributeValue
	for {
		result, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.table),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, commonErrors.NewStoreUnavailableError("failed to query accounts", err)
		}

		for _, item := range result.Items {
			var acct account.Account
			if err := attributevalue.UnmarshalMap(item, &acct); err != nil {
				return nil, commonErrors.NewInternalError("failed to unmarshal account", err)
			}
			accounts = append(accounts, &acct)
		}

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	return accounts, nil
}

// Update applies a partial update to an existing account
func (r *DynamoDBAccountRepository) Update(ctx context.Context, bookID string, accountID string, req *account.UpdateAccountRequest) (*account.Account, error) {
	existing, err := r.Get(ctx, bookID, accountID)
	if err != nil {
		return nil, err
	}

	acct := *existing
	if req.Code != "" {
		acct.Code = req.Code
	}
	if req.Name != "" {
		acct.Name = req.Name
	}
	acct.UpdatedAt = time.Now().UTC()

	item, err := attributevalue.MarshalMap(acct)
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to marshal account", err)
	}

	item["PK"] = &types.AttributeValueMemberS{Value: bookPK(bookID)}
	item["SK"] = &types.AttributeValueMemberS{Value: accountSK(accountID)}
	item["Type"] = &types.AttributeValueMemberS{Value: "account"}
	item["createdAt"] = &types.AttributeValueMemberS{Value: acct.CreatedAt.Format(time.RFC3339Nano)}
	item["updatedAt"] = &types.AttributeValueMemberS{Value: acct.UpdatedAt.Format(time.RFC3339Nano)}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return nil, commonErrors.NewStoreUnavailableError("failed to update account", err)
	}

	return &acct, nil
}

// Delete removes an account
func (r *DynamoDBAccountRepository) Delete(ctx context.Context, bookID string, accountID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: bookPK(bookID)},
			"SK": &types.AttributeValueMemberS{Value: accountSK(accountID)},
		},
		ConditionExpression: aws.String("attribute_exists(SK)"),
	})
	if err != nil {
		var condCheckErr *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckErr) {
			return commonErrors.NewNotFoundError("account not found")
		}
		return commonErrors.NewStoreUnavailableError("failed to delete account", err)
	}
	return nil
}
