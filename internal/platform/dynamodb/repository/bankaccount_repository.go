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

	"github.com/clubledger/backend/internal/domain/bankaccount"
	commonErrors "github.com/clubledger/backend/internal/domain/errors"
	"github.com/clubledger/backend/internal/platform/dynamodb/client"
)

// DynamoDBBankAccountRepository implements the bankaccount.Repository interface
type DynamoDBBankAccountRepository struct {
	client client.Client
	table  string
	logger *slog.Logger
}

// NewDynamoDBBankAccountRepository creates a new DynamoDBBankAccountRepository
func NewDynamoDBBankAccountRepository(client client.Client, table string, logger *slog.Logger) *DynamoDBBankAccountRepository {
	return &DynamoDBBankAccountRepository{
		client: client,
		table:  table,
		logger: logger,
	}
}

func bankAccountSK(bankAccountID string) string {
	return fmt.Sprintf("BANKACCT#%s", bankAccountID)
}

// Create persists a new bank account
func (r *DynamoDBBankAccountRepository) Create(ctx context.Context, bookID string, acct *bankaccount.BankAccount) (*bankaccount.BankAccount, error) {
	item, err := attributevalue.MarshalMap(acct)
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to marshal bank account", err)
	}

	item["PK"] = &types.AttributeValueMemberS{Value: bookPK(bookID)}
	item["SK"] = &types.AttributeValueMemberS{Value: bankAccountSK(acct.BankAccountID)}
	item["Type"] = &types.AttributeValueMemberS{Value: "bank_account"}
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
			return nil, commonErrors.NewConflictError("bank account already exists")
		}
		return nil, commonErrors.NewStoreUnavailableError("failed to create bank account", err)
	}

	return acct, nil
}

// Get retrieves a bank account by ID
func (r *DynamoDBBankAccountRepository) Get(ctx context.Context, bookID string, bankAccountID string) (*bankaccount.BankAccount, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: bookPK(bookID)},
			"SK": &types.AttributeValueMemberS{Value: bankAccountSK(bankAccountID)},
		},
	})
	if err != nil {
		return nil, commonErrors.NewStoreUnavailableError("failed to get bank account", err)
	}
	if len(result.Item) == 0 {
		return nil, commonErrors.NewNotFoundError("bank account not found")
	}

	var acct bankaccount.BankAccount
	if err := attributevalue.UnmarshalMap(result.Item, &acct); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal bank account", err)
	}
	return &acct, nil
}

// List retrieves all bank accounts of a book
func (r *DynamoDBBankAccountRepository) List(ctx context.Context, bookID string) ([]*bankaccount.BankAccount, error) {
	keyCondition := expression.Key("PK").Equal(expression.Value(bookPK(bookID))).
		And(expression.Key("SK").BeginsWith("BANKACCT#"))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCondition).Build()
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to build expression", err)
	}

	accounts := []*bankaccount.BankAccount{}
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
			return nil, commonErrors.NewStoreUnavailableError("failed to query bank accounts", err)
		}

		for _, item := range result.Items {
			var acct bankaccount.BankAccount
			if err := attributevalue.UnmarshalMap(item, &acct); err != nil {
				return nil, commonErrors.NewInternalError("failed to unmarshal bank account", err)
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

// Update applies a partial update to an existing bank account
func (r *DynamoDBBankAccountRepository) Update(ctx context.Context, bookID string, bankAccountID string, req *bankaccount.UpdateBankAccountRequest) (*bankaccount.BankAccount, error) {
	existing, err := r.Get(ctx, bookID, bankAccountID)
	if err != nil {
		return nil, err
	}

	acct := *existing
	if req.Name != nil {
		acct.Name = *req.Name
	}
	if req.InitialBalance != nil {
		acct.InitialBalance = *req.InitialBalance
	}
	if req.Currency != nil {
		acct.Currency = *req.Currency
	}
	if req.IsActive != nil {
		acct.IsActive = *req.IsActive
	}
	acct.UpdatedAt = time.Now().UTC()

	item, err := attributevalue.MarshalMap(acct)
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to marshal bank account", err)
	}

	item["PK"] = &types.AttributeValueMemberS{Value: bookPK(bookID)}
	item["SK"] = &types.AttributeValueMemberS{Value: bankAccountSK(bankAccountID)}
	item["Type"] = &types.AttributeValueMemberS{Value: "bank_account"}
	item["createdAt"] = &types.AttributeValueMemberS{Value: acct.CreatedAt.Format(time.RFC3339Nano)}
	item["updatedAt"] = &types.AttributeValueMemberS{Value: acct.UpdatedAt.Format(time.RFC3339Nano)}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return nil, commonErrors.NewStoreUnavailableError("failed to update bank account", err)
	}

	return &acct, nil
}

// Delete removes a bank account
func (r *DynamoDBBankAccountRepository) Delete(ctx context.Context, bookID string, bankAccountID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: bookPK(bookID)},
			"SK": &types.AttributeValueMemberS{Value: bankAccountSK(bankAccountID)},
		},
		ConditionExpression: aws.String("attribute_exists(SK)"),
	})
	if err != nil {
		var condCheckErr *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckErr) {
			return commonErrors.NewNotFoundError("bank account not found")
		}
		return commonErrors.NewStoreUnavailableError("failed to delete bank account", err)
	}
	return nil
}
