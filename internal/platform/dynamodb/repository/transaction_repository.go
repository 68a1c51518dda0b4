package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	ulid "github.com/oklog/ulid/v2"

	commonErrors "github.com/clubledger/backend/internal/domain/errors"
	"github.com/clubledger/backend/internal/domain/transaction"
	"github.com/clubledger/backend/internal/platform/dynamodb/client"
)

// DynamoDBTransactionRepository implements the transaction.Repository interface
type DynamoDBTransactionRepository struct {
	client client.Client
	table  string
	logger *slog.Logger
}

// NewDynamoDBTransactionRepository creates a new DynamoDBTransactionRepository
func NewDynamoDBTransactionRepository(client client.Client, table string, logger *slog.Logger) *DynamoDBTransactionRepository {
	return &DynamoDBTransactionRepository{
		client: client,
		table:  table,
		logger: logger,
	}
}

func bookPK(bookID string) string {
	return fmt.Sprintf("BOOK#%s", bookID)
}

func transactionSK(transactionID string) string {
	return fmt.Sprintf("TXN#%s", transactionID)
}

func transactionGSI2PK(bookID string) string {
	return fmt.Sprintf("BOOK#%s#TXN", bookID)
}

func transactionGSI2SK(date, transactionID string) string {
	return fmt.Sprintf("DATE#%s#TXN#%s", date, transactionID)
}

// Create creates a new transaction
func (r *DynamoDBTransactionRepository) Create(ctx context.Context, req *transaction.CreateTransactionRequest) (*transaction.Transaction, error) {
	tx := transaction.Transaction{
		TransactionID: req.TransactionID,
		BookID:        req.BookID,
		Date:          req.Date,
		Description:   req.Description,
		Expense:       req.Expense,
		Income:        req.Income,
		Status:        req.Status,
		BankAccountID: req.BankAccountID,
		AccountID:     req.AccountID,
		ProjectID:     req.ProjectID,
		ProjectName:   req.ProjectName,
		Category:      req.Category,
	}

	// Generate ID if not provided
	if tx.TransactionID == "" {
		tx.TransactionID = ulid.Make().String()
	}
	now := time.Now().UTC()
	tx.CreatedAt = now
	tx.UpdatedAt = now

	item, err := attributevalue.MarshalMap(tx)
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to marshal transaction", err)
	}

	item["PK"] = &types.AttributeValueMemberS{Value: bookPK(tx.BookID)}
	item["SK"] = &types.AttributeValueMemberS{Value: transactionSK(tx.TransactionID)}
	item["GSI2PK"] = &types.AttributeValueMemberS{Value: transactionGSI2PK(tx.BookID)}
	item["GSI2SK"] = &types.AttributeValueMemberS{Value: transactionGSI2SK(tx.Date, tx.TransactionID)}
	item["Type"] = &types.AttributeValueMemberS{Value: "transaction"}
	item["createdAt"] = &types.AttributeValueMemberS{Value: now.Format(time.RFC3339Nano)}
	item["updatedAt"] = &types.AttributeValueMemberS{Value: now.Format(time.RFC3339Nano)}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(SK)"),
	})
	if err != nil {
		var condCheckErr *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckErr) {
			return nil, commonErrors.NewConflictError("transaction already exists")
		}
		return nil, commonErrors.NewStoreUnavailableError("failed to create transaction", err)
	}

	return &tx, nil
}

// Get retrieves a transaction by ID
func (r *DynamoDBTransactionRepository) Get(ctx context.Context, bookID string, transactionID string) (*transaction.Transaction, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: bookPK(bookID)},
			"SK": &types.AttributeValueMemberS{Value: transactionSK(transactionID)},
		},
	})
	if err != nil {
		return nil, commonErrors.NewStoreUnavailableError("failed to get transaction", err)
	}
	if len(result.Item) == 0 {
		return nil, commonErrors.NewNotFoundError("transaction not found")
	}

	tx := r.normalizeItem(result.Item)
	return &tx, nil
}

// List retrieves all transactions of a book matching the filter, following
// store pagination until the result set is exhausted
func (r *DynamoDBTransactionRepository) List(ctx context.Context, bookID string, filter *transaction.Filter) ([]transaction.Transaction, error) {
	keyCondition := expression.Key("PK").Equal(expression.Value(bookPK(bookID))).
		And(expression.Key("SK").BeginsWith("TXN#"))

	builder := expression.NewBuilder().WithKeyCondition(keyCondition)
	if cond, ok := filterCondition(filter); ok {
		builder = builder.WithFilter(cond)
	}

	expr, err := builder.Build()
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to build expression", err)
	}

	transactions := []transaction.Transaction{}
	var startKey map[string]types.AttributeValue
	for {
		result, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.table),
			KeyConditionExpression:    expr.KeyCondition(),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, commonErrors.NewStoreUnavailableError("failed to query transactions", err)
		}

		for _, item := range result.Items {
			transactions = append(transactions, r.normalizeItem(item))
		}

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	return applySearch(transactions, filter), nil
}

// Page returns one slice of a filtered, date-sorted transaction query. Date
// bounds ride in the key condition of the date index; the remaining filter
// fields become a filter expression, so a page may come back shorter than the
// limit without being the last one.
func (r *DynamoDBTransactionRepository) Page(
	ctx context.Context, bookID string, filter *transaction.Filter, sort transaction.Sort, limit int, startKey string,
) (*transaction.PageResult, error) {
	keyCondition := expression.Key("GSI2PK").Equal(expression.Value(transactionGSI2PK(bookID)))

	startDate, endDate := "", ""
	if filter != nil {
		startDate, endDate = filter.StartDate, filter.EndDate
	}
	switch {
	case startDate != "" && endDate != "":
		keyCondition = keyCondition.And(expression.Key("GSI2SK").Between(
			expression.Value(fmt.Sprintf("DATE#%s", startDate)),
			expression.Value(fmt.Sprintf("DATE#%s￿", endDate)),
		))
	case startDate != "":
		keyCondition = keyCondition.And(expression.Key("GSI2SK").GreaterThanEqual(
			expression.Value(fmt.Sprintf("DATE#%s", startDate)),
		))
	case endDate != "":
		keyCondition = keyCondition.And(expression.Key("GSI2SK").LessThanEqual(
			expression.Value(fmt.Sprintf("DATE#%s￿", endDate)),
		))
	}

	builder := expression.NewBuilder().WithKeyCondition(keyCondition)
	if cond, ok := filterCondition(stripDateRange(filter)); ok {
		builder = builder.WithFilter(cond)
	}

	expr, err := builder.Build()
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to build expression", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.table),
		IndexName:                 aws.String("GSI2"),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(sort.Ascending),
		Limit:                     aws.Int32(int32(limit)),
	}

	if startKey != "" {
		exclusiveStart, err := decodeLastKey(startKey)
		if err != nil {
			return nil, commonErrors.NewInvalidInputError("invalid pagination token", err)
		}
		input.ExclusiveStartKey = exclusiveStart
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, commonErrors.NewStoreUnavailableError("failed to query transactions", err)
	}

	page := &transaction.PageResult{Items: make([]transaction.Transaction, 0, len(result.Items))}
	for _, item := range result.Items {
		page.Items = append(page.Items, r.normalizeItem(item))
	}
	page.Items = applySearch(page.Items, filter)

	if len(result.LastEvaluatedKey) > 0 {
		lastKey, err := encodeLastKey(result.LastEvaluatedKey)
		if err != nil {
			return nil, commonErrors.NewInternalError("failed to encode pagination token", err)
		}
		page.LastKey = lastKey
		page.HasMore = true
	}

	return page, nil
}

// Update applies a partial update to an existing transaction
func (r *DynamoDBTransactionRepository) Update(
	ctx context.Context, bookID string, transactionID string, req *transaction.UpdateTransactionRequest,
) (*transaction.Transaction, error) {
	existing, err := r.Get(ctx, bookID, transactionID)
	if err != nil {
		return nil, err
	}

	tx := *existing
	if req.Date != nil {
		tx.Date = *req.Date
	}
	if req.Description != nil {
		tx.Description = *req.Description
	}
	if req.Expense != nil {
		tx.Expense = *req.Expense
	}
	if req.Income != nil {
		tx.Income = *req.Income
	}
	if req.Status != nil {
		tx.Status = *req.Status
	}
	if req.BankAccountID != nil {
		tx.BankAccountID = *req.BankAccountID
	}
	if req.AccountID != nil {
		tx.AccountID = *req.AccountID
	}
	if req.ProjectID != nil {
		tx.ProjectID = *req.ProjectID
	}
	if req.ProjectName != nil {
		tx.ProjectName = *req.ProjectName
	}
	if req.Category != nil {
		tx.Category = *req.Category
	}
	tx.UpdatedAt = time.Now().UTC()

	item, err := attributevalue.MarshalMap(tx)
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to marshal transaction", err)
	}

	item["PK"] = &types.AttributeValueMemberS{Value: bookPK(bookID)}
	item["SK"] = &types.AttributeValueMemberS{Value: transactionSK(transactionID)}
	item["GSI2PK"] = &types.AttributeValueMemberS{Value: transactionGSI2PK(bookID)}
	item["GSI2SK"] = &types.AttributeValueMemberS{Value: transactionGSI2SK(tx.Date, transactionID)}
	item["Type"] = &types.AttributeValueMemberS{Value: "transaction"}
	item["createdAt"] = &types.AttributeValueMemberS{Value: tx.CreatedAt.Format(time.RFC3339Nano)}
	item["updatedAt"] = &types.AttributeValueMemberS{Value: tx.UpdatedAt.Format(time.RFC3339Nano)}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return nil, commonErrors.NewStoreUnavailableError("failed to update transaction", err)
	}

	return &tx, nil
}

// Delete removes a transaction
func (r *DynamoDBTransactionRepository) Delete(ctx context.Context, bookID string, transactionID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: bookPK(bookID)},
			"SK": &types.AttributeValueMemberS{Value: transactionSK(transactionID)},
		},
		ConditionExpression: aws.String("attribute_exists(SK)"),
	})
	if err != nil {
		var condCheckErr *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckErr) {
			return commonErrors.NewNotFoundError("transaction not found")
		}
		return commonErrors.NewStoreUnavailableError("failed to delete transaction", err)
	}
	return nil
}

// normalizeItem converts a raw store item into a well-typed transaction,
// logging any fields that had to be coerced
func (r *DynamoDBTransactionRepository) normalizeItem(item map[string]types.AttributeValue) transaction.Transaction {
	var rec transaction.Record
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		r.logger.Warn("failed to unmarshal transaction item", "error", err)
		rec = transaction.Record{}
	}

	tx, anomalies := transaction.Normalize(rec)
	for _, a := range anomalies {
		r.logger.Warn("transaction record anomaly",
			"transactionId", a.TransactionID, "field", a.Field, "reason", a.Reason)
	}
	return tx
}

// filterCondition translates the non-search filter fields into a DynamoDB
// filter expression. The second return is false when nothing is constrained.
func filterCondition(filter *transaction.Filter) (expression.ConditionBuilder, bool) {
	var cond expression.ConditionBuilder
	set := false
	add := func(next expression.ConditionBuilder) {
		if set {
			cond = cond.And(next)
		} else {
			cond = next
			set = true
		}
	}

	if filter == nil {
		return cond, false
	}
	if filter.Status != "" {
		add(expression.Name("status").Equal(expression.Value(string(filter.Status))))
	}
	if filter.StartDate != "" {
		add(expression.Name("date").GreaterThanEqual(expression.Value(filter.StartDate)))
	}
	if filter.EndDate != "" {
		add(expression.Name("date").LessThanEqual(expression.Value(filter.EndDate)))
	}
	if filter.ProjectID != "" {
		add(expression.Name("projectId").Equal(expression.Value(filter.ProjectID)))
	}
	if filter.BankAccountID != "" {
		add(expression.Name("bankAccountId").Equal(expression.Value(filter.BankAccountID)))
	}
	if filter.Category != "" {
		add(expression.Name("category").Equal(expression.Value(filter.Category)))
	}
	return cond, set
}

// stripDateRange copies the filter without its date bounds, which Page already
// enforces through the key condition
func stripDateRange(filter *transaction.Filter) *transaction.Filter {
	if filter == nil {
		return nil
	}
	f := *filter
	f.StartDate = ""
	f.EndDate = ""
	return &f
}

// applySearch filters by case-insensitive description substring. Stored
// descriptions have no canonical casing, so the match happens after the read
// rather than in a store expression.
func applySearch(txs []transaction.Transaction, filter *transaction.Filter) []transaction.Transaction {
	if filter == nil || filter.Search == "" {
		return txs
	}
	needle := strings.ToLower(filter.Search)
	matched := txs[:0]
	for _, tx := range txs {
		if strings.Contains(strings.ToLower(tx.Description), needle) {
			matched = append(matched, tx)
		}
	}
	return matched
}
