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

	commonErrors "github.com/clubledger/backend/internal/domain/errors"
	"github.com/clubledger/backend/internal/domain/project"
	"github.com/clubledger/backend/internal/platform/dynamodb/client"
)

// DynamoDBProjectRepository implements the project.Repository interface
type DynamoDBProjectRepository struct {
	client client.Client
	table  string
	logger *slog.Logger
}

// NewDynamoDBProjectRepository creates a new DynamoDBProjectRepository
func NewDynamoDBProjectRepository(client client.Client, table string, logger *slog.Logger) *DynamoDBProjectRepository {
	return &DynamoDBProjectRepository{
		client: client,
		table:  table,
		logger: logger,
	}
}

func projectSK(projectID string) string {
	return fmt.Sprintf("PROJECT#%s", projectID)
}

// Create persists a new project
func (r *DynamoDBProjectRepository) Create(ctx context.Context, bookID string, proj *project.Project) (*project.Project, error) {
	item, err := attributevalue.MarshalMap(proj)
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to marshal project", err)
	}

	item["PK"] = &types.AttributeValueMemberS{Value: bookPK(bookID)}
	item["SK"] = &types.AttributeValueMemberS{Value: projectSK(proj.ProjectID)}
	item["Type"] = &types.AttributeValueMemberS{Value: "project"}
	item["createdAt"] = &types.AttributeValueMemberS{Value: proj.CreatedAt.Format(time.RFC3339Nano)}
	item["updatedAt"] = &types.AttributeValueMemberS{Value: proj.UpdatedAt.Format(time.RFC3339Nano)}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(SK)"),
	})
	if err != nil {
		var condCheckErr *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckErr) {
			return nil, commonErrors.NewConflictError("project already exists")
		}
		return nil, commonErrors.NewStoreUnavailableError("failed to create project", err)
	}

	return proj, nil
}

// Get retrieves a project by ID
func (r *DynamoDBProjectRepository) Get(ctx context.Context, bookID string, projectID string) (*project.Project, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: bookPK(bookID)},
			"SK": &types.AttributeValueMemberS{Value: projectSK(projectID)},
		},
	})
	if err != nil {
		return nil, commonErrors.NewStoreUnavailableError("failed to get project", err)
	}
	if len(result.Item) == 0 {
		return nil, commonErrors.NewNotFoundError("project not found")
	}

	var proj project.Project
	if err := attributevalue.UnmarshalMap(result.Item, &proj); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal project", err)
	}
	return &proj, nil
}

// List retrieves all projects of a book
func (r *DynamoDBProjectRepository) List(ctx context.Context, bookID string) ([]*project.Project, error) {
	keyCondition := expression.Key("PK").Equal(expression.Value(bookPK(bookID))).
		And(expression.Key("SK").BeginsWith("PROJECT#"))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCondition).Build()
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to build expression", err)
	}

	projects := []*project.Project{}
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
			return nil, commonErrors.NewStoreUnavailableError("failed to query projects", err)
		}

		for _, item := range result.Items {
			var proj project.Project
			if err := attributevalue.UnmarshalMap(item, &proj); err != nil {
				return nil, commonErrors.NewInternalError("failed to unmarshal project", err)
			}
			projects = append(projects, &proj)
		}

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	return projects, nil
}

// Update applies a partial update to an existing project
func (r *DynamoDBProjectRepository) Update(ctx context.Context, bookID string, projectID string, req *project.UpdateProjectRequest) (*project.Project, error) {
	existing, err := r.Get(ctx, bookID, projectID)
	if err != nil {
		return nil, err
	}

	proj := *existing
	if req.Name != nil {
		proj.Name = *req.Name
	}
	if req.Budget != nil {
		proj.Budget = *req.Budget
	}
	if req.Status != nil {
		proj.Status = *req.Status
	}
	proj.UpdatedAt = time.Now().UTC()

	item, err := attributevalue.MarshalMap(proj)
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to marshal project", err)
	}

	item["PK"] = &types.AttributeValueMemberS{Value: bookPK(bookID)}
	item["SK"] = &types.AttributeValueMemberS{Value: projectSK(projectID)}
	item["Type"] = &types.AttributeValueMemberS{Value: "project"}
	item["createdAt"] = &types.AttributeValueMemberS{Value: proj.CreatedAt.Format(time.RFC3339Nano)}
	item["updatedAt"] = &types.AttributeValueMemberS{Value: proj.UpdatedAt.Format(time.RFC3339Nano)}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return nil, commonErrors.NewStoreUnavailableError("failed to update project", err)
	}

	return &proj, nil
}

// Delete removes a project
func (r *DynamoDBProjectRepository) Delete(ctx context.Context, bookID string, projectID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: bookPK(bookID)},
			"SK": &types.AttributeValueMemberS{Value: projectSK(projectID)},
		},
		ConditionExpression: aws.String("attribute_exists(SK)"),
	})
	if err != nil {
		var condCheckErr *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckErr) {
			return commonErrors.NewNotFoundError("project not found")
		}
		return commonErrors.NewStoreUnavailableError("failed to delete project", err)
	}
	return nil
}
