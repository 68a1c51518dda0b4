package repository

import (
	"context"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// TestClient is an in-memory implementation of the DynamoDB client interface
// for testing. Query supports the small expression subset the repositories
// actually build: key equality, begins_with, BETWEEN and >=/<= on the sort
// key, plus AND-chained equality and range comparisons in filter expressions.
type TestClient struct {
	items map[string]map[string]types.AttributeValue
}

// NewTestClient creates a new test client with an empty items map
func NewTestClient() *TestClient {
	return &TestClient{
		items: make(map[string]map[string]types.AttributeValue),
	}
}

func itemKey(item map[string]types.AttributeValue) string {
	pk := item["PK"].(*types.AttributeValueMemberS).Value
	sk := item["SK"].(*types.AttributeValueMemberS).Value
	return pk + "|" + sk
}

// GetItem retrieves an item from the in-memory store
func (c *TestClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if item, exists := c.items[itemKey(params.Key)]; exists {
		return &dynamodb.GetItemOutput{Item: item}, nil
	}
	return &dynamodb.GetItemOutput{Item: map[string]types.AttributeValue{}}, nil
}

// PutItem adds or updates an item in the in-memory store
func (c *TestClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	key := itemKey(params.Item)
	if params.ConditionExpression != nil && strings.HasPrefix(*params.ConditionExpression, "attribute_not_exists") {
		if _, exists := c.items[key]; exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("Item already exists")}
		}
	}
	c.items[key] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

// DeleteItem removes an item from the in-memory store
func (c *TestClient) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	key := itemKey(params.Key)
	if params.ConditionExpression != nil && strings.HasPrefix(*params.ConditionExpression, "attribute_exists") {
		if _, exists := c.items[key]; !exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("Item does not exist")}
		}
	}
	delete(c.items, key)
	return &dynamodb.DeleteItemOutput{}, nil
}

// Query evaluates the key condition and filter expressions against every
// stored item, sorts by the index sort key, and honors Limit and
// ExclusiveStartKey the way DynamoDB pages
func (c *TestClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	keyCond := parseConditions(aws.ToString(params.KeyConditionExpression), params.ExpressionAttributeNames, params.ExpressionAttributeValues)
	filterCond := parseConditions(aws.ToString(params.FilterExpression), params.ExpressionAttributeNames, params.ExpressionAttributeValues)

	sortAttr := "SK"
	if params.IndexName != nil {
		sortAttr = aws.ToString(params.IndexName) + "SK"
	}

	var matched []map[string]types.AttributeValue
	for _, item := range c.items {
		if matchesAll(item, keyCond) {
			matched = append(matched, item)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return stringAttr(matched[i], sortAttr) < stringAttr(matched[j], sortAttr)
	})
	if params.ScanIndexForward != nil && !*params.ScanIndexForward {
		for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
			matched[i], matched[j] = matched[j], matched[i]
		}
	}

	start := 0
	if len(params.ExclusiveStartKey) > 0 {
		startKey := itemKey(params.ExclusiveStartKey)
		for i, item := range matched {
			if itemKey(item) == startKey {
				start = i + 1
				break
			}
		}
	}
	matched = matched[start:]

	out := &dynamodb.QueryOutput{}
	if params.Limit != nil && int(*params.Limit) < len(matched) {
		matched = matched[:int(*params.Limit)]
		last := matched[len(matched)-1]
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"PK": last["PK"],
			"SK": last["SK"],
		}
	}

	for _, item := range matched {
		if matchesAll(item, filterCond) {
			out.Items = append(out.Items, item)
		}
	}
	return out, nil
}

// condition is one parsed comparison from an expression string
type condition struct {
	attr string
	op   string // "=", "begins_with", ">=", "<=", "between"
	lo   string
	hi   string // only for between
}

// parseConditions flattens an AND-chained expression built by the expression
// package into its individual comparisons
func parseConditions(expr string, names map[string]string, values map[string]types.AttributeValue) []condition {
	if expr == "" {
		return nil
	}

	resolveName := func(tok string) string {
		if name, ok := names[tok]; ok {
			return name
		}
		return tok
	}
	resolveValue := func(tok string) string {
		if v, ok := values[tok]; ok {
			if s, ok := v.(*types.AttributeValueMemberS); ok {
				return s.Value
			}
		}
		return tok
	}

	// Split on the parenthesized AND separator the expression package emits
	// between composed conditions; a BETWEEN's inner AND has no parens and
	// survives the split intact
	var conds []condition
	for _, clause := range strings.Split(expr, ") AND (") {
		clause = strings.Trim(clause, "() ")
		switch {
		case strings.HasPrefix(clause, "begins_with"):
			inner := strings.Trim(strings.TrimPrefix(clause, "begins_with"), " ()")
			parts := strings.SplitN(inner, ",", 2)
			conds = append(conds, condition{
				attr: resolveName(strings.TrimSpace(parts[0])),
				op:   "begins_with",
				lo:   resolveValue(strings.TrimSpace(parts[1])),
			})
		case strings.Contains(clause, " BETWEEN "):
			parts := strings.SplitN(clause, " BETWEEN ", 2)
			bounds := strings.SplitN(parts[1], " AND ", 2)
			conds = append(conds, condition{
				attr: resolveName(strings.TrimSpace(parts[0])),
				op:   "between",
				lo:   resolveValue(strings.TrimSpace(bounds[0])),
				hi:   resolveValue(strings.TrimSpace(bounds[1])),
			})
		case strings.Contains(clause, " >= "):
			parts := strings.SplitN(clause, " >= ", 2)
			conds = append(conds, condition{attr: resolveName(strings.TrimSpace(parts[0])), op: ">=", lo: resolveValue(strings.TrimSpace(parts[1]))})
		case strings.Contains(clause, " <= "):
			parts := strings.SplitN(clause, " <= ", 2)
			conds = append(conds, condition{attr: resolveName(strings.TrimSpace(parts[0])), op: "<=", lo: resolveValue(strings.TrimSpace(parts[1]))})
		case strings.Contains(clause, " = "):
			parts := strings.SplitN(clause, " = ", 2)
			conds = append(conds, condition{attr: resolveName(strings.TrimSpace(parts[0])), op: "=", lo: resolveValue(strings.TrimSpace(parts[1]))})
		}
	}
	return conds
}

func matchesAll(item map[string]types.AttributeValue, conds []condition) bool {
	for _, c := range conds {
		v := stringAttr(item, c.attr)
		switch c.op {
		case "=":
			if v != c.lo {
				return false
			}
		case "begins_with":
			if !strings.HasPrefix(v, c.lo) {
				return false
			}
		case ">=":
			if v < c.lo {
				return false
			}
		case "<=":
			if v > c.lo {
				return false
			}
		case "between":
			if v < c.lo || v > c.hi {
				return false
			}
		}
	}
	return true
}

func stringAttr(item map[string]types.AttributeValue, name string) string {
	if s, ok := item[name].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}
