package repository

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Pagination tokens carry a DynamoDB LastEvaluatedKey across requests. All of
// our table and index keys are string attributes, so the key flattens to a
// string map that round-trips through JSON and base64.

func encodeLastKey(key map[string]types.AttributeValue) (string, error) {
	flat := make(map[string]string, len(key))
	for name, attr := range key {
		s, ok := attr.(*types.AttributeValueMemberS)
		if !ok {
			return "", fmt.Errorf("unexpected non-string key attribute %q", name)
		}
		flat[name] = s.Value
	}
	data, err := json.Marshal(flat)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

func decodeLastKey(token string) (map[string]types.AttributeValue, error) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("malformed pagination token: %w", err)
	}
	var flat map[string]string
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, fmt.Errorf("malformed pagination token: %w", err)
	}
	key := make(map[string]types.AttributeValue, len(flat))
	for name, value := range flat {
		key[name] = &types.AttributeValueMemberS{Value: value}
	}
	return key, nil
}
