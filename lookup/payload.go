package lookup

import (
	"strconv"
	"strings"
)

// Result codes of the data.go.kr envelope header
const (
	resultCodeNormal = "00"
	resultCodeNoData = "03"
)

// Place-search statuses that mean the request itself was refused
var rejectedPlaceStatuses = map[string]bool{
	"REQUEST_DENIED":   true,
	"INVALID_REQUEST":  true,
	"OVER_QUERY_LIMIT": true,
	"OVER_DAILY_LIMIT": true,
	"UNKNOWN_ERROR":    true,
}

// textField renders item[key] for display. Absent keys, null, empty strings
// and nested values all yield fallback.
func textField(item map[string]any, key, fallback string) string {
	value, ok := item[key]
	if !ok || value == nil {
		return fallback
	}

	switch v := value.(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}

	return fallback
}

// numberField returns item[key] when it is a JSON number
func numberField(item map[string]any, key string) *float64 {
	if v, ok := item[key].(float64); ok {
		return &v
	}
	return nil
}

// medicationItems extracts the item objects from a medication provider payload.
// It accepts {body:{items:[...]}}, the same wrapped in {response:...}, and the
// {items:{item:...}} shape. A missing body or items is not an error.
func medicationItems(payload map[string]any) ([]map[string]any, error) {
	root := payload
	if wrapped, ok := payload["response"].(map[string]any); ok {
		root = wrapped
	}

	if header, ok := root["header"].(map[string]any); ok {
		code := textField(header, "resultCode", resultCodeNormal)
		switch code {
		case resultCodeNormal:
		case resultCodeNoData:
			return nil, nil
		default:
			return nil, &ProviderError{
				Provider: ProviderMedication,
				Code:     code,
				Message:  textField(header, "resultMsg", ""),
			}
		}
	}

	body, ok := root["body"].(map[string]any)
	if !ok {
		return nil, nil
	}

	switch items := body["items"].(type) {
	case []any:
		return objects(items), nil
	case map[string]any:
		switch inner := items["item"].(type) {
		case []any:
			return objects(inner), nil
		case map[string]any:
			return []map[string]any{inner}, nil
		}
	}

	return nil, nil
}

// objects keeps the entries of values that are JSON objects, in order
func objects(values []any) []map[string]any {
	out := make([]map[string]any, 0, len(values))
	for _, v := range values {
		if obj, ok := v.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}
