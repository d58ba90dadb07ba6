package auth

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/eliteglam/internal/common"
)

// DecodePayload returns the JSON object carried in the middle segment of a
// three-segment token. The signature is NOT checked. Padded and unpadded
// base64url are both accepted.
func DecodePayload(token string) (map[string]any, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", common.ErrMalformedToken, len(parts))
	}

	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return nil, fmt.Errorf("%w: payload encoding: %v", common.ErrMalformedToken, err)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: payload json: %v", common.ErrMalformedToken, err)
	}
	if payload == nil {
		return nil, fmt.Errorf("%w: payload is not an object", common.ErrMalformedToken)
	}

	return payload, nil
}

// StringClaim returns payload[key] if it is a non-empty string.
func StringClaim(payload map[string]any, key string) (string, bool) {
	s, ok := payload[key].(string)
	return s, ok && s != ""
}

// TimeClaim interprets payload[key] as seconds since the epoch.
func TimeClaim(payload map[string]any, key string) (time.Time, bool) {
	f, ok := payload[key].(float64)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(int64(f), 0).UTC(), true
}
