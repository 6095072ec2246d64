// Package serializer produces the opaque payload stored with device codes.
package serializer

import (
	"encoding/json"
	"fmt"

	"go.pilab.hu/idstore/domain"
)

// JSON serializes payloads as JSON text.
type JSON struct{}

var _ domain.GrantSerializer = JSON{}

func (JSON) Serialize(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("serialize payload: %w", err)
	}
	return string(b), nil
}

func (JSON) Deserialize(data string, out any) error {
	if err := json.Unmarshal([]byte(data), out); err != nil {
		return fmt.Errorf("deserialize payload: %w", err)
	}
	return nil
}
