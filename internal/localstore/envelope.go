package localstore

import (
	"encoding/json"
	"fmt"
)

// SchemaVersion is written into every stored envelope.
const SchemaVersion = 1

type envelope struct {
	SchemaVersion int             `json:"schemaVersion"`
	Payload       json.RawMessage `json:"payload"`
}

func encode[T any](payload T) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	out, err := json.Marshal(envelope{SchemaVersion: SchemaVersion, Payload: raw})
	if err != nil {
		return "", fmt.Errorf("marshal envelope: %w", err)
	}
	return string(out), nil
}

// decode accepts the current envelope and the bare, unversioned JSON written
// before envelopes existed (treated as version 0).
func decode[T any](value string, out *T) error {
	var env envelope
	if err := json.Unmarshal([]byte(value), &env); err == nil && env.SchemaVersion > 0 {
		if env.SchemaVersion > SchemaVersion {
			return fmt.Errorf("unsupported schema version %d", env.SchemaVersion)
		}
		return json.Unmarshal(env.Payload, out)
	}
	return json.Unmarshal([]byte(value), out)
}
