package accountStore

import (
	"encoding/json"
	"fmt"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/types"
)

// MarshalAccountRecord serializes a SmartAccountRecord to JSON bytes.
// Uses standard JSON marshaling - common.Address and big.Int have built-in
// JSON support.
func MarshalAccountRecord(record *types.SmartAccountRecord) ([]byte, error) {
	if record == nil {
		return nil, fmt.Errorf("cannot marshal nil SmartAccountRecord")
	}

	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal SmartAccountRecord to JSON: %w", err)
	}

	return data, nil
}

// UnmarshalAccountRecord deserializes a SmartAccountRecord from JSON bytes.
func UnmarshalAccountRecord(data []byte) (*types.SmartAccountRecord, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot unmarshal empty data")
	}

	var record types.SmartAccountRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON to SmartAccountRecord: %w", err)
	}

	return &record, nil
}
