package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/megac/internal/ir"
)

// marshalProcedure converts a procedure tree to canonical JSON TEXT so the
// stored bytes hash to the record ID.
func marshalProcedure(p ir.Object) (string, error) {
	if p == nil {
		return "", fmt.Errorf("marshal procedure: nil procedure")
	}
	data, err := ir.MarshalCanonical(p)
	if err != nil {
		return "", fmt.Errorf("marshal procedure: %w", err)
	}
	return string(data), nil
}

// unmarshalProcedure parses canonical JSON TEXT back to an ir.Object.
// ir.Object.UnmarshalJSON keeps integers exact.
func unmarshalProcedure(data string) (ir.Object, error) {
	if data == "" {
		return nil, fmt.Errorf("unmarshal procedure: empty")
	}
	var obj ir.Object
	if err := json.Unmarshal([]byte(data), &obj); err != nil {
		return nil, fmt.Errorf("unmarshal procedure: %w", err)
	}
	return obj, nil
}
