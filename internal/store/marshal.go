package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/numreach/internal/canon"
)

// marshalNumbers converts the input numbers to canonical JSON TEXT.
// Order is preserved; the fingerprint column is the order-independent key.
func marshalNumbers(numbers []int) (string, error) {
	data, err := canon.MarshalCanonical(numbers)
	if err != nil {
		return "", fmt.Errorf("marshal numbers: %w", err)
	}
	return string(data), nil
}

// unmarshalNumbers parses the numbers column.
func unmarshalNumbers(data string) ([]int, error) {
	var numbers []int
	if err := json.Unmarshal([]byte(data), &numbers); err != nil {
		return nil, fmt.Errorf("unmarshal numbers: %w", err)
	}
	return numbers, nil
}
