package util

import (
	"encoding/json"
	"os"
)

// WriteJSONToFile serializes value as JSON and writes it to file.
// cmd/chanroute uses this to write the run's Result summary when a run
// does not end in Success.
func WriteJSONToFile[T any](value T, file string) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(file, data, 0o644)
}

func ReadJSONFromFile[T any](file string) (T, error) {
	var value T
	data, err := os.ReadFile(file)
	if err != nil {
		return value, err
	}
	err = json.Unmarshal(data, &value)
	return value, err
}
