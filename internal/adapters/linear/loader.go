package linear

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadVectorizerSpec reads an exported vectorizer from a JSON file
func LoadVectorizerSpec(path string) (*VectorizerSpec, error) {
	var spec VectorizerSpec
	if err := decodeFile(path, &spec); err != nil {
		return nil, fmt.Errorf("failed to load vectorizer: %w", err)
	}
	return &spec, nil
}

// LoadModelSpec reads an exported classifier from a JSON file
func LoadModelSpec(path string) (*ModelSpec, error) {
	var spec ModelSpec
	if err := decodeFile(path, &spec); err != nil {
		return nil, fmt.Errorf("failed to load classifier: %w", err)
	}
	return &spec, nil
}

func decodeFile(path string, out interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidModel, path, err)
	}
	return nil
}
