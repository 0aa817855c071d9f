package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	lerrors "github.com/abhisek/lina/internal/errors"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

const schemaURL = "https://lina.local/catalog.schema.json"

//go:embed schema.json
var schemaJSON []byte

//go:embed seed.yaml
var seedYAML []byte

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parse catalog schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("add catalog schema: %w", err)
	}
	return c.Compile(schemaURL)
})

var defaultCatalog = sync.OnceValues(func() (*Catalog, error) {
	return Parse(seedYAML)
})

type file struct {
	Skills []Skill `yaml:"skills"`
}

// Default returns the built-in catalog. It panics if the embedded data is invalid.
func Default() *Catalog {
	c, err := defaultCatalog()
	if err != nil {
		panic(fmt.Sprintf("catalog: built-in catalog invalid: %v", err))
	}
	return c
}

// Load reads a YAML catalog file. An empty path returns the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return defaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode yaml: %v", lerrors.ErrInvalidInput, err)
	}
	if err := validateDocument(raw); err != nil {
		return nil, err
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: decode skills: %v", lerrors.ErrInvalidInput, err)
	}
	return New(f.Skills)
}

// validateDocument checks a decoded YAML value against the catalog schema.
// The value is round-tripped through JSON so that numbers and maps have the
// shapes the validator expects.
func validateDocument(raw any) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}

	b, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("%w: catalog is not JSON-compatible: %v", lerrors.ErrInvalidInput, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("%w: %v", lerrors.ErrInvalidInput, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: schema validation failed: %v", lerrors.ErrInvalidInput, err)
	}
	return nil
}
