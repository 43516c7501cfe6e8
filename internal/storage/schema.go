package storage

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// schemaURL identifies the embedded schema inside the compiler.
const schemaURL = "https://tasklist.local/tasks.schema.json"

//go:embed tasks.schema.json
var embeddedSchema []byte

// Schema returns the JSON Schema describing the task data file.
func Schema() []byte {
	out := make([]byte, len(embeddedSchema))
	copy(out, embeddedSchema)
	return out
}

var compileEmbedded = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaURL, bytes.NewReader(embeddedSchema)); err != nil {
		return nil, fmt.Errorf("add embedded schema: %w", err)
	}
	return compiler.Compile(schemaURL)
})

// loadSchema compiles the schema at path, or the embedded schema when
// path is empty.
func loadSchema(path string) (*jsonschema.Schema, error) {
	if path == "" {
		return compileEmbedded()
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid schema path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("schema file not found: %s", absPath)
		}
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	schema, err := compiler.Compile(absPath)
	if err != nil {
		return nil, fmt.Errorf("invalid schema file: %w", err)
	}
	return schema, nil
}
