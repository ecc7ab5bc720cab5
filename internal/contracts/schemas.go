package contracts

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Имена контрактов в формате "<Type>/<version>".
const (
	PropertySubmissionV1     = "PropertySubmission/1.0"
	PropertySubmittedEventV1 = "PropertySubmittedEvent/1.0"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var schemaFiles = map[string]string{
	PropertySubmissionV1:     "schemas/property-submission.v1.json",
	PropertySubmittedEventV1: "schemas/property-submitted-event.v1.json",
}

var (
	loadOnce        sync.Once
	loadErr         error
	compiledSchemas map[string]*jsonschema.Schema
)

func load() error {
	loadOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true

		compiledSchemas = make(map[string]*jsonschema.Schema, len(schemaFiles))
		for name, file := range schemaFiles {
			data, err := schemaFS.ReadFile(file)
			if err != nil {
				loadErr = fmt.Errorf("failed to read schema %s: %w", file, err)
				return
			}
			url := "mem://" + path.Base(file)
			if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
				loadErr = fmt.Errorf("failed to add schema %s: %w", file, err)
				return
			}
			schema, err := compiler.Compile(url)
			if err != nil {
				loadErr = fmt.Errorf("failed to compile schema %s: %w", file, err)
				return
			}
			compiledSchemas[name] = schema
		}
	})
	return loadErr
}

// Validate проверяет JSON-тело по схеме контракта name.
func Validate(name string, body []byte) error {
	if err := load(); err != nil {
		return err
	}
	schema, ok := compiledSchemas[name]
	if !ok {
		return fmt.Errorf("schema for contract '%s' not found", name)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("body is not a valid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}
