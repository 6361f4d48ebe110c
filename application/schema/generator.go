// Package schema generates and compiles JSON schemas for bridge payloads.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ZKNoxHQ/ksig-bridge/domain/entities"
	"github.com/invopop/jsonschema"
	compiler "github.com/santhosh-tekuri/jsonschema/v5"
)

// RequestSchemaID is the resource URL of the ProofRequest schema.
const RequestSchemaID = "https://ksig.zknox.dev/schemas/proof-request.json"

// GenerateSchema creates a JSON schema from a Go struct.
// It uses the `invopop/jsonschema` library to reflect on the struct
// and generate a standard JSON Schema (Draft 2020-12).
func GenerateSchema(v interface{}) ([]byte, error) {
	return generate(&jsonschema.Reflector{ExpandedStruct: true}, v)
}

// RequestSchema returns the JSON schema of the inline witness object. All
// five fields are required strings; unknown properties are tolerated.
func RequestSchema() ([]byte, error) {
	return generate(&jsonschema.Reflector{
		ExpandedStruct:            true,
		AllowAdditionalProperties: true,
	}, entities.ProofRequest{})
}

// CompileRequestSchema compiles RequestSchema for validating decoded JSON
// documents.
func CompileRequestSchema() (*compiler.Schema, error) {
	raw, err := RequestSchema()
	if err != nil {
		return nil, err
	}

	c := compiler.NewCompiler()
	if err := c.AddResource(RequestSchemaID, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	sch, err := c.Compile(RequestSchemaID)
	if err != nil {
		return nil, fmt.Errorf("invalid request schema: %w", err)
	}
	return sch, nil
}

func generate(reflector *jsonschema.Reflector, v interface{}) ([]byte, error) {
	schema := reflector.Reflect(v)

	jsonBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	return jsonBytes, nil
}
