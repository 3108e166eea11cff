package protocol

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// schemaFiles maps each schema-validated inbound type to its schema file.
// room:leave and action:cancel carry no payload and need no schema.
var schemaFiles = map[string]string{
	TypeRoomJoin:      "schemas/room_join.schema.json",
	TypeActionPerform: "schemas/action_perform.schema.json",
	TypePlayerMove:    "schemas/player_move.schema.json",
	TypePlayerSpeak:   "schemas/player_speak.schema.json",
}

// Validator checks inbound payloads against their embedded JSON schemas.
// It is immutable after construction and safe for concurrent use.
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// NewValidator compiles the embedded schemas. Compilation only fails if
// the embedded files are broken, so callers treat an error as fatal.
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	v := &Validator{schemas: make(map[string]*jsonschema.Schema, len(schemaFiles))}
	for msgType, file := range schemaFiles {
		raw, err := schemaFS.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", file, err)
		}
		if err := compiler.AddResource(file, bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", file, err)
		}
		schema, err := compiler.Compile(file)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", file, err)
		}
		v.schemas[msgType] = schema
	}
	return v, nil
}

// Validate checks raw against the schema registered for msgType. Types
// without a schema (payload-less messages) pass as long as the envelope
// parsed. Unknown types fail.
func (v *Validator) Validate(msgType string, raw json.RawMessage) error {
	schema, ok := v.schemas[msgType]
	if !ok {
		switch msgType {
		case TypeRoomLeave, TypeActionCancel:
			return nil
		}
		return fmt.Errorf("unknown message type %q", msgType)
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("decode %s payload: %w", msgType, err)
	}
	if err := schema.Validate(decoded); err != nil {
		return fmt.Errorf("invalid %s payload: %w", msgType, err)
	}
	return nil
}
