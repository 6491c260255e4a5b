package usecase

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/shandysiswandi/gotask/internal/pkg/pkgerror"
)

const taskProperties = `{
	"title":       {"type": "string", "minLength": 1, "maxLength": 200},
	"description": {"type": "string", "maxLength": 2000},
	"priority":    {"type": "integer", "minimum": -2147483648, "maximum": 2147483647},
	"isCompleted": {"type": "boolean"}
}`

const createTaskSchema = `{
	"type": "object",
	"required": ["title"],
	"additionalProperties": false,
	"properties": ` + taskProperties + `
}`

const patchTaskSchema = `{
	"type": "object",
	"minProperties": 1,
	"additionalProperties": false,
	"properties": ` + taskProperties + `
}`

type validator struct {
	create *jsonschema.Schema
	patch  *jsonschema.Schema
}

func newValidator() *validator {
	return &validator{
		create: jsonschema.MustCompileString("task-create.json", createTaskSchema),
		patch:  jsonschema.MustCompileString("task-patch.json", patchTaskSchema),
	}
}

// decodeTask validates raw against schema and decodes it into a taskInput.
func decodeTask(schema *jsonschema.Schema, raw []byte) (taskInput, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return taskInput{}, pkgerror.NewInvalidFormat()
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return taskInput{}, pkgerror.NewInvalidFormat()
	}

	if err := schema.Validate(doc); err != nil {
		return taskInput{}, schemaError(err)
	}

	var in taskInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return taskInput{}, pkgerror.NewInvalidFormat()
	}

	return in, nil
}

func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return pkgerror.NewInvalidInput(err)
	}

	fields := map[string]string{}
	collectLeaves(ve, fields)

	return pkgerror.NewValidation(err, fields)
}

func collectLeaves(ve *jsonschema.ValidationError, fields map[string]string) {
	if len(ve.Causes) == 0 {
		key := strings.TrimPrefix(ve.InstanceLocation, "/")
		if key == "" {
			key = "body"
		}
		if _, exists := fields[key]; !exists {
			fields[key] = ve.Message
		}
		return
	}
	for _, cause := range ve.Causes {
		collectLeaves(cause, fields)
	}
}
