package todo

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// MaxID is the largest task id accepted from a payload. It keeps the counter
// clear of int64 overflow and inside the range JSON numbers represent exactly.
const MaxID int64 = 1<<53 - 1

const itemFields = `
	"text":      {"type": "string", "pattern": "\\S"},
	"completed": {"type": "boolean"},
	"createdAt": {"type": "string", "format": "date-time"},
	"priority":  {"enum": ["low", "medium", "high"]}`

// Payload ids are capped at MaxID. Stored ids are not: renumbering and Add
// may step past the largest imported id.
const (
	importItemProperties = `{"id": {"type": "integer", "minimum": 0, "maximum": 9007199254740991},` + itemFields + `}`
	storedItemProperties = `{"id": {"type": "integer", "minimum": 0},` + itemFields + `}`
)

// exportSchema accepts what Export writes and the looser hand-written lists
// people paste in: only text is required.
var exportSchema = mustCompileSchema("mktodo://export.json", `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "array",
	"items": {
		"type": "object",
		"required": ["text"],
		"properties": `+importItemProperties+`
	}
}`)

// stateSchema describes the persisted store state at SchemaVersion.
var stateSchema = mustCompileSchema("mktodo://state.json", `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["todos"],
	"properties": {
		"todos": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "text", "completed", "createdAt", "priority"],
				"properties": `+storedItemProperties+`
			}
		},
		"filter": {"enum": ["all", "active", "completed"]},
		"nextId": {"type": "integer", "minimum": 1}
	}
}`)

// legacyStateSchema accepts version 0 snapshots: items need only id and text,
// and the counter is recomputed by migration so any integer will do.
var legacyStateSchema = mustCompileSchema("mktodo://state-v0.json", `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["todos"],
	"properties": {
		"todos": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "text"],
				"properties": `+storedItemProperties+`
			}
		},
		"filter": {"enum": ["all", "active", "completed"]},
		"nextId": {"type": "integer"}
	}
}`)

func mustCompileSchema(url, src string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(url, strings.NewReader(src)); err != nil {
		panic(fmt.Sprintf("add schema %s: %v", url, err))
	}
	return compiler.MustCompile(url)
}

// validateJSON decodes data generically and checks it against schema.
// The returned errors are ValidationErrors, one per violated leaf.
func validateJSON(schema *jsonschema.Schema, data []byte) []error {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return []error{err}
	}
	err := schema.Validate(doc)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []error{err}
	}
	var errs []error
	collectSchemaErrors(&errs, ve)
	return errs
}

func collectSchemaErrors(errs *[]error, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		*errs = append(*errs, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(errs, cause)
	}
}

var pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")

// jsonPointerToPath renders "/todos/3/text" as "todos[3].text".
func jsonPointerToPath(ptr string) string {
	var b strings.Builder
	for _, tok := range strings.Split(strings.TrimPrefix(ptr, "#"), "/") {
		if tok == "" {
			continue
		}
		if _, err := strconv.ParseUint(tok, 10, 64); err == nil {
			b.WriteString("[" + tok + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(pointerUnescaper.Replace(tok))
	}
	return b.String()
}
