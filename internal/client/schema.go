package client

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/thoreinstein/mcpconf/internal/jsondoc"
	"github.com/thoreinstein/mcpconf/internal/validator"
)

// entrySchema is the shape every host accepts for a server entry. Host
// specific discriminants such as "type" are never required, so hand-edited
// entries without them pass.
const entrySchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "command": {"type": "string", "minLength": 1},
    "args": {"type": "array", "items": {"type": "string"}},
    "env": {"type": "object", "additionalProperties": {"type": "string"}},
    "url": {"type": "string", "minLength": 1},
    "type": {"type": "string"}
  },
  "anyOf": [
    {"required": ["command"]},
    {"required": ["url"]}
  ]
}`

var compiledEntrySchema = mustSchema(entrySchema)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(err)
	}
	return s
}

// checkEntry returns the structural issues of one servers-section entry.
func checkEntry(name string, entry any) []validator.Issue {
	var res validator.Result

	if _, ok := entry.(map[string]any); !ok {
		res.AddError(name, "", "entry must be an object", jsondoc.Kind(entry))
		return res.Issues
	}

	result, err := compiledEntrySchema.Validate(gojsonschema.NewGoLoader(entry))
	if err != nil {
		res.AddError(name, "", "entry could not be checked: "+err.Error(), nil)
		return res.Issues
	}
	if result.Valid() {
		return nil
	}

	anyOf := false
	for _, e := range result.Errors() {
		if e.Type() == "number_any_of" {
			anyOf = true
		}
	}
	if anyOf {
		res.AddError(name, "", `entry must define "command" or "url"`, nil)
	}

	for _, e := range result.Errors() {
		switch e.Type() {
		case "number_any_of":
			continue
		case "required":
			if anyOf {
				continue
			}
		}
		res.AddError(name, schemaField(e.Field()), e.Description(), nil)
	}
	return res.Issues
}

// schemaField turns "(root)" and "args.1" into "" and "args/1".
func schemaField(field string) string {
	if field == "(root)" {
		return ""
	}
	return strings.ReplaceAll(field, ".", "/")
}
