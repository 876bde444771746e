// Package validation validates grant data against a JSON Schema and
// reports the violations as grouped validation error records.
package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ukaji3/grantquality-go/pkg/grantquality/jsonvalue"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/spreadsheet"
)

// Validator checks datasets against one compiled schema.
type Validator struct {
	schema *jsonschema.Schema
}

// Compile compiles the schema read from r. url names the resource for
// relative references. Schemas without $schema are read as draft 4, the
// draft of the grant standard, and formats are asserted.
func Compile(url string, r io.Reader) (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft4
	compiler.AssertFormat = true
	if err := compiler.AddResource(url, r); err != nil {
		return nil, errors.Wrap(err, "add schema resource")
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, errors.Wrap(err, "compile schema")
	}
	return &Validator{schema: schema}, nil
}

// CompileBytes is Compile over an in-memory schema.
func CompileBytes(url string, data []byte) (*Validator, error) {
	return Compile(url, bytes.NewReader(data))
}

// Load compiles the schema file at path.
func Load(path string) (*Validator, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, "resolve schema path")
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, errors.Wrap(err, "open schema file")
	}
	defer f.Close()
	return Compile(abs, f)
}

// Validate validates data and groups the violations. Locations are
// resolved through sourceMap when it is non-empty.
func (v *Validator) Validate(data jsonvalue.Value, sourceMap spreadsheet.SourceMap) (List, error) {
	err := v.schema.Validate(data.Interface())
	if err == nil {
		return List{}, nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil, errors.Wrap(err, "validate")
	}

	g := &grouper{index: map[string]int{}, list: List{}}
	for _, leaf := range leaves(verr) {
		for _, f := range v.describe(data, leaf) {
			g.add(f, sourceMap)
		}
	}
	return g.list, nil
}

// leaves returns the errors without causes. oneOf and anyOf failures are
// kept whole, since the failures of their branches are not errors on
// their own.
func leaves(e *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(e.Causes) == 0 {
		return []*jsonschema.ValidationError{e}
	}
	switch keyword(e.KeywordLocation) {
	case "oneOf", "anyOf":
		if e.KeywordLocation != "" {
			return []*jsonschema.ValidationError{e}
		}
	}
	var out []*jsonschema.ValidationError
	for _, c := range e.Causes {
		out = append(out, leaves(c)...)
	}
	return out
}

// failure is one violation at one place.
type failure struct {
	err      Error
	path     []string
	instance jsonvalue.Value
	scalar   bool
}

func (v *Validator) describe(data jsonvalue.Value, e *jsonschema.ValidationError) []failure {
	validator := keyword(e.KeywordLocation)
	path := pointerTokens(e.InstanceLocation)
	instance, found := lookupPointer(data, path)
	scalar := found && instance.Kind() != jsonvalue.Object && instance.Kind() != jsonvalue.Array
	node := schemaAt(v.schema, pointerTokens(e.KeywordLocation))

	if validator == "required" && node != nil {
		var out []failure
		for _, name := range node.Required {
			if found && instance.Has(name) {
				continue
			}
			out = append(out, failure{
				err: Error{
					Message:      fmt.Sprintf("'%s' is missing but required", name),
					PathNoNumber: joinNoNumber(append(append([]string{}, path...), name)),
					Validator:    validator,
				},
				path: path,
			})
		}
		if len(out) > 0 {
			return out
		}
	}

	return []failure{{
		err: Error{
			Message:        e.Message,
			PathNoNumber:   joinNoNumber(path),
			Validator:      validator,
			ValidatorValue: validatorValue(node, validator),
		},
		path:     path,
		instance: instance,
		scalar:   scalar,
	}}
}

type grouper struct {
	index map[string]int
	list  List
}

func (g *grouper) add(f failure, sourceMap spreadsheet.SourceMap) {
	b, err := json.Marshal(f.err)
	if err != nil {
		return
	}
	key := string(b)
	i, ok := g.index[key]
	if !ok {
		i = len(g.list)
		g.index[key] = i
		g.list = append(g.list, Entry{ErrorJSON: key})
	}
	g.list[i].Values = append(g.list[i].Values, f.value(sourceMap))
}

func (f failure) value(sourceMap spreadsheet.SourceMap) jsonvalue.Value {
	path := strings.Join(f.path, "/")
	members := []jsonvalue.Member{{Key: "path", Value: jsonvalue.NewString(path)}}
	if f.scalar {
		members = append(members, jsonvalue.Member{Key: "value", Value: f.instance})
	}
	if loc, ok := sourceMap.Resolve(path); ok {
		members = append(members,
			jsonvalue.Member{Key: "sheet", Value: jsonvalue.NewString(loc.Sheet)},
			jsonvalue.Member{Key: "row_number", Value: jsonvalue.NewInt(int64(loc.RowNumber))},
		)
		if loc.Letter != "" {
			members = append(members,
				jsonvalue.Member{Key: "col_alpha", Value: jsonvalue.NewString(loc.Letter)},
				jsonvalue.Member{Key: "header", Value: jsonvalue.NewString(loc.Header)},
			)
		}
	}
	return jsonvalue.NewObject(members...)
}

func validatorValue(s *jsonschema.Schema, validator string) any {
	if s == nil {
		return nil
	}
	switch validator {
	case "format":
		return s.Format
	case "enum":
		return s.Enum
	case "type":
		return s.Types
	case "oneOf":
		return branchSummaries(s.OneOf)
	case "anyOf":
		return branchSummaries(s.AnyOf)
	}
	return nil
}

// branchSummaries lists the simple keywords of each branch.
func branchSummaries(branches []*jsonschema.Schema) []map[string]any {
	out := make([]map[string]any, 0, len(branches))
	for _, b := range branches {
		m := map[string]any{}
		if b.Format != "" {
			m["format"] = b.Format
		}
		if len(b.Types) > 0 {
			m["type"] = b.Types
		}
		if len(b.Enum) > 0 {
			m["enum"] = b.Enum
		}
		out = append(out, m)
	}
	return out
}

// schemaAt follows a keyword location to the schema holding its last
// keyword. It returns nil for locations it cannot follow.
func schemaAt(root *jsonschema.Schema, tokens []string) *jsonschema.Schema {
	if len(tokens) == 0 {
		return root
	}
	s := root
	tokens = tokens[:len(tokens)-1]
	for i := 0; i < len(tokens) && s != nil; i++ {
		switch tokens[i] {
		case "properties":
			i++
			if i >= len(tokens) {
				return nil
			}
			s = s.Properties[tokens[i]]
		case "items":
			switch items := s.Items.(type) {
			case *jsonschema.Schema:
				s = items
			case []*jsonschema.Schema:
				if i+1 >= len(tokens) {
					return nil
				}
				i++
				s = indexed(items, tokens[i])
			default:
				s = s.Items2020
			}
		case "additionalProperties":
			s, _ = s.AdditionalProperties.(*jsonschema.Schema)
		case "$ref":
			s = s.Ref
		case "not":
			s = s.Not
		case "oneOf", "anyOf", "allOf":
			branches := map[string][]*jsonschema.Schema{"oneOf": s.OneOf, "anyOf": s.AnyOf, "allOf": s.AllOf}[tokens[i]]
			if i+1 >= len(tokens) {
				return nil
			}
			i++
			s = indexed(branches, tokens[i])
		default:
			return nil
		}
	}
	return s
}

func indexed(schemas []*jsonschema.Schema, token string) *jsonschema.Schema {
	n, err := strconv.Atoi(token)
	if err != nil || n < 0 || n >= len(schemas) {
		return nil
	}
	return schemas[n]
}

// SchemaFields lists the field paths the schema defines below its root,
// such as "/grants/recipientOrganization/name". Arrays contribute the
// fields of their items under their own path.
func (v *Validator) SchemaFields() map[string]bool {
	fields := map[string]bool{}
	collectFields(v.schema, "", fields, map[*jsonschema.Schema]int{})
	return fields
}

// The depth limit stops recursive schemas; a schema may still be entered
// again under a different path.
const maxSchemaDepth = 16

func collectFields(s *jsonschema.Schema, prefix string, fields map[string]bool, active map[*jsonschema.Schema]int) {
	if s == nil || active[s] > 0 || strings.Count(prefix, "/") > maxSchemaDepth {
		return
	}
	active[s]++
	defer func() { active[s]-- }()

	collectFields(s.Ref, prefix, fields, active)
	for _, group := range [][]*jsonschema.Schema{s.AllOf, s.AnyOf, s.OneOf} {
		for _, b := range group {
			collectFields(b, prefix, fields, active)
		}
	}
	switch items := s.Items.(type) {
	case *jsonschema.Schema:
		collectFields(items, prefix, fields, active)
	case []*jsonschema.Schema:
		for _, item := range items {
			collectFields(item, prefix, fields, active)
		}
	}
	collectFields(s.Items2020, prefix, fields, active)

	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		path := prefix + "/" + name
		fields[path] = true
		collectFields(s.Properties[name], path, fields, active)
	}
}

func keyword(location string) string {
	tokens := pointerTokens(location)
	if len(tokens) == 0 {
		return ""
	}
	return tokens[len(tokens)-1]
}

// pointerTokens splits a JSON pointer (with or without a leading slash)
// into unescaped tokens.
func pointerTokens(pointer string) []string {
	pointer = strings.TrimPrefix(pointer, "/")
	if pointer == "" {
		return nil
	}
	parts := strings.Split(pointer, "/")
	for i, p := range parts {
		parts[i] = strings.NewReplacer("~1", "/", "~0", "~").Replace(p)
	}
	return parts
}

func lookupPointer(data jsonvalue.Value, tokens []string) (jsonvalue.Value, bool) {
	cur := data
	for _, tok := range tokens {
		switch cur.Kind() {
		case jsonvalue.Object:
			next, ok := cur.Get(tok)
			if !ok {
				return jsonvalue.Value{}, false
			}
			cur = next
		case jsonvalue.Array:
			n, err := strconv.Atoi(tok)
			if err != nil {
				return jsonvalue.Value{}, false
			}
			next, ok := cur.Index(n)
			if !ok {
				return jsonvalue.Value{}, false
			}
			cur = next
		default:
			return jsonvalue.Value{}, false
		}
	}
	return cur, true
}

// joinNoNumber joins path tokens, leaving out array indexes.
func joinNoNumber(tokens []string) string {
	kept := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, err := strconv.Atoi(t); err == nil {
			continue
		}
		kept = append(kept, t)
	}
	return strings.Join(kept, "/")
}
