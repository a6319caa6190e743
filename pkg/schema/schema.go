package schema

import (
	"encoding/json"
	"reflect"
	"slices"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var (
	cache   = make(map[reflect.Type]*Schema)
	cacheMu sync.Mutex
)

// Property describes a single top level parameter of a function.
type Property struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool   `json:"required" yaml:"required"`
}

// Schema holds the reflected JSON schema of a request type
// and its function parameters form.
type Schema struct {
	RawSchema *jsonschema.Schema
	// Parameters represents the Function parameters definition
	Parameters *jsonschema.Schema
}

// New creates a new schema from the given struct type.
// Results are cached per type and must be treated as read-only.
func New(t reflect.Type) (*Schema, error) {
	if t == nil {
		return nil, errors.New("schema: nil type")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, errors.Newf("schema: expected struct, got %s", t.Kind())
	}

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if s, ok := cache[t]; ok {
		return s, nil
	}

	raw := JSONSchema(t)
	params, err := ToFunctionSchema(raw)
	if err != nil {
		return nil, errors.WithMessagef(err, "schema: %s", t.Name())
	}

	s := &Schema{
		RawSchema:  raw,
		Parameters: params,
	}
	cache[t] = s
	return s, nil
}

// MustNew is like New but panics on error.
// Use it only for package level definitions of static request types.
func MustNew(t reflect.Type) *Schema {
	s, err := New(t)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) String() string {
	js, _ := json.MarshalIndent(s.Parameters, "", "\t")
	return string(js)
}

// Properties returns top level parameters in declaration order.
func (s *Schema) Properties() []Property {
	if s.Parameters == nil || s.Parameters.Properties == nil {
		return nil
	}
	var list []Property
	for pair := s.Parameters.Properties.Oldest(); pair != nil; pair = pair.Next() {
		list = append(list, Property{
			Name:        pair.Key,
			Type:        pair.Value.Type,
			Description: pair.Value.Description,
			Required:    slices.Contains(s.Parameters.Required, pair.Key),
		})
	}
	return list
}

// ToFunctionSchema reduces a reflected schema to the
// {type, properties, required} object expected by function calling.
func ToFunctionSchema(tSchema *jsonschema.Schema) (*jsonschema.Schema, error) {
	root := tSchema
	if tSchema.Ref != "" {
		root = tSchema.Definitions[refName(tSchema.Ref)]
		if root == nil {
			return nil, errors.Newf("definition not found: %s", tSchema.Ref)
		}
	}
	if root.Type != "object" {
		return nil, errors.Newf("function parameters must be an object, got %q", root.Type)
	}
	if root.Properties != nil {
		for pair := root.Properties.Oldest(); pair != nil; pair = pair.Next() {
			if pair.Value.Ref != "" {
				return nil, errors.Newf("nested reference is not supported: %s", pair.Key)
			}
		}
	}

	props := root.Properties
	if props == nil {
		// functions without arguments still declare empty properties
		props = orderedmap.New[string, *jsonschema.Schema]()
	}

	return &jsonschema.Schema{
		Type:       root.Type,
		Properties: props,
		Required:   root.Required,
	}, nil
}

func refName(ref string) string {
	const prefix = "#/$defs/"
	if len(ref) > len(prefix) && ref[:len(prefix)] == prefix {
		return ref[len(prefix):]
	}
	return ref
}

// JSONSchema return the json schema of the type
func JSONSchema(t reflect.Type) *jsonschema.Schema {
	r := new(jsonschema.Reflector)
	r.ExpandedStruct = true
	r.DoNotReference = true
	r.AllowAdditionalProperties = true

	// Struct names may collide across packages,
	// see https://github.com/invopop/jsonschema/issues/42
	r.Namer = func(t reflect.Type) string {
		name := t.Name()
		if t.Kind() == reflect.Struct {
			fullname := t.PkgPath() + "/" + t.Name()
			name = t.Name() + "@" + strconv.FormatUint(xxhash.Sum64String(fullname), 10)
		}
		return name
	}

	return r.ReflectFromType(t)
}
