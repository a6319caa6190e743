package schema_test

import (
	"reflect"
	"testing"

	"github.com/plagness/NikaBot/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searchRequest struct {
	Query  string `json:"query" jsonschema:"description=User query (keywords\\, question\\, etc.)."`
	Region string `json:"region,omitempty" jsonschema:"title=Region,description=Search region"`
}

type nested struct {
	Query string         `json:"query"`
	Inner *searchRequest `json:"inner"`
}

func TestSchema(t *testing.T) {
	t.Parallel()

	s, err := schema.New(reflect.TypeOf(searchRequest{}))
	require.NoError(t, err)

	exp := `{
	"properties": {
		"query": {
			"type": "string",
			"description": "User query (keywords, question, etc.)."
		},
		"region": {
			"type": "string",
			"title": "Region",
			"description": "Search region"
		}
	},
	"type": "object",
	"required": [
		"query"
	]
}`
	assert.Equal(t, exp, s.String())

	props := s.Properties()
	require.Len(t, props, 2)
	assert.Equal(t, schema.Property{
		Name:        "query",
		Type:        "string",
		Description: "User query (keywords, question, etc.).",
		Required:    true,
	}, props[0])
	assert.Equal(t, "region", props[1].Name)
	assert.False(t, props[1].Required)

	// cached
	s2, err := schema.New(reflect.TypeOf(&searchRequest{}))
	require.NoError(t, err)
	assert.Same(t, s, s2)
}

func TestSchema_Errors(t *testing.T) {
	t.Parallel()

	_, err := schema.New(nil)
	assert.EqualError(t, err, "schema: nil type")

	_, err = schema.New(reflect.TypeOf("string"))
	assert.EqualError(t, err, "schema: expected struct, got string")

	assert.Panics(t, func() {
		schema.MustNew(reflect.TypeOf(42))
	})
}

func TestSchema_Nested(t *testing.T) {
	t.Parallel()

	s, err := schema.New(reflect.TypeOf(nested{}))
	require.NoError(t, err)
	props := s.Properties()
	require.Len(t, props, 2)
	assert.Equal(t, "object", props[1].Type)
}

func TestSchema_NoArguments(t *testing.T) {
	t.Parallel()

	type empty struct{}
	s, err := schema.New(reflect.TypeOf(empty{}))
	require.NoError(t, err)
	require.NotNil(t, s.Parameters.Properties)
	assert.Zero(t, s.Parameters.Properties.Len())
	assert.Empty(t, s.Properties())
}
