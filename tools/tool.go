package tools

import (
	"context"

	"github.com/invopop/jsonschema"
	"github.com/plagness/NikaBot/pkg/schema"
)

// Helper is an opaque value passed by the orchestrator to the tools,
// such as the chat client. The tools in this module ignore it.
type Helper any

// Specification describes a function exposed to the LLM
type Specification struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	// Parameters is JSON schema of the function arguments
	Parameters *jsonschema.Schema `json:"parameters" yaml:"-"`
	// Properties lists the parameters in declaration order
	Properties []schema.Property `json:"-" yaml:"parameters"`
}

// ITool is a tool for the LLM to interact with external services.
type ITool interface {
	// Name returns the function name of the tool.
	Name() string
	// Description returns the description of the tool, to be used in the prompt.
	Description() string
	// Parameters returns the parameters definition of the function.
	Parameters() *jsonschema.Schema
	// SourceName returns the display name of the data source.
	SourceName() string
	// Describe returns the function specification.
	Describe() *Specification
	// Execute runs the function with the arguments parsed from the LLM reply.
	// It never panics on bad input and never returns error:
	// failures are reported in the Result.
	Execute(ctx context.Context, functionName string, helper Helper, args map[string]any) Result
}

// Tool is ITool with typed request and response
type Tool[I any, O any] interface {
	ITool
	Run(context.Context, *I) (*O, error)
}

// Callback receives the tool lifecycle events
type Callback interface {
	OnToolStart(ctx context.Context, tool ITool, callID string, args map[string]any)
	OnToolEnd(ctx context.Context, tool ITool, callID string, result Result)
	OnToolError(ctx context.Context, tool ITool, callID string, err error)
	OnToolNotFound(ctx context.Context, name string)
}

// Describe returns the specification built from the tool metadata
func Describe(t ITool) *Specification {
	return &Specification{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters:  t.Parameters(),
	}
}
