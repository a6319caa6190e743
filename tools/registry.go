package tools

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/google/uuid"
	"github.com/plagness/NikaBot/pkg/locale"
	"github.com/plagness/NikaBot/pkg/metricskey"
	"github.com/sashabaranov/go-openai"
)

var logger = xlog.NewPackageLogger("github.com/plagness/NikaBot", "tools")

// Registry dispatches function calls to the tools by name.
// It is read-only after construction and safe for concurrent use.
type Registry struct {
	tools    map[string]ITool
	list     []ITool
	msgs     *locale.Catalog
	callback Callback
}

// NewRegistry returns registry of the tools,
// msgs renders the answers for calls the tools could not handle.
func NewRegistry(msgs *locale.Catalog, list ...ITool) (*Registry, error) {
	r := &Registry{
		tools: make(map[string]ITool, len(list)),
		msgs:  msgs,
	}
	for _, t := range list {
		key := strings.ToLower(t.Name())
		if _, ok := r.tools[key]; ok {
			return nil, errors.Newf("duplicate tool: %s", t.Name())
		}
		r.tools[key] = t
		r.list = append(r.list, t)
	}
	return r, nil
}

// WithCallback sets the callback
func (r *Registry) WithCallback(cb Callback) *Registry {
	r.callback = cb
	return r
}

// Get returns the tool by function name, case-insensitive
func (r *Registry) Get(name string) (ITool, bool) {
	t, ok := r.tools[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// Names returns function names in registration order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.list))
	for _, t := range r.list {
		names = append(names, t.Name())
	}
	return names
}

// Tools returns the registered tools
func (r *Registry) Tools() []ITool {
	return r.list
}

// Specs returns specifications of the registered tools
func (r *Registry) Specs() []*Specification {
	specs := make([]*Specification, 0, len(r.list))
	for _, t := range r.list {
		specs = append(specs, t.Describe())
	}
	return specs
}

// OpenAITools returns the specifications as OpenAI function tools
func (r *Registry) OpenAITools() []openai.Tool {
	list := make([]openai.Tool, 0, len(r.list))
	for _, spec := range r.Specs() {
		list = append(list, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        spec.Name,
				Description: spec.Description,
				Parameters:  spec.Parameters,
			},
		})
	}
	return list
}

// Execute invokes the tool by function name.
// Unknown names and panics in the tool are reported as failed results.
func (r *Registry) Execute(ctx context.Context, name string, helper Helper, args map[string]any) (res Result) {
	t, ok := r.Get(name)
	if !ok {
		metricskey.StatsToolCallsNotFound.IncrCounter(1, name)
		if r.callback != nil {
			r.callback.OnToolNotFound(ctx, name)
		}
		return ErrorResult(
			r.msgs.Render(locale.ToolNotFound, map[string]any{"Name": name, "Available": r.Names()}),
			errors.Newf("tool not found: %s", name),
		)
	}

	callID := uuid.NewString()
	started := time.Now()
	if r.callback != nil {
		r.callback.OnToolStart(ctx, t, callID, args)
	}

	defer func() {
		if rec := recover(); rec != nil {
			err := errors.Newf("tool %s panicked: %v", t.Name(), rec)
			logger.ContextKV(ctx, xlog.ERROR,
				"tool", t.Name(),
				"call_id", callID,
				"err", err.Error(),
				"stack", string(debug.Stack()),
			)
			if r.callback != nil {
				r.callback.OnToolError(ctx, t, callID, err)
			}
			res = ErrorResult(r.msgs.Render(locale.ToolInternalError, map[string]any{"Name": t.Name()}), err)
		}
		r.done(ctx, t, callID, started, res)
	}()

	res = t.Execute(ctx, t.Name(), helper, args)
	if res == nil {
		res = ErrorResult(r.msgs.Render(locale.ToolInternalError, map[string]any{"Name": t.Name()}),
			errors.New("empty result"))
	}
	return res
}

func (r *Registry) done(ctx context.Context, t ITool, callID string, started time.Time, res Result) {
	metricskey.PerfToolCall.MeasureSince(started, t.Name())
	if res.Failed() {
		metricskey.StatsToolCallsFailed.IncrCounter(1, t.Name())
	} else {
		metricskey.StatsToolCallsSucceeded.IncrCounter(1, t.Name())
	}
	if r.callback != nil {
		r.callback.OnToolEnd(ctx, t, callID, res)
	}
}

// Call invokes the tool with JSON arguments as produced by LLM
func (r *Registry) Call(ctx context.Context, name string, helper Helper, input string) Result {
	args, err := ParseArgs(input)
	if err != nil {
		return ErrorResult(r.msgs.Render(locale.ToolInvalidArguments, map[string]any{"Name": name}), err)
	}
	return r.Execute(ctx, name, helper, args)
}

// String returns the list of tools and descriptions
func (r *Registry) String() string {
	var b strings.Builder
	for _, t := range r.list {
		fmt.Fprintf(&b, "%s: %s\n", t.Name(), t.Description())
	}
	return b.String()
}
