package tools

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/plagness/NikaBot/pkg/locale"
)

// Invoke decodes the arguments into the request of the typed tool,
// runs it and converts the outcome into Result.
// A *Failure returned by Run provides the displayable answer,
// other errors are reported with a generic one.
func Invoke[I any, O Resulter](ctx context.Context, t Tool[I, O], msgs *locale.Catalog, args map[string]any) Result {
	req := new(I)
	if err := DecodeArgs(args, req); err != nil {
		return ErrorResult(msgs.Render(locale.ToolInvalidArguments, map[string]any{"Name": t.Name()}), err)
	}

	resp, err := t.Run(ctx, req)
	if err != nil {
		var f *Failure
		if errors.As(err, &f) {
			return f.Result()
		}
		return ErrorResult(msgs.Render(locale.ToolInternalError, map[string]any{"Name": t.Name()}), err)
	}
	if resp == nil {
		return ErrorResult(msgs.Render(locale.ToolInternalError, map[string]any{"Name": t.Name()}),
			errors.New("empty response"))
	}
	return (*resp).Result()
}
