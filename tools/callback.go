package tools

import (
	"context"

	"github.com/effective-security/x/slices"
	"github.com/effective-security/xlog"
	"github.com/plagness/NikaBot/pkg/llmutils"
)

var (
	_ Callback = (*PackageLoggerCallback)(nil)
	_ Callback = (*Fanout)(nil)
)

// PackageLoggerCallback is a callback handler that prints to the logger.
type PackageLoggerCallback struct {
	logger *xlog.PackageLogger
}

// NewPackageLoggerCallback returns callback logging to the package logger
func NewPackageLoggerCallback(logger *xlog.PackageLogger) *PackageLoggerCallback {
	return &PackageLoggerCallback{logger: logger}
}

func (l *PackageLoggerCallback) OnToolStart(ctx context.Context, tool ITool, callID string, args map[string]any) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "tool_start",
		"tool", tool.Name(),
		"call_id", callID,
		"args", slices.StringUpto(llmutils.ToJSON(args), 512),
	)
}

func (l *PackageLoggerCallback) OnToolEnd(ctx context.Context, tool ITool, callID string, result Result) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "tool_end",
		"tool", tool.Name(),
		"call_id", callID,
		"error", result.ErrorMessage(),
		"output", slices.StringUpto(result.FormattedAnswer(), 256),
	)
}

func (l *PackageLoggerCallback) OnToolError(ctx context.Context, tool ITool, callID string, err error) {
	l.logger.ContextKV(ctx, xlog.ERROR,
		"event", "tool_error",
		"tool", tool.Name(),
		"call_id", callID,
		"err", err.Error(),
	)
}

func (l *PackageLoggerCallback) OnToolNotFound(ctx context.Context, name string) {
	l.logger.ContextKV(ctx, xlog.WARNING,
		"event", "tool_not_found",
		"tool", name,
	)
}

// Fanout forwards the events to multiple callbacks.
type Fanout struct {
	callbacks []Callback
}

func NewFanout(callbacks ...Callback) *Fanout {
	return &Fanout{callbacks: callbacks}
}

func (l *Fanout) OnToolStart(ctx context.Context, tool ITool, callID string, args map[string]any) {
	for _, cb := range l.callbacks {
		cb.OnToolStart(ctx, tool, callID, args)
	}
}

func (l *Fanout) OnToolEnd(ctx context.Context, tool ITool, callID string, result Result) {
	for _, cb := range l.callbacks {
		cb.OnToolEnd(ctx, tool, callID, result)
	}
}

func (l *Fanout) OnToolError(ctx context.Context, tool ITool, callID string, err error) {
	for _, cb := range l.callbacks {
		cb.OnToolError(ctx, tool, callID, err)
	}
}

func (l *Fanout) OnToolNotFound(ctx context.Context, name string) {
	for _, cb := range l.callbacks {
		cb.OnToolNotFound(ctx, name)
	}
}
