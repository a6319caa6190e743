package metricskey

import "github.com/effective-security/metrics"

// Stats
var (
	StatsToolCallsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_succeeded",
		Help:         "stats_tool_calls_succeeded provides total tool calls succeeded",
		RequiredTags: []string{"tool"},
	}

	// StatsToolCallsFailed counts calls that returned a result with an error set
	StatsToolCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_failed",
		Help:         "stats_tool_calls_failed provides total tool calls failed",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsNotFound = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_not_found",
		Help:         "stats_tool_calls_not_found provides total tool calls not found",
		RequiredTags: []string{"tool"},
	}

	StatsHTTPRequestsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_http_requests_failed",
		Help:         "stats_http_requests_failed provides total outbound requests failed with transport error or non-success status",
		RequiredTags: []string{"service"},
	}

	// StatsPagesFetched counts page fetches by status: ok, failed, empty
	StatsPagesFetched = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_pages_fetched",
		Help:         "stats_pages_fetched provides total pages fetched for summarization",
		RequiredTags: []string{"status"},
	}
)

// Perf
var (
	PerfToolCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_tool_call",
		Help:         "perf_tool_call provides duration of tool call",
		RequiredTags: []string{"tool"},
	}

	PerfHTTPRequest = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_http_request",
		Help:         "perf_http_request provides duration of outbound request",
		RequiredTags: []string{"service"},
	}
)

// Metrics returns slice of metrics from this repo
// keep sorted by name
var Metrics = []*metrics.Describe{
	&PerfHTTPRequest,
	&PerfToolCall,
	&StatsHTTPRequestsFailed,
	&StatsPagesFetched,
	&StatsToolCallsFailed,
	&StatsToolCallsNotFound,
	&StatsToolCallsSucceeded,
}
