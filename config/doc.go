// Package config provides the immutable settings of the tools: limits,
// timeouts and backends. It is loaded once at startup and passed to the
// tool constructors.
package config
