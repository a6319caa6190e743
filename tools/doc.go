// Package tools defines the contract of the chat tools callable by an LLM,
// the invocation result shape, and the registry used to dispatch a
// function call by name.
//
// A tool never returns Go errors to the orchestrator: every failure is
// reported as a Result with the "error" key set and a displayable
// "formatted_answer".
package tools
