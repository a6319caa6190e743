package tools

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Result keys present in results of all tools
const (
	KeyFormattedAnswer = "formatted_answer"
	KeyError           = "error"
)

// Result is the outcome of a tool invocation.
// It always contains KeyFormattedAnswer.
type Result map[string]any

// NewResult returns result with the answer
func NewResult(answer string) Result {
	return Result{KeyFormattedAnswer: answer}
}

// ErrorResult returns failed result with the displayable answer
func ErrorResult(answer string, err error) Result {
	r := NewResult(answer)
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	r[KeyError] = msg
	return r
}

// With sets the value and returns the result
func (r Result) With(key string, val any) Result {
	r[key] = val
	return r
}

// FormattedAnswer returns the text to display in chat
func (r Result) FormattedAnswer() string {
	s, _ := r[KeyFormattedAnswer].(string)
	return s
}

// ErrorMessage returns the error, or empty string on success
func (r Result) ErrorMessage() string {
	switch v := r[KeyError].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Failed returns true if the result has error
func (r Result) Failed() bool {
	return r.ErrorMessage() != ""
}

// Resulter is implemented by tool responses
type Resulter interface {
	Result() Result
}

// Failure is an error carrying the displayable answer,
// and optional fields of the failed result.
type Failure struct {
	Answer string
	Fields map[string]any
	Err    error
}

// Fail returns Failure with the answer
func Fail(answer string, err error) *Failure {
	if err == nil {
		err = errors.New(answer)
	}
	return &Failure{Answer: answer, Err: err}
}

// WithField sets field of the failed result
func (f *Failure) WithField(key string, val any) *Failure {
	if f.Fields == nil {
		f.Fields = map[string]any{}
	}
	f.Fields[key] = val
	return f
}

func (f *Failure) Error() string {
	return f.Err.Error()
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Result returns the failed result
func (f *Failure) Result() Result {
	r := ErrorResult(f.Answer, f.Err)
	for k, v := range f.Fields {
		if k != KeyFormattedAnswer && k != KeyError {
			r[k] = v
		}
	}
	return r
}
