package tools

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/bububa/ljson"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/plagness/NikaBot/pkg/llmutils"
	"github.com/tidwall/gjson"
)

// ErrFailedUnmarshalInput is returned when the arguments do not match the schema
var ErrFailedUnmarshalInput = errors.New("failed to unmarshal input: check the schema and try again")

var validate = validator.New()

// DecodeArgs decodes the function arguments into the request struct and validates it.
// Values are decoded with lenient JSON, tolerating LLM quirks in scalar types,
// while a list or an object given for a scalar field is rejected.
func DecodeArgs(args map[string]any, req any) error {
	if args == nil {
		args = map[string]any{}
	}
	if err := checkKinds(args, reflect.TypeOf(req)); err != nil {
		return errors.Mark(errors.Wrap(err, ErrFailedUnmarshalInput.Error()), ErrFailedUnmarshalInput)
	}
	js, err := json.Marshal(args)
	if err != nil {
		return errors.Mark(errors.Wrap(err, "failed to encode arguments"), ErrFailedUnmarshalInput)
	}
	if err = ljson.Unmarshal(js, req); err != nil {
		return errors.Mark(errors.Wrap(err, ErrFailedUnmarshalInput.Error()), ErrFailedUnmarshalInput)
	}
	if err = validate.Struct(req); err != nil {
		return errors.Mark(errors.Wrap(err, "invalid arguments"), ErrFailedUnmarshalInput)
	}
	return nil
}

// ParseArgs parses JSON arguments produced by LLM,
// tolerating code fences and surrounding prose.
// Empty input produces empty arguments, anything but a JSON object is an error.
func ParseArgs(input string) (map[string]any, error) {
	args := map[string]any{}
	if strings.TrimSpace(input) == "" {
		return args, nil
	}
	data := llmutils.CleanJSON([]byte(input))
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return nil, errors.Mark(errors.Newf("%s: arguments must be a JSON object", ErrFailedUnmarshalInput.Error()), ErrFailedUnmarshalInput)
	}
	if err := ljson.Unmarshal(data, &args); err != nil {
		return nil, errors.Mark(errors.Wrap(err, ErrFailedUnmarshalInput.Error()), ErrFailedUnmarshalInput)
	}
	return args, nil
}

// checkKinds verifies that composite values are only given for
// fields of a matching kind: lists for slices, objects for structs and maps.
func checkKinds(args map[string]any, typ reflect.Type) error {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil
	}

	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if !f.IsExported() {
			continue
		}
		name := fieldName(f)
		if name == "-" {
			continue
		}
		val, ok := args[name]
		if !ok || val == nil {
			continue
		}

		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Interface {
			continue
		}

		got := reflect.TypeOf(val).Kind()
		switch got {
		case reflect.Slice, reflect.Array:
			if ft.Kind() != reflect.Slice && ft.Kind() != reflect.Array {
				return errors.Newf("%q: list is given for %s", name, ft.Kind())
			}
		case reflect.Map, reflect.Struct:
			if ft.Kind() != reflect.Map && ft.Kind() != reflect.Struct {
				return errors.Newf("%q: object is given for %s", name, ft.Kind())
			}
			if nested, ok := val.(map[string]any); ok && ft.Kind() == reflect.Struct {
				if err := checkKinds(nested, ft); err != nil {
					return err
				}
			}
		default:
			if ft.Kind() == reflect.Slice || ft.Kind() == reflect.Map || ft.Kind() == reflect.Struct {
				return errors.Newf("%q: scalar is given for %s", name, ft.Kind())
			}
		}
	}
	return nil
}

func fieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" {
		return f.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return f.Name
	}
	return name
}
