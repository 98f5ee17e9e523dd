// Package validation checks task request bodies against embedded JSON schemas
// and turns them into use case inputs.
package validation

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/usecase"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	createSchema = "schemas/create.json"
	updateSchema = "schemas/update.json"
)

// schemaBaseURL namespaces the embedded schemas inside the compiler.
const schemaBaseURL = "https://taskboard.local/"

// requiredMessage is reported for a missing required field.
const requiredMessage = "Required"

// Error describes why a request body was rejected.
// FormErrors apply to the body as a whole, FieldErrors to a single property.
type Error struct {
	FieldErrors map[string][]string `json:"fieldErrors"`
	FormErrors  []string            `json:"formErrors"`
}

func (e *Error) Error() string {
	parts := slices.Clone(e.FormErrors)
	fields := make([]string, 0, len(e.FieldErrors))
	for field := range e.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(e.FieldErrors[field], "; "))
	}
	return "invalid request: " + strings.Join(parts, ", ")
}

func (e *Error) addField(field, msg string) {
	if e.FieldErrors == nil {
		e.FieldErrors = make(map[string][]string)
	}
	if slices.Contains(e.FieldErrors[field], msg) {
		return
	}
	e.FieldErrors[field] = append(e.FieldErrors[field], msg)
}

func (e *Error) empty() bool {
	return len(e.FormErrors) == 0 && len(e.FieldErrors) == 0
}

func newError() *Error {
	return &Error{FormErrors: []string{}, FieldErrors: map[string][]string{}}
}

type compiled struct {
	schema   *jsonschema.Schema
	required []string
}

var (
	compileOnce sync.Once
	schemas     map[string]compiled
	compileErr  error
)

// loadSchemas compiles both embedded schemas once.
func loadSchemas() (map[string]compiled, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft7
		compiler.AssertFormat = true

		out := make(map[string]compiled, 2)
		for _, name := range []string{createSchema, updateSchema} {
			data, err := schemaFS.ReadFile(name)
			if err != nil {
				compileErr = fmt.Errorf("read schema %s: %w", name, err)
				return
			}
			var doc struct {
				Required []string `json:"required"`
			}
			if err := json.Unmarshal(data, &doc); err != nil {
				compileErr = fmt.Errorf("parse schema %s: %w", name, err)
				return
			}
			if err := compiler.AddResource(schemaBaseURL+name, bytes.NewReader(data)); err != nil {
				compileErr = fmt.Errorf("add schema %s: %w", name, err)
				return
			}
			schema, err := compiler.Compile(schemaBaseURL + name)
			if err != nil {
				compileErr = fmt.Errorf("compile schema %s: %w", name, err)
				return
			}
			out[name] = compiled{schema: schema, required: doc.Required}
		}
		schemas = out
	})
	return schemas, compileErr
}

// DecodeCreate validates a create body and returns the use case input.
// Title and assignee are trimmed before their length is checked.
func DecodeCreate(body []byte) (usecase.NewTaskInput, error) {
	obj, err := validate(createSchema, body)
	if err != nil {
		return usecase.NewTaskInput{}, err
	}

	in := usecase.NewTaskInput{
		Title:    stringField(obj, "title"),
		Priority: domain.Priority(stringField(obj, "priority")),
		Assignee: stringField(obj, "assignee"),
	}
	if due, ok := obj["dueDate"].(string); ok {
		in.DueDate = &due
	}
	return in, nil
}

// DecodeUpdate validates a patch body and returns the use case input.
// The caller sets TaskID. An explicit null dueDate clears the due date.
func DecodeUpdate(body []byte) (usecase.EditTaskInput, error) {
	obj, err := validate(updateSchema, body)
	if err != nil {
		return usecase.EditTaskInput{}, err
	}

	var in usecase.EditTaskInput
	if v, ok := obj["title"].(string); ok {
		in.Title = &v
	}
	if v, ok := obj["status"].(string); ok {
		status := domain.Status(v)
		in.Status = &status
	}
	if v, ok := obj["priority"].(string); ok {
		priority := domain.Priority(v)
		in.Priority = &priority
	}
	if v, ok := obj["assignee"].(string); ok {
		in.Assignee = &v
	}
	if raw, ok := obj["dueDate"]; ok {
		if due, isString := raw.(string); isString {
			in.DueDate = &due
		} else {
			in.ClearDueDate = true
		}
	}
	return in, nil
}

// CreateFromFields validates a create document built outside of HTTP, such
// as from CLI flags.
func CreateFromFields(fields map[string]any) (usecase.NewTaskInput, error) {
	body, err := json.Marshal(fields)
	if err != nil {
		return usecase.NewTaskInput{}, fmt.Errorf("encode fields: %w", err)
	}
	return DecodeCreate(body)
}

// UpdateFromFields validates a patch document built outside of HTTP.
func UpdateFromFields(fields map[string]any) (usecase.EditTaskInput, error) {
	body, err := json.Marshal(fields)
	if err != nil {
		return usecase.EditTaskInput{}, fmt.Errorf("encode fields: %w", err)
	}
	return DecodeUpdate(body)
}

// validate decodes body, trims the free-text fields and checks the result.
func validate(name string, body []byte) (map[string]any, error) {
	all, err := loadSchemas()
	if err != nil {
		return nil, err
	}
	c := all[name]

	var doc any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		verr := newError()
		verr.FormErrors = append(verr.FormErrors, "Malformed JSON body")
		return nil, verr
	}

	obj, isObject := doc.(map[string]any)
	if isObject {
		trimField(obj, "title")
		trimField(obj, "assignee")
	}

	if err := c.schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return nil, fmt.Errorf("validate request: %w", err)
		}
		verr := newError()
		collect(verr, ve, obj, c.required)
		if verr.empty() {
			verr.FormErrors = append(verr.FormErrors, ve.Message)
		}
		return nil, verr
	}
	return obj, nil
}

// collect flattens the leaf causes of a schema error into verr.
func collect(verr *Error, ve *jsonschema.ValidationError, obj map[string]any, required []string) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collect(verr, cause, obj, required)
		}
		return
	}

	if strings.HasSuffix(ve.KeywordLocation, "/required") && obj != nil {
		for _, field := range required {
			if _, ok := obj[field]; !ok {
				verr.addField(field, requiredMessage)
			}
		}
		return
	}

	field := topLevelField(ve.InstanceLocation)
	if field == "" {
		verr.FormErrors = append(verr.FormErrors, ve.Message)
		return
	}
	verr.addField(field, ve.Message)
}

// topLevelField returns the first segment of a JSON pointer such as "/title".
func topLevelField(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if i := strings.IndexByte(ptr, '/'); i >= 0 {
		ptr = ptr[:i]
	}
	return ptr
}

func trimField(obj map[string]any, key string) {
	if s, ok := obj[key].(string); ok {
		obj[key] = strings.TrimSpace(s)
	}
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}
