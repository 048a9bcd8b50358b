package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (e *ValidationErrors) Error() string {
	var msgs []string
	for _, err := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(msgs, "; ")
}

// Errors accumulates field violations for one payload. The zero value is
// ready to use.
type Errors struct {
	list []ValidationError
}

func (e *Errors) Add(field, message string) {
	e.list = append(e.list, ValidationError{Field: field, Message: message})
}

// Err returns nil when nothing was recorded, otherwise *ValidationErrors.
func (e *Errors) Err() error {
	if len(e.list) == 0 {
		return nil
	}
	return &ValidationErrors{Errors: e.list}
}

// Merge appends the violations of err when it is a *ValidationErrors, prefixing
// their fields with prefix. Other non-nil errors are recorded against prefix.
func (e *Errors) Merge(prefix string, err error) {
	if err == nil {
		return
	}
	ve := GetValidationErrors(err)
	if ve == nil {
		e.Add(prefix, err.Error())
		return
	}
	for _, v := range ve.Errors {
		field := prefix
		if v.Field != "" && v.Field != "(root)" {
			field = prefix + "." + v.Field
		}
		e.list = append(e.list, ValidationError{Field: field, Message: v.Message})
	}
}

func (e *Errors) NotBlank(field, value string) {
	if strings.TrimSpace(value) == "" {
		e.Add(field, "cannot be empty")
	}
}

func (e *Errors) Matches(field, value string, re *regexp.Regexp, message string) {
	if !re.MatchString(value) {
		e.Add(field, message)
	}
}

// Vocabulary is a closed string type that knows its members.
type Vocabulary interface {
	~string
	Valid() bool
}

// OneOf checks membership in a closed vocabulary. allowed only feeds the
// error message.
func OneOf[T Vocabulary](e *Errors, field string, value T, allowed []T) {
	if value.Valid() {
		return
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	e.Add(field, fmt.Sprintf("must be one of %s", strings.Join(names, ", ")))
}

// NotAfter rejects instants strictly later than now. Equal instants pass.
func (e *Errors) NotAfter(field string, value, now time.Time, message string) {
	if value.After(now) {
		e.Add(field, message)
	}
}

// MinTrimmedLength counts characters, not bytes, after trimming whitespace.
func (e *Errors) MinTrimmedLength(field, value string, min int, message string) {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < min {
		e.Add(field, message)
	}
}

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) Validate(data interface{}, schema map[string]interface{}) error {
	if schema == nil || len(schema) == 0 {
		// No schema defined, allow any data
		return nil
	}

	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return err
	}

	var dataJSON []byte
	if raw, ok := data.(json.RawMessage); ok {
		dataJSON = raw
	} else if dataJSON, err = json.Marshal(data); err != nil {
		return err
	}

	schemaLoader := gojsonschema.NewBytesLoader(schemaJSON)
	documentLoader := gojsonschema.NewBytesLoader(dataJSON)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return err
	}

	if !result.Valid() {
		var validationErrors []ValidationError
		for _, desc := range result.Errors() {
			validationErrors = append(validationErrors, ValidationError{
				Field:   desc.Field(),
				Message: desc.Description(),
			})
		}
		return &ValidationErrors{Errors: validationErrors}
	}

	return nil
}

func IsValidationError(err error) bool {
	var ve *ValidationErrors
	return errors.As(err, &ve)
}

func GetValidationErrors(err error) *ValidationErrors {
	var ve *ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
