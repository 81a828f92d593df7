// Package validation checks author and reader input before anything is stored.
package validation

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"go-blog-app/internal/data"
)

// Code is a machine-readable reason for a violation.
type Code string

const (
	CodeRequired         Code = "Required"
	CodeTooLong          Code = "TooLong"
	CodeInvalid          Code = "Invalid"
	CodeImageRequired    Code = "ImageRequired"
	CodeInvalidImageType Code = "InvalidImageType"
	CodeUnknownCategory  Code = "UnknownCategory"
	CodeDuplicate        Code = "Duplicate"
)

// ImageField is the field name image violations are reported on.
const ImageField = "featureImage"

// Violation is a single field-level validation failure.
type Violation struct {
	Field   string `json:"field"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// Error carries every violation found in one payload.
type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Field, v.Code))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Has reports whether a violation with the given code was recorded.
func (e *Error) Has(code Code) bool {
	for _, v := range e.Violations {
		if v.Code == code {
			return true
		}
	}
	return false
}

// NewError builds an *Error from violations, or returns nil when there are none.
func NewError(violations ...Violation) error {
	if len(violations) == 0 {
		return nil
	}
	return &Error{Violations: violations}
}

// Mode selects the image rules applied to a post.
type Mode int

const (
	// Create requires an image.
	Create Mode = iota
	// Edit accepts a missing image as "keep the current one".
	Edit
)

// Policy holds the rules. It has no side effects.
type Policy struct {
	validate          *validator.Validate
	allowedExtensions map[string]struct{}
}

// NewPolicy creates a Policy accepting images with the given extensions.
// Extensions are matched case-insensitively and may be given with or without a dot.
func NewPolicy(allowedExtensions []string) *Policy {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Whitespace-only text counts as missing.
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	// Report violations under the JSON names callers submit.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	allowed := make(map[string]struct{}, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = struct{}{}
	}

	return &Policy{validate: v, allowedExtensions: allowed}
}

// AllowedExtension reports whether fileName carries an allowed image extension.
func (p *Policy) AllowedExtension(fileName string) bool {
	_, ok := p.allowedExtensions[strings.ToLower(filepath.Ext(fileName))]
	return ok
}

// ValidatePost checks a post payload and its optional image.
func (p *Policy) ValidatePost(in data.PostInput, image *data.Upload, mode Mode) error {
	violations := p.fields(in)
	violations = append(violations, p.imageViolations(image, mode)...)
	return NewError(violations...)
}

// ValidateComment checks a comment payload.
func (p *Policy) ValidateComment(in data.CommentInput) error {
	return NewError(p.fields(in)...)
}

// ValidateCategory checks a category payload.
func (p *Policy) ValidateCategory(in data.CategoryInput) error {
	return NewError(p.fields(in)...)
}

func (p *Policy) imageViolations(image *data.Upload, mode Mode) []Violation {
	if image == nil {
		if mode == Create {
			return []Violation{{Field: ImageField, Code: CodeImageRequired, Message: "Feature image is required."}}
		}
		return nil
	}
	if !p.AllowedExtension(image.FileName) {
		return []Violation{{
			Field:   ImageField,
			Code:    CodeInvalidImageType,
			Message: fmt.Sprintf("Only %s files are allowed.", p.extensionList()),
		}}
	}
	return nil
}

func (p *Policy) extensionList() string {
	exts := make([]string, 0, len(p.allowedExtensions))
	for ext := range p.allowedExtensions {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return strings.Join(exts, ", ")
}

func (p *Policy) fields(s interface{}) []Violation {
	err := p.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []Violation{{Field: "", Code: CodeInvalid, Message: err.Error()}}
	}

	violations := make([]Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, toViolation(fe))
	}
	return violations
}

func toViolation(fe validator.FieldError) Violation {
	switch fe.Tag() {
	case "required", "notblank":
		return Violation{Field: fe.Field(), Code: CodeRequired, Message: fmt.Sprintf("The %s field is required.", fe.Field())}
	case "max":
		return Violation{Field: fe.Field(), Code: CodeTooLong, Message: fmt.Sprintf("The %s cannot exceed %s characters.", fe.Field(), fe.Param())}
	default:
		return Violation{Field: fe.Field(), Code: CodeInvalid, Message: fmt.Sprintf("The %s field is invalid.", fe.Field())}
	}
}
