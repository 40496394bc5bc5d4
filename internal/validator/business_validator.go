package validator

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// BusinessValidator applies the school rules declared on SchoolCreateRequest
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()
	validate.RegisterTagNameFunc(jsonFieldName)

	bv := &BusinessValidator{validate: validate}
	if err := registerRules(validate, businessRules()); err != nil {
		panic(err)
	}

	return bv
}

// Validate validates any struct and reports every failing field
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateSchoolFields reports every failing field with its own reason.
// Used by the creation form so each input can be annotated.
func (bv *BusinessValidator) ValidateSchoolFields(req *SchoolCreateRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateSchoolCreate returns one rejection for the whole record: a joint presence
// check first, then the contact format, then the email format.
func (bv *BusinessValidator) ValidateSchoolCreate(req *SchoolCreateRequest) error {
	fieldErrors := bv.ValidateSchoolFields(req)
	if len(fieldErrors) == 0 {
		return nil
	}

	var missing ValidationErrors
	for _, fe := range fieldErrors {
		if fe.Rule == TagNotBlank {
			missing = append(missing, fe)
		}
	}
	if len(missing) > 0 {
		return &PolicyError{
			Kind:    ErrMissingField,
			Message: MsgAllFieldsRequired,
			Fields:  missing,
		}
	}

	first := fieldErrors[0]
	return &PolicyError{
		Kind:    ErrInvalidFormat,
		Message: first.Message,
		Fields:  ValidationErrors{first},
	}
}

// businessRules maps each custom tag used on SchoolCreateRequest to its check
func businessRules() map[string]validator.Func {
	return map[string]validator.Func{
		// Required text: empty or whitespace-only is missing
		TagNotBlank: validators.NotBlank,
		TagContact: func(fl validator.FieldLevel) bool {
			return IsValidContact(fl.Field().String())
		},
		TagEmail: func(fl validator.FieldLevel) bool {
			return IsValidEmail(fl.Field().String())
		},
	}
}

// registerRules registers every rule and fails on the first rejected tag
func registerRules(validate *validator.Validate, rules map[string]validator.Func) error {
	for tag, fn := range rules {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register validation %q: %w", tag, err)
		}
	}
	return nil
}

// ToValidationErrors converts go-playground errors into ValidationErrors ordered by SchoolRules
func ToValidationErrors(err error) ValidationErrors {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{Field: "request", Message: err.Error(), Rule: "invalid"}}
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: messageFor(fe.Field(), fe.Tag()),
			Rule:    fe.Tag(),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return ruleIndex(out[i].Field) < ruleIndex(out[j].Field)
	})
	return out
}

func messageFor(field, tag string) string {
	rule, ok := RuleFor(field)
	if !ok {
		return fmt.Sprintf("%s is invalid", field)
	}
	if tag == TagNotBlank || rule.FormatMessage == "" {
		return rule.RequiredMessage
	}
	return rule.FormatMessage
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}
