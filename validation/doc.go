// Package validation checks service input and configuration.
//
// Struct tag validation uses go-playground/validator and reports fields by
// their form, json or mapstructure name:
//
//	type SearchParams struct {
//	    Limit int `form:"limit" validate:"gte=0,lte=100"`
//	}
//	err := validation.Validate(params)
//
// Hand-written checks collect into a Validator:
//
//	v := validation.New()
//	v.OneOf("dir", dir, []string{"asc", "desc"})
//	err := v.Validate()
//
// Both return a validation AppError with a "fields" detail, or nil.
package validation
