// Package validation validates configuration and process specs declared with
// `validate` struct tags and reports failures as *errors.AppError values.
package validation
