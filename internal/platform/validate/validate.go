// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate collects field-level input errors in the service layer and
// reports them as a single VALIDATION_ERROR [apperr.AppError].
package validate

import (
	"fmt"

	"github.com/taibuivan/mahamanga/internal/platform/apperr"
	"github.com/taibuivan/mahamanga/pkg/uuid"
)

// ErrInvalidJSON is returned when a request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Validator accumulates failures through a chainable API. Not safe for
// concurrent use; create one per operation.
type Validator struct {
	errs []apperr.FieldError
}

// UUID fails unless value is a canonical UUID.
func (v *Validator) UUID(field, value string) *Validator {
	if !uuid.IsValid(value) {
		v.add(field, "Must be a valid UUID")
	}
	return v
}

// MinIfSet fails when value is present and smaller than min. A nil value passes.
func (v *Validator) MinIfSet(field string, value *int, min int) *Validator {
	if value != nil && *value < min {
		v.add(field, fmt.Sprintf("Must be at least %d", min))
	}
	return v
}

// Err returns the collected failures, or nil when every rule passed.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}
