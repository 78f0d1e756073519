// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package assets

import "fmt"

var _ error = (*ErrMissingField)(nil)
var _ error = (*ErrResourceTypeMismatch)(nil)

// ErrMissingField is an error type that indicates a required field is empty.
type ErrMissingField struct {
	Subject string
	Field   string
}

// Error implements the error interface for type ErrMissingField.
func (e *ErrMissingField) Error() string {
	return fmt.Sprintf("%s is missing required field '%s'", e.Subject, e.Field)
}

// NewErrMissingField creates a new ErrMissingField error.
func NewErrMissingField(subject, field string) error {
	return &ErrMissingField{Subject: subject, Field: field}
}

// ErrResourceTypeMismatch is an error type that indicates a resource ID
// does not have the expected ARM resource type.
type ErrResourceTypeMismatch struct {
	ResourceID string
	Expected   string
	Actual     string
}

// Error implements the error interface for type ErrResourceTypeMismatch.
func (e *ErrResourceTypeMismatch) Error() string {
	return fmt.Sprintf("resource '%s' has type '%s', expected '%s'",
		e.ResourceID, e.Actual, e.Expected)
}

// NewErrResourceTypeMismatch creates a new ErrResourceTypeMismatch error.
func NewErrResourceTypeMismatch(resourceID, expected, actual string) error {
	return &ErrResourceTypeMismatch{
		ResourceID: resourceID,
		Expected:   expected,
		Actual:     actual,
	}
}
