// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package checker

import (
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
)

// Validator is a struct that holds a list of checks to be performed.
type Validator struct {
	checks []ValidatorCheck
	out    io.Writer // destination for check progress messages, nil suppresses them
}

// ValidatorCheck is a struct that holds the name and function of a check to be performed.
// The function should return an error if the check fails.
// Use closures to capture the context of the check, such as the library or plan under test.
type ValidatorCheck struct {
	name string
	f    ValidateFunc
}

// NewValidatorCheck creates a new ValidatorCheck with the given name and function.
func NewValidatorCheck(name string, f ValidateFunc) ValidatorCheck {
	return ValidatorCheck{
		name: name,
		f:    f,
	}
}

// ValidateFunc is a function type that returns an error if the validation fails.
type ValidateFunc func() error

// NewValidator creates a new Validator with the given checks.
// Progress messages go to stdout, use WithOutput to redirect them.
func NewValidator(c ...ValidatorCheck) Validator {
	return Validator{
		checks: c,
		out:    os.Stdout,
	}
}

// NewValidatorQuiet creates a new Validator with the given checks, which suppresses check start/finish messages.
func NewValidatorQuiet(c ...ValidatorCheck) Validator {
	return Validator{
		checks: c,
	}
}

// WithOutput returns a Validator that writes check progress messages to w.
func (v Validator) WithOutput(w io.Writer) Validator {
	v.out = w
	return v
}

// AddChecks adds additional checks to the Validator.
func (v Validator) AddChecks(c ...ValidatorCheck) Validator {
	v.checks = append(v.checks, c...)
	return v
}

// Validate runs all the checks in the Validator.
// All checks run, failures are accumulated into the returned error.
func (v Validator) Validate() error {
	var errs error

	for _, c := range v.checks {
		if v.out != nil {
			io.WriteString(v.out, "==> Starting check: "+c.name+"\n") // nolint: errcheck
		}

		if err := c.f(); err != nil {
			errs = multierror.Append(errs, err)
		}

		if v.out != nil {
			io.WriteString(v.out, "==> Finished check: "+c.name+"\n") // nolint: errcheck
		}
	}

	return errs
}
