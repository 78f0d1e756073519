// Copyright (c) Microsoft Corporation 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package errcheck

import "fmt"

var _ error = (*CheckerError)(nil)

type CheckerError struct {
	errs []error
}

func NewCheckerError() *CheckerError {
	return &CheckerError{
		errs: make([]error, 0),
	}
}

func (v *CheckerError) Add(err error) {
	if err == nil {
		return
	}
	v.errs = append(v.errs, err)
}

func (v *CheckerError) HasErrors() bool {
	return len(v.errs) > 0
}

func (v *CheckerError) Error() string {
	if len(v.errs) == 0 {
		panic("no errors")
	}
	return fmt.Sprintf("The following errors occurred: %v", v.errs)
}
