// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package to

import "testing"

func TestPtr(t *testing.T) {
	t.Parallel()

	v := "endpoint"
	p := Ptr(v)
	if p == nil || *p != v {
		t.Fatalf("Ptr(%q) returned %v", v, p)
	}
}

func TestValOrZero(t *testing.T) {
	t.Parallel()

	t.Run("nil pointer returns zero value", func(t *testing.T) {
		t.Parallel()

		var ptr *int
		if got := ValOrZero(ptr); got != 0 {
			t.Fatalf("ValOrZero(nil) = %d, want 0", got)
		}
	})

	t.Run("non-nil pointer returns pointed value", func(t *testing.T) {
		t.Parallel()

		value := 42
		if got := ValOrZero(&value); got != value {
			t.Fatalf("ValOrZero(&%d) = %d, want %d", value, got, value)
		}
	})

	t.Run("nil string pointer returns empty string", func(t *testing.T) {
		t.Parallel()

		var ptr *string
		if got := ValOrZero(ptr); got != "" {
			t.Fatalf("ValOrZero(nil) = %q, want empty string", got)
		}
	})
}
