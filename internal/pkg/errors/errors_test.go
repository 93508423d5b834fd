package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestKind(t *testing.T) {
	cases := []struct {
		err  error
		want error
	}{
		{fmt.Errorf("load chapter 7: %w", ErrNotFound), ErrNotFound},
		{fmt.Errorf("count: %w", ErrInvalidArgument), ErrInvalidArgument},
		{fmt.Errorf("open: %w", fmt.Errorf("zip: %w", ErrParse)), ErrParse},
		{fmt.Errorf("upsert: %w", ErrServiceUnavailable), ErrServiceUnavailable},
		{errors.New("boom"), nil},
		{nil, nil},
	}
	for _, tc := range cases {
		if got := Kind(tc.err); got != tc.want {
			t.Fatalf("Kind(%v): got=%v want=%v", tc.err, got, tc.want)
		}
	}
}
