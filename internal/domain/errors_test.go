package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestKind(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindInternal},
		{"unknown", errors.New("boom"), KindInternal},
		{"wrapped", fmt.Errorf("load: %w", ErrProjectNotFound), KindNotFound},
		{"joined", errors.Join(ErrCallbackFailed, ErrInvalidInput), KindValidation},
		{"joined reversed", errors.Join(ErrInvalidInput, ErrCallbackFailed), KindValidation},
		{"state and conflict", fmt.Errorf("%w: %w", ErrChainStateMismatch, ErrEscrowAlreadyBound), KindConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for i := 0; i < 50; i++ {
				if got := Kind(tc.err); got != tc.want {
					t.Fatalf("Kind(%v) = %d, want %d", tc.err, got, tc.want)
				}
			}
		})
	}
}
