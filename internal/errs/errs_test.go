package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExitCodeMapping(t *testing.T) {
	require.Equal(t, 2, Infeasible.ExitCode())
	require.Equal(t, 3, Timeout.ExitCode())
	require.Equal(t, 4, EmitterFailure.ExitCode())
	require.Equal(t, 5, ConfigInvalid.ExitCode())
	require.Equal(t, 1, InputMissing.ExitCode())
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(cause, EmitterFailure, "writing output")

	require.Equal(t, EmitterFailure, err.Code)
	require.ErrorIs(t, err, cause)
}

func TestWrapNilReturnsNil(t *testing.T) {
	require.Nil(t, Wrap(nil, EmitterFailure, "unused"))
}

func TestAsExtractsTypedError(t *testing.T) {
	var target *Error
	wrapped := New(Infeasible, "no feasible schedule")
	require.True(t, As(wrapped, &target))
	require.Equal(t, Infeasible, target.Code)
}

func TestCodeOfReturnsEmptyForPlainError(t *testing.T) {
	require.Equal(t, Code(""), CodeOf(errors.New("plain")))
}

func TestCloneOverridesMessage(t *testing.T) {
	orig := New(Timeout, "original")
	clone := Clone(orig, "overridden")
	require.Equal(t, "overridden", clone.Message)
	require.Equal(t, Timeout, clone.Code)
}
