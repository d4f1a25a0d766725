package domain

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIs(t *testing.T) {
	err := WindowStateNotFound("windowstate.remove", "windows_7")

	assert.ErrorIs(t, err, ErrWindowStateNotFound)
	assert.NotErrorIs(t, err, ErrLockFailure)
	assert.ErrorIs(t, fmt.Errorf("open: %w", err), ErrWindowStateNotFound)
}

func TestErrorUnwrap(t *testing.T) {
	err := IOError("windowstate.flush", "/tmp/windows.json", io.ErrShortWrite)

	assert.ErrorIs(t, err, io.ErrShortWrite)
	assert.ErrorIs(t, err, ErrIO)
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "op and id",
			err:  WindowStateNotFound("windowstate.remove", "windows_7"),
			want: `winsession: windowstate.remove: window state not found "windows_7"`,
		},
		{
			name: "cause",
			err:  LockFailure("recents.add", errors.New("poisoned")),
			want: "winsession: recents.add: lock failure: poisoned",
		},
		{
			name: "kind only",
			err:  &Error{Kind: KindNoWindowCreated},
			want: "winsession: no window created",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestKindOf(t *testing.T) {
	require.Equal(t, KindSerialization, KindOf(fmt.Errorf("load: %w", SerializationError("decode", "recents", io.EOF))))
	require.Equal(t, KindWindowCreationFailed, KindOf(WindowCreationFailed("host.create", "windows_1", nil)))
	require.Equal(t, KindUnknown, KindOf(io.EOF))
	require.Equal(t, KindUnknown, KindOf(nil))
	assert.Equal(t, "unknown", Kind(99).String())
}
