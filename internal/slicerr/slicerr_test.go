package slicerr

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByKind(t *testing.T) {
	err := Wrap(KindNetwork, "profiles.LoadIndex", "/profiles/index.json", io.ErrUnexpectedEOF)

	assert.ErrorIs(t, err, ErrNetwork)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	wrapped := fmt.Errorf("startup: %w", err)
	assert.ErrorIs(t, wrapped, ErrNetwork)
	assert.Equal(t, KindNetwork, KindOf(wrapped))
}

func TestErrorString(t *testing.T) {
	err := New(KindNotFound, "profiles.LoadVendor", "Acme", "vendor is not in the index")
	assert.Equal(t, `profiles.LoadVendor: not found "Acme": vendor is not in the index`, err.Error())
	assert.Equal(t, "vendor is not in the index", Message(err))

	plain := errors.New("boom")
	assert.Equal(t, "boom", Message(plain))
	assert.Equal(t, KindUnknown, KindOf(plain))
}
