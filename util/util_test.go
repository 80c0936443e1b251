package util_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tessellated-io/conveyor/util"
)

func TestParseAmount(t *testing.T) {
	amount, err := util.ParseAmount(" 100 ")
	require.NoError(t, err)
	assert.Equal(t, "100", amount.String())

	for _, bad := range []string{"1.5", "-3", "abc", ""} {
		_, err := util.ParseAmount(bad)
		assert.Error(t, err, bad)
	}
}

func TestInterfaceToError(t *testing.T) {
	sentinel := errors.New("boom")
	assert.Equal(t, sentinel, util.InterfaceToError(sentinel))
	assert.EqualError(t, util.InterfaceToError("text"), "text")
	assert.EqualError(t, util.InterfaceToError(42), "recovered from a panic: 42")
}

func TestRecoverInto(t *testing.T) {
	sentinel := errors.New("boom")

	run := func() (err error) {
		defer util.RecoverInto(&err)
		panic(sentinel)
	}

	err := run()
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
}
