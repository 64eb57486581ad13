package binder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveNestedMethod(t *testing.T) {
	addMany := Command{Name: "add_many"}
	table := Table{
		"nested": {Children: Table{
			"add_many": {Command: &addMany},
		}},
	}

	got, rpcErr := Resolve(table, []string{"nested", "add_many"}, "nested.add_many")
	require.Nil(t, rpcErr)
	assert.Equal(t, "add_many", got.Name)
}

func TestResolveMissingSegment(t *testing.T) {
	table := Table{"nested": {Children: Table{}}}
	_, rpcErr := Resolve(table, []string{"nested", "missing"}, "nested.missing")
	require.NotNil(t, rpcErr)
	assert.EqualValues(t, -32601, rpcErr.Code)
	assert.Equal(t, "nested.missing", rpcErr.Data)
}
