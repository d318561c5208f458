package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelection(t *testing.T) {
	sel, err := parseSelection("", 4)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, sel)

	sel, err = parseSelection("0-2,5,7-8", 10)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 5, 7, 8}, sel)

	_, err = parseSelection("3-1", 10)
	assert.Error(t, err)
	_, err = parseSelection("a", 10)
	assert.Error(t, err)
	_, err = parseSelection("1-b", 10)
	assert.Error(t, err)
}
