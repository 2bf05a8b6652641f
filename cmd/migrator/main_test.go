package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_validateFlags(t *testing.T) {
	assert.NoError(t, validateFlags(options{databaseURL: "postgres://localhost/catalog"}))
	assert.Error(t, validateFlags(options{}))
	assert.Error(t, validateFlags(options{databaseURL: "postgres://localhost/catalog", steps: -1}))
}
