package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptions(t *testing.T) {
	opts := Options()
	assert.True(t, opts.SkipDefaultTransaction)
	assert.True(t, opts.TranslateError)
	assert.NotNil(t, opts.Logger)
}
