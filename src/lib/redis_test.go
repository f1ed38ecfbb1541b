package lib

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceCacheKey(t *testing.T) {
	assert.Equal(t, "services:42", ServiceCacheKey(42))
	assert.Equal(t, "services:0", ServiceCacheKey(0))
}
