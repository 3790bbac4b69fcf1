package mqtt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniqueClientID(t *testing.T) {
	a := uniqueClientID("relay")
	b := uniqueClientID("relay")
	assert.True(t, strings.HasPrefix(a, "relay-"))
	assert.Len(t, a, len("relay-")+8)
	assert.NotEqual(t, a, b)

	assert.True(t, strings.HasPrefix(uniqueClientID(""), "owl-withings-"))
}
