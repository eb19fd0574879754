package processor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShareURL(t *testing.T) {
	payload := "v2.c2FsdA.aXY.Y2lwaGVy-_"
	assert.Equal(t, "https://example.com/report#report="+payload, ShareURL("https://example.com/report", payload))
	assert.Equal(t, "https://example.com/report#report="+payload, ShareURL("https://example.com/report#old", payload))
}

func TestParseShareFragment(t *testing.T) {
	payload := "v2.c2FsdA.aXY.Y2lwaGVy-_"

	assert.Equal(t, payload, ParseShareFragment(payload))
	assert.Equal(t, payload, ParseShareFragment(" "+payload+"\n"))
	assert.Equal(t, payload, ParseShareFragment("#report="+payload))
	assert.Equal(t, payload, ParseShareFragment("report="+payload))
	assert.Equal(t, payload, ParseShareFragment(ShareURL("https://example.com/report", payload)))

	// Percent-encoded by a browser or chat client
	encoded := strings.ReplaceAll(payload, ".", "%2E")
	assert.Equal(t, payload, ParseShareFragment("https://example.com/report#report="+encoded))
	assert.Equal(t, payload, ParseShareFragment(encoded))
}
