package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTopics(t *testing.T) {
	assert.Equal(t, []string{"gallery", "siteStatus"}, parseTopics("gallery, siteStatus"))
	assert.Equal(t, []string{"stories"}, parseTopics("stories,bogus"))
	assert.Nil(t, parseTopics(""))
	assert.Nil(t, parseTopics("chat,admin"))
}

func TestParseTopicsNotificationForm(t *testing.T) {
	got := parseTopics("notifications:Alice:dev-a,notifications:broken")
	assert.Equal(t, []string{"notifications:Alice:dev-a"}, got)
}
