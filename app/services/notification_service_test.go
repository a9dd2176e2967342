package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestShouldSendOfflineEmail(t *testing.T) {
	// Only the very first message of a match, while the recipient is
	// offline, triggers the email fallback
	assert.True(t, ShouldSendOfflineEmail(false, 0))

	assert.False(t, ShouldSendOfflineEmail(true, 0), "recipient online")
	assert.False(t, ShouldSendOfflineEmail(false, 1), "not the first message")
	assert.False(t, ShouldSendOfflineEmail(false, 42))
	assert.False(t, ShouldSendOfflineEmail(true, 5))
}

func TestBuildFirstMessageEmail(t *testing.T) {
	email := BuildFirstMessageEmail("to@example.com", "Alex", "Hey, want to trade guitar lessons for Spanish?")

	assert.Equal(t, "to@example.com", email.To)
	assert.Contains(t, email.Subject, "Alex")
	assert.Contains(t, email.TextBody, "Hey, want to trade guitar lessons for Spanish?")
	assert.Contains(t, email.HTMLBody, "<strong>Alex</strong>")
}

func TestBuildFirstMessageEmailTruncatesPreview(t *testing.T) {
	long := strings.Repeat("a", 500)
	email := BuildFirstMessageEmail("to@example.com", "Alex", long)

	assert.NotContains(t, email.TextBody, long)
	assert.Contains(t, email.TextBody, strings.Repeat("a", 120)+"…")
}

func TestBuildFirstMessageEmailTruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("é", 300)
	email := BuildFirstMessageEmail("to@example.com", "Alex", long)

	assert.True(t, utf8.ValidString(email.TextBody))
	assert.True(t, utf8.ValidString(email.HTMLBody))
	assert.Contains(t, email.TextBody, strings.Repeat("é", 120)+"…")
	assert.NotContains(t, email.TextBody, strings.Repeat("é", 121))
}

func TestBuildMIMEMessage(t *testing.T) {
	raw := string(buildMIMEMessage("from@example.com", EmailMessage{
		To:       "to@example.com",
		Subject:  "Hello",
		TextBody: "plain text",
		HTMLBody: "<p>html</p>",
	}))

	assert.Contains(t, raw, "From: from@example.com")
	assert.Contains(t, raw, "To: to@example.com")
	assert.Contains(t, raw, "Subject: Hello")
	assert.Contains(t, raw, "Content-Type: multipart/alternative")
	assert.Contains(t, raw, "plain text")
	assert.Contains(t, raw, "<p>html</p>")
}
