package mail

import (
	"strings"
	"testing"
)

func TestValidationMessage(t *testing.T) {
	subject, textBody, htmlBody := ValidationMessage("https://app.example.com", "tok123", "alice")

	if subject != "Validate your account" {
		t.Fatalf("unexpected subject: %q", subject)
	}

	link := "https://app.example.com/validate?token=tok123&username=alice"
	if !strings.Contains(textBody, link) {
		t.Fatalf("text body missing link: %q", textBody)
	}
	if !strings.Contains(htmlBody, link) {
		t.Fatalf("html body missing link: %q", htmlBody)
	}
}

func TestValidationMessage_EscapesQueryValues(t *testing.T) {
	// JWTs carry no spaces, but usernames may carry anything.
	_, textBody, _ := ValidationMessage("https://app.example.com", "a.b.c", "an on&off user")

	if strings.Contains(textBody, "an on&off user") {
		t.Fatalf("username not escaped: %q", textBody)
	}
	if !strings.Contains(textBody, "username=an+on%26off+user") {
		t.Fatalf("expected escaped username in link: %q", textBody)
	}
}
