// Package mail sends account emails (verification and password reset)
// over SMTP. Delivery is fire-and-forget from the caller's point of view;
// see Dispatcher.
package mail

import (
	"fmt"
	"strings"
)

const (
	verifySubject = "Verify Email Address"
	resetSubject  = "Reset Account Password"
)

// Message is a single outbound email. Body is preformatted text that may
// contain inline anchors; senders wrap it in <pre> for HTML delivery.
type Message struct {
	To      string
	ToName  string
	Subject string
	Body    string
}

// VerificationMessage builds the email that carries an account verification
// link for token.
func VerificationMessage(staticURL, to, token string) Message {
	return Message{
		To:      to,
		Subject: verifySubject,
		Body: "Hi!\n" +
			"We just need to verify your email address before you can use our app.\n" +
			"Verify your email address here:\n" +
			anchor(link(staticURL, "verify.html", token)),
	}
}

// ResetMessage builds the email that carries a password reset link for token.
func ResetMessage(staticURL, to, token string) Message {
	return Message{
		To:      to,
		Subject: resetSubject,
		Body: "Hi!\n" +
			"We just need to verify your email address before you can reset your password.\n" +
			"Reset your password here:\n" +
			anchor(link(staticURL, "reset.html", token)),
	}
}

func link(staticURL, page, token string) string {
	return fmt.Sprintf("%s/%s?token=%s", strings.TrimRight(staticURL, "/"), page, token)
}

func anchor(href string) string {
	return fmt.Sprintf("<a href=%q>%s</a>", href, href)
}
