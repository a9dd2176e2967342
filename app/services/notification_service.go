package services

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"unicode/utf8"

	"skillswap/app/models"
	"skillswap/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// NotificationService sends the out-of-band email fallback for messages
// that arrive while the recipient has no live connection. All sends are
// best effort: failures are logged, never surfaced to the sender.
type NotificationService struct {
	usersCollection *mongo.Collection
}

// NewNotificationService creates a new notification service instance
func NewNotificationService(usersCollection *mongo.Collection) *NotificationService {
	return &NotificationService{
		usersCollection: usersCollection,
	}
}

// EmailMessage is the boundary contract of the email collaborator
type EmailMessage struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// ShouldSendOfflineEmail is the gate for the email fallback: only the
// very first message of a match, sent while the recipient is offline,
// triggers an email. Every later unread message relies on the in-app
// unread counters alone.
func ShouldSendOfflineEmail(recipientOnline bool, priorMessageCount int64) bool {
	return !recipientOnline && priorMessageCount == 0
}

// NotifyFirstMessage composes and sends the new-conversation email to the
// recipient. Intended to be called fire-and-forget.
func (n *NotificationService) NotifyFirstMessage(recipientID, senderID, preview string) {
	ctx := context.Background()

	var recipient models.User
	if err := n.usersCollection.FindOne(ctx, bson.M{"_id": recipientID}).Decode(&recipient); err != nil {
		log.Printf("⚠️ Offline email skipped, recipient %s not found: %v", recipientID, err)
		return
	}
	if recipient.Email == "" {
		log.Printf("⚠️ Offline email skipped, recipient %s has no email address", recipientID)
		return
	}

	var sender models.User
	senderName := "A skill-swap partner"
	if err := n.usersCollection.FindOne(ctx, bson.M{"_id": senderID}).Decode(&sender); err == nil && sender.Name != "" {
		senderName = sender.Name
	}

	email := BuildFirstMessageEmail(recipient.Email, senderName, preview)
	if err := n.SendEmail(email); err != nil {
		log.Printf("⚠️ Failed to send offline email to %s: %v", recipient.Email, err)
		return
	}
	log.Printf("📧 Offline email sent to %s", recipient.Email)
}

// BuildFirstMessageEmail renders the new-conversation notification email
func BuildFirstMessageEmail(to, senderName, preview string) EmailMessage {
	if utf8.RuneCountInString(preview) > 120 {
		preview = string([]rune(preview)[:120]) + "…"
	}

	return EmailMessage{
		To:      to,
		Subject: fmt.Sprintf("New message from %s on SkillSwap", senderName),
		TextBody: fmt.Sprintf(
			"%s sent you a message:\n\n%s\n\nOpen SkillSwap to reply.",
			senderName, preview),
		HTMLBody: fmt.Sprintf(
			"<p><strong>%s</strong> sent you a message:</p><blockquote>%s</blockquote><p>Open SkillSwap to reply.</p>",
			senderName, preview),
	}
}

// SendEmail delivers a message via SMTP as a multipart/alternative body
func (n *NotificationService) SendEmail(email EmailMessage) error {
	if email.To == "" {
		return fmt.Errorf("no recipient specified")
	}

	var auth smtp.Auth
	if config.SMTPUser != "" && config.SMTPPass != "" {
		auth = smtp.PlainAuth("", config.SMTPUser, config.SMTPPass, config.SMTPHost)
	}

	message := buildMIMEMessage(config.EmailFrom, email)
	addr := fmt.Sprintf("%s:%d", config.SMTPHost, config.SMTPPort)

	return smtp.SendMail(addr, auth, config.EmailFrom, []string{email.To}, message)
}

// buildMIMEMessage assembles the raw multipart/alternative payload
func buildMIMEMessage(from string, email EmailMessage) []byte {
	boundary := "skillswap-alt-boundary"

	var b strings.Builder
	b.WriteString(fmt.Sprintf("From: %s\r\n", from))
	b.WriteString(fmt.Sprintf("To: %s\r\n", email.To))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", email.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q\r\n", boundary))
	b.WriteString("\r\n")

	b.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(email.TextBody)
	b.WriteString("\r\n\r\n")

	if email.HTMLBody != "" {
		b.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
		b.WriteString(email.HTMLBody)
		b.WriteString("\r\n\r\n")
	}

	b.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	return []byte(b.String())
}
