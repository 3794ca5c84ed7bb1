package notify

import (
	"fmt"
	"net/smtp"
	"os"
)

// RecipientLookup resolves a user id to a deliverable address.
type RecipientLookup func(userID uint) (email, username string, err error)

// EmailSender renders notification kinds into plain-text emails and
// delivers them over SMTP.
func EmailSender(lookup RecipientLookup) Sender {
	return func(req Request) error {
		email, username, err := lookup(req.UserID)
		if err != nil {
			return fmt.Errorf("resolve recipient for user %d: %w", req.UserID, err)
		}

		subject, body := renderEmail(req, username)
		return sendMail(email, subject, body)
	}
}

func renderEmail(req Request, username string) (subject, body string) {
	switch req.Kind {
	case KindWelcome:
		subject = "Welcome to the newsletter platform!"
		body = fmt.Sprintf("Hello %s,\n\nWelcome aboard! Your account is ready and premium newsletters are now at your fingertips.", username)
	case KindSubscriptionConfirmed:
		tier := req.Data["tier"]
		if tier == "" {
			tier = "premium"
		}
		subject = "Subscription Confirmed"
		body = fmt.Sprintf("Hello %s,\n\nYour %s subscription is active. Enjoy full access to all premium newsletters.", username, tier)
	case KindPaymentFailed:
		subject = "Payment Failed"
		body = fmt.Sprintf("Hello %s,\n\nWe couldn't process your latest payment. Please update your payment method within 3 days to keep premium access.", username)
	case KindCancelled:
		subject = "Subscription Cancelled"
		body = fmt.Sprintf("Hello %s,\n\nYour premium subscription has been cancelled. You'll keep access until the end of the current billing period. You can resubscribe at any time.", username)
	default:
		subject = "Notification"
		body = fmt.Sprintf("Hello %s,\n\nYou have a new notification from the newsletter platform.", username)
	}
	return subject, body
}

func sendMail(to string, subject string, body string) error {
	from := os.Getenv("SMTP_FROM")
	password := os.Getenv("SMTP_PASSWORD")
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")

	var auth smtp.Auth
	if from != "" && password != "" {
		auth = smtp.PlainAuth("", from, password, host)
	}

	message := []byte("Subject: " + subject + "\r\n" +
		"From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body + "\r\n")

	err := smtp.SendMail(host+":"+port, auth, from, []string{to}, message)
	if err != nil {
		fmt.Println("❌ SMTP error:", err)
	}
	return err
}
