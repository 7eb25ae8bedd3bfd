package notify

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"grocery-deal-finder/models"
	"grocery-deal-finder/utils"
)

// EmailNotifier sends the deal summary as a multipart mail with HTML and
// plain-text alternatives.
type EmailNotifier struct {
	server    string
	port      string
	sender    string
	password  string
	recipient string
	logger    *utils.Logger
}

// NewEmailNotifier validates the SMTP settings and returns the notifier.
func NewEmailNotifier(server, port, sender, password, recipient string, logger *utils.Logger) (*EmailNotifier, error) {
	if sender == "" || recipient == "" {
		return nil, fmt.Errorf("email: sender and recipient required")
	}
	return &EmailNotifier{
		server:    server,
		port:      port,
		sender:    sender,
		password:  password,
		recipient: recipient,
		logger:    logger,
	}, nil
}

// Send delivers one summary mail for the run's new deals.
func (e *EmailNotifier) Send(deals []*models.Deal) error {
	if len(deals) == 0 {
		return nil
	}

	subject := fmt.Sprintf("🛍️ %d Double-Savings Deals Found!", len(deals))
	msg := e.buildMessage(subject, deals)

	auth := smtp.PlainAuth("", e.sender, e.password, e.server)
	addr := e.server + ":" + e.port

	if err := smtp.SendMail(addr, auth, e.sender, []string{e.recipient}, msg); err != nil {
		return fmt.Errorf("email: send: %w", err)
	}

	e.logger.Info("[email] Sent %d deals to %s", len(deals), e.recipient)
	return nil
}

// buildMessage assembles a multipart/alternative MIME message so clients
// without HTML rendering still get the plain-text list.
func (e *EmailNotifier) buildMessage(subject string, deals []*models.Deal) []byte {
	const boundary = "deal-summary-boundary"

	var b strings.Builder
	b.WriteString(fmt.Sprintf("From: %s\r\n", e.sender))
	b.WriteString(fmt.Sprintf("To: %s\r\n", e.recipient))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q\r\n", boundary))
	b.WriteString("\r\n")

	b.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(renderPlainText(deals))
	b.WriteString("\r\n")

	b.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(renderEmailHTML(deals))
	b.WriteString("\r\n")

	b.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	return []byte(b.String())
}

func renderEmailHTML(deals []*models.Deal) string {
	var b strings.Builder
	b.WriteString(`<html><body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`)
	b.WriteString(`<h1 style="color: #e31837;">🛍️ Double-Savings Alert!</h1>`)
	b.WriteString(fmt.Sprintf(
		`<p style="font-size: 18px;">Found <strong>%d deals</strong> with both sales AND digital coupons!<br>`+
			`💰 Total potential savings: <strong>$%.2f</strong></p>`,
		len(deals), totalSavings(deals)))

	for i, d := range deals {
		b.WriteString(`<div style="border: 1px solid #ddd; padding: 15px; margin: 10px 0; border-radius: 8px;">`)
		b.WriteString(fmt.Sprintf(`<h3 style="color: #e31837; margin: 0 0 10px 0;">%d. %s</h3>`,
			i+1, escapeHTML(d.ProductName)))
		b.WriteString(fmt.Sprintf(
			`<p style="margin: 5px 0;"><strong>Was:</strong> $%.2f · <strong>Sale:</strong> $%.2f · `+
				`<strong>After Coupon:</strong> $%.2f</p>`,
			d.OriginalPrice, d.SalePrice, d.FinalPrice))
		b.WriteString(fmt.Sprintf(
			`<p style="margin: 5px 0; color: #28a745;"><strong>💰 Save $%.2f (%.0f%% off)</strong></p>`,
			d.Savings, d.SavingsPercent))
		b.WriteString(fmt.Sprintf(
			`<p style="margin: 5px 0; font-size: 12px; color: #666;">🎫 %s<br>🏷️ %s</p>`,
			escapeHTML(d.CouponDescription), escapeHTML(d.SaleDescription)))
		b.WriteString(`</div>`)
	}

	b.WriteString(fmt.Sprintf(
		`<p style="text-align: center; color: #666; font-size: 12px;">Generated by grocery-deal-finder · %s</p>`,
		time.Now().Format("2006-01-02 15:04")))
	b.WriteString(`</body></html>`)
	return b.String()
}
