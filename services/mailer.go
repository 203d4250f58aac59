package services

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"github.com/antonkhv/shop-app/models"
	"github.com/antonkhv/shop-app/utils"
)

// Mailer sends the new-order summary to the shop operator over SMTP.
type Mailer struct {
	host string
	port string
	user string
	pass string
	to   string
}

func NewMailerFromEnv() *Mailer {
	m := &Mailer{
		host: os.Getenv("SMTP_HOST"),
		port: os.Getenv("SMTP_PORT"),
		user: os.Getenv("SMTP_USER"),
		pass: os.Getenv("SMTP_PASS"),
		to:   os.Getenv("ORDER_EMAIL_TO"),
	}
	if m.port == "" {
		m.port = "587"
	}
	if m.to == "" {
		m.to = m.user
	}
	return m
}

func (m *Mailer) configured() bool {
	return m.host != "" && m.user != "" && m.pass != ""
}

// NotifyOrder sends the order summary. When SMTP is not configured it
// only logs the order locally, which is a success as far as the caller
// is concerned.
func (m *Mailer) NotifyOrder(order models.Order, items []models.OrderItem) error {
	if !m.configured() {
		utils.InfoLogger.Printf("mail not configured, order #%d from %q logged only", order.ID, order.ShopName)
		return nil
	}

	subject := fmt.Sprintf("New order #%d from %s", order.ID, order.ShopName)
	body := buildOrderMailBody(order, items)

	message := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/plain; charset=\"UTF-8\";\r\n\r\n%s",
		m.user, m.to, subject, body,
	)

	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	if err := smtp.SendMail(m.host+":"+m.port, auth, m.user, []string{m.to}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send order mail: %w", err)
	}

	utils.InfoLogger.Printf("order mail sent for order #%d", order.ID)
	return nil
}

func buildOrderMailBody(order models.Order, items []models.OrderItem) string {
	var b strings.Builder

	fmt.Fprintf(&b, "New order #%d\n\n", order.ID)
	fmt.Fprintf(&b, "Shop: %s\n", order.ShopName)
	fmt.Fprintf(&b, "Phone: %s\n", orDash(order.Phone))
	fmt.Fprintf(&b, "Email: %s\n\n", orDash(order.Email))

	b.WriteString("Items:\n")
	for _, item := range items {
		fmt.Fprintf(&b, "  product #%d - %d x %s\n", item.ProductID, item.Quantity, utils.FormatAmount(item.Price))
	}

	fmt.Fprintf(&b, "\nTotal: %s\n", utils.FormatAmount(order.TotalAmount))
	fmt.Fprintf(&b, "Placed at: %s\n", order.CreatedAt.Format("2006-01-02 15:04:05"))

	return b.String()
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "not provided"
	}
	return *s
}
