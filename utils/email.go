package utils

import (
	"crypto/tls"
	"errors"
	"net/smtp"
	"os"
	"strings"

	"github.com/jordan-wright/email"
)

// SendActivateMail sends the account activation email.
func SendActivateMail(to, link string) error {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	from := os.Getenv("SMTP_FROM")
	if host == "" || port == "" || user == "" || pass == "" || from == "" {
		return errors.New("smtp config missing")
	}

	e := email.NewEmail()
	e.From = from
	e.To = []string{to}
	e.Subject = "Activate your NetVault account"
	e.HTML = []byte(strings.Join([]string{
		"<p>Welcome to NetVault.</p>",
		"<p>Click the link below to activate your account. The link is valid for 10 minutes.</p>",
		`<p><a href="` + link + `">` + link + `</a></p>`,
	}, "\n"))

	addr := host + ":" + port
	auth := smtp.PlainAuth("", user, pass, host)
	if port == "465" {
		return e.SendWithTLS(addr, auth, &tls.Config{ServerName: host})
	}
	return e.Send(addr, auth)
}
