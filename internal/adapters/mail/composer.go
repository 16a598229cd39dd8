package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/easysewa/booking-service/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Message is a rendered email ready for delivery.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Composer renders the transactional email templates.
type Composer struct {
	frontendURL  string
	verification *template.Template
	approval     *template.Template
	booking      *template.Template
	nowFn        func() time.Time
}

func NewComposer(frontendURL string) (*Composer, error) {
	parse := func(name string) (*template.Template, error) {
		tpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		return tpl, nil
	}
	verification, err := parse("verification.html")
	if err != nil {
		return nil, err
	}
	approval, err := parse("approval.html")
	if err != nil {
		return nil, err
	}
	booking, err := parse("booking.html")
	if err != nil {
		return nil, err
	}
	return &Composer{
		frontendURL:  strings.TrimRight(frontendURL, "/"),
		verification: verification,
		approval:     approval,
		booking:      booking,
		nowFn:        time.Now,
	}, nil
}

func (c *Composer) Verification(user domain.User, verifyURL string) (Message, error) {
	body, err := c.render(c.verification, map[string]any{
		"Name": user.Name,
		"URL":  verifyURL,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{To: user.Email, Subject: "Verify Your EasySewa Account", HTML: body}, nil
}

func (c *Composer) OwnerApproval(owner domain.User, approved bool) (Message, error) {
	subject := "Bus Owner Account Status Update"
	if approved {
		subject = "Your Bus Owner Account Has Been Approved!"
	}
	body, err := c.render(c.approval, map[string]any{
		"Name":     owner.Name,
		"Approved": approved,
		"URL":      c.frontendURL + "/owner/dashboard",
	})
	if err != nil {
		return Message{}, err
	}
	return Message{To: owner.Email, Subject: subject, HTML: body}, nil
}

func (c *Composer) BookingNotification(owner domain.UserSummary, b domain.Booking) (Message, error) {
	data := map[string]any{
		"Name":      owner.Name,
		"Seats":     b.Seats,
		"Total":     b.TotalAmount.StringFixed(2),
		"BookingID": b.BookingID.String(),
		"URL":       c.frontendURL + "/owner/bookings",
	}
	route := ""
	if b.Schedule != nil {
		data["From"] = b.Schedule.From
		data["To"] = b.Schedule.To
		data["Date"] = b.Schedule.Date.Format(domain.DateLayout)
		data["Departure"] = b.Schedule.DepartureTime
		route = b.Schedule.From + " to " + b.Schedule.To
	}
	if b.Bus != nil {
		data["BusName"] = b.Bus.BusName
		data["BusNumber"] = b.Bus.BusNumber
	}
	body, err := c.render(c.booking, data)
	if err != nil {
		return Message{}, err
	}
	subject := "New booking received"
	if route != "" {
		subject += ": " + route
	}
	return Message{To: owner.Email, Subject: subject, HTML: body}, nil
}

func (c *Composer) render(tpl *template.Template, data map[string]any) (string, error) {
	data["Year"] = c.nowFn().Year()
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
