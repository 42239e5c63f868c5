// internal/app/system/mailer/messages.go
package mailer

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/ekaahub/internal/app/system/routing"
	"github.com/dalemusser/ekaahub/internal/domain/models"
)

// Registration email families. A registration program picks the family
// whose templates it uses.
const (
	FamilySession = "session" // family-constellation session sign-ups
	FamilyICH     = "ich"     // hypnotherapy training
	FamilyAwaken  = "awaken"  // AWAKEN THE LIMITLESS HUMAN
	FamilyCourse  = "course"  // legacy course registration
	FamilyProgram = "program" // generic per-program templates
)

const (
	websiteURL   = "https://ekaausa.com"
	ichURL       = "https://ekaausa.com/ich"
	timeLayout   = "Jan 2, 2006 3:04 PM MST"
	paymentNote  = "Payment must be completed within 48 hours."
	secureYour   = "Please complete your payment to secure your spot:"
	receivedNote = "This registration was received on "
)

// Composer builds the notification emails for registrations and contact
// submissions.
type Composer struct {
	Routing    *routing.Table
	AdminEmail string
	ReplyTo    string
	Now        func() time.Time
}

func (c *Composer) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Composer) stamp() string {
	return c.now().UTC().Format(timeLayout)
}

func (c *Composer) routing() *routing.Table {
	if c.Routing == nil {
		c.Routing = routing.Default()
	}
	return c.Routing
}

// Registration returns the admin notification and the registrant
// confirmation for r. title names the program in generic templates.
func (c *Composer) Registration(family, title string, r models.Registration) (admin, user Email, err error) {
	switch family {
	case FamilySession:
		admin, err = c.sessionAdmin(r)
		if err == nil {
			user, err = c.sessionUser(r)
		}
	case FamilyICH:
		admin, err = c.ichAdmin(r)
		if err == nil {
			user, err = c.ichUser(r)
		}
	case FamilyAwaken:
		admin, err = c.awakenAdmin(r)
		if err == nil {
			user, err = c.awakenUser(r)
		}
	case FamilyCourse:
		admin, err = c.courseAdmin(r)
		if err == nil {
			user, err = c.courseUser(r)
		}
	case FamilyProgram:
		admin, err = c.programAdmin(title, r)
		if err == nil {
			user, err = c.programUser(title, r)
		}
	default:
		err = fmt.Errorf("mailer: unknown registration family %q", family)
	}
	return admin, user, err
}

func (c *Composer) build(kind string, to []string, cc []string, replyTo, subject string, m Message) (Email, error) {
	body, err := Render(m)
	if err != nil {
		return Email{}, fmt.Errorf("render %s: %w", kind, err)
	}
	return Email{
		Kind:     kind,
		To:       to,
		Cc:       cc,
		ReplyTo:  replyTo,
		Subject:  subject,
		HTMLBody: body,
	}, nil
}

// rows drops rows with empty values.
func rows(in ...Row) []Row {
	out := make([]Row, 0, len(in))
	for _, r := range in {
		if strings.TrimSpace(r.Value) != "" {
			out = append(out, r)
		}
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func phoneOf(r models.Registration) string {
	return firstNonEmpty(r.MobileNo, r.Phone, r.TelNo, r.Office)
}

func (c *Composer) contactLine() string {
	return "If you have any questions, please contact us at " + c.ReplyTo + "."
}

/* ---------- session registrations ---------- */

func (c *Composer) sessionAdmin(r models.Registration) (Email, error) {
	cc := append([]string(nil), c.routing().AlwaysCC...)
	cc = append(cc, r.OrganiserEmail)
	m := Message{
		Title: "New Session Registration",
		Sections: []Section{
			{Heading: "Session Details", Rows: rows(
				Row{"Event", r.Event},
				Row{"Date", r.Date},
				Row{"Location", r.Location},
				Row{"Organized By", r.OrganisedBy},
				Row{"Organizer Email", r.OrganiserEmail},
			)},
			{Heading: "Registrant Information", Rows: rows(
				Row{"Name", r.DisplayName()},
				Row{"Email", r.Email},
				Row{"Phone", phoneOf(r)},
				Row{"Registration ID", r.ID.Hex()},
			)},
		},
		ButtonText: "Contact Registrant",
		ButtonURL:  "mailto:" + r.Email,
		Footer:     receivedNote + c.stamp(),
	}
	subject := fmt.Sprintf("New Registration: %s - %s", r.Event, r.Date)
	return c.build("session_admin", []string{c.AdminEmail}, cc, c.ReplyTo, subject, m)
}

func (c *Composer) sessionUser(r models.Registration) (Email, error) {
	link, needsPayment := c.routing().PaymentLinkForSessionDate(r.Date)
	intro := "Thank you for registering for our session! We've received your registration details."
	m := Message{
		Title:    "Registration Confirmation",
		Greeting: "Dear " + r.DisplayName() + ",",
		Sections: []Section{{Heading: "Session Details", Rows: rows(
			Row{"Event", r.Event},
			Row{"Date", r.Date},
			Row{"Location", r.Location},
			Row{"Organized By", r.OrganisedBy},
		)}},
		Outro:      []string{c.contactLine()},
		ButtonText: "Visit Our Website",
		ButtonURL:  websiteURL,
		SignOff:    "The Ekaa USA Team",
		Footer:     "Ekaa USA • " + c.ReplyTo + " • www.ekaausa.com",
	}
	if needsPayment {
		intro = "Thank you for registering for our session! We've received your registration details and your payment is required to complete the registration."
		m.Payment = &PaymentBox{
			Heading:    "Complete Your Registration",
			Text:       secureYour,
			Link:       link,
			ButtonText: "Make Payment Now",
			Note:       paymentNote,
		}
	}
	m.Intro = []string{intro}
	subject := fmt.Sprintf("Confirmation: %s Registration", r.Event)
	return c.build("session_user", []string{r.Email}, nil, c.ReplyTo, subject, m)
}

/* ---------- hypnotherapy (ICH) ---------- */

func (c *Composer) ichAdmin(r models.Registration) (Email, error) {
	_, training, dates := routing.SplitCity(r.City)
	doctor, _, cced := c.routing().DoctorCC(r.City)
	m := Message{
		Title: "New Hypnotherapy Registration",
		Sections: []Section{{Heading: "Registrant Information", Rows: rows(
			Row{"Name", r.DisplayName()},
			Row{"Email", r.Email},
			Row{"Training", orDefault(training, "ICH Training")},
			Row{"Dates", dates},
			Row{"Registration ID", r.ID.Hex()},
		)}},
		Footer: receivedNote + c.stamp(),
	}
	if cced {
		m.Note = doctor + " has been CC'd on this notification as the instructor."
	}
	subject := "New Hypnotherapy Registration: " + r.DisplayName()
	return c.build("ich_admin", []string{c.AdminEmail}, c.routing().CC(r.City), c.ReplyTo, subject, m)
}

func (c *Composer) ichUser(r models.Registration) (Email, error) {
	_, training, dates := routing.SplitCity(r.City)
	training = orDefault(training, "Hypnotherapy Training")
	instructor := c.routing().DefaultInstructor

	m := Message{
		Title:    "Registration Confirmation",
		Greeting: "Dear " + r.DisplayName() + ",",
		Intro: []string{
			"Thank you for registering for " + training + " with Ekaa USA. We're excited to have you join us!",
		},
		Outro:      []string{c.contactLine()},
		ButtonText: "View Program Details",
		ButtonURL:  ichURL,
		SignOff:    "The Ekaa USA Hypnotherapy Team",
		Footer:     "Ekaa USA Hypnotherapy Program • " + c.ReplyTo + " • www.ekaausa.com/ich",
	}
	if tm, ok := c.routing().Training(training, dates); ok {
		instructor = tm.Instructor
		m.Payment = &PaymentBox{
			Heading:    tm.Level + " Training Details",
			Text:       fmt.Sprintf("Your training will be conducted by %s from %s. %s", tm.Instructor, orDefault(dates, "the scheduled dates"), secureYour),
			Link:       tm.PaymentLink,
			ButtonText: "Make " + tm.Level + " Payment Now",
			Note:       paymentNote,
		}
	}
	m.Sections = []Section{{Heading: "Your Registration Details", Rows: rows(
		Row{"Training Program", training},
		Row{"Dates", dates},
		Row{"Instructor", instructor},
		Row{"Name on Certificate", r.NameAsCertificate},
		Row{"Time Slot", r.Timeslot},
	)}}
	return c.build("ich_user", []string{r.Email}, nil, c.ReplyTo, "Hypnotherapy Registration Confirmation", m)
}

/* ---------- AWAKEN THE LIMITLESS HUMAN ---------- */

const awakenName = "AWAKEN THE LIMITLESS HUMAN"

func (c *Composer) awakenAdmin(r models.Registration) (Email, error) {
	m := Message{
		Title: "New " + awakenName + " Registration",
		Sections: []Section{{Heading: "Registrant Information", Rows: rows(
			Row{"Name", r.DisplayName()},
			Row{"Email", r.Email},
			Row{"Phone", phoneOf(r)},
			Row{"Level", r.LevelName},
			Row{"City", r.City},
			Row{"Country", r.Country},
			Row{"How they heard about us", r.HearAbout},
			Row{"Registration ID", r.ID.Hex()},
		)}},
		ButtonText: "Contact Registrant",
		ButtonURL:  "mailto:" + r.Email,
		Footer:     receivedNote + c.stamp(),
	}
	subject := "New " + awakenName + " Registration: " + r.LevelName
	return c.build("awaken_admin", []string{c.AdminEmail}, c.routing().AlwaysCC, c.ReplyTo, subject, m)
}

func (c *Composer) awakenUser(r models.Registration) (Email, error) {
	m := Message{
		Title:    "Registration Confirmation",
		Greeting: "Dear " + r.DisplayName() + ",",
		Intro: []string{
			"Thank you for registering for the " + awakenName + " program. We're thrilled to have you with us.",
		},
		Sections: []Section{
			{Heading: "Your Registration Details", Rows: rows(
				Row{"Program", awakenName},
				Row{"Level", r.LevelName},
				Row{"Registration ID", r.ID.Hex()},
			)},
			{Heading: "What's Next", Lines: []string{
				"A representative from EKAA will contact you shortly to guide you through the next steps and provide further details about the program.",
			}},
		},
		Outro:      []string{c.contactLine()},
		ButtonText: "Visit Our Website",
		ButtonURL:  websiteURL,
		SignOff:    "The EKAA USA Team",
		Footer:     "EKAA USA " + awakenName + " Program • " + c.ReplyTo + " • www.ekaausa.com",
	}
	return c.build("awaken_user", []string{r.Email}, nil, c.ReplyTo, awakenName+" Registration Confirmation", m)
}

/* ---------- legacy course registration ---------- */

func (c *Composer) courseAdmin(r models.Registration) (Email, error) {
	_, event, date := routing.SplitCity(r.City)
	event = orDefault(event, "EKAA Program")
	doctor, _, cced := c.routing().DoctorCC(r.City)
	m := Message{
		Title: "New Registration",
		Sections: []Section{{Heading: "Registrant Information", Rows: rows(
			Row{"Name", r.DisplayName()},
			Row{"Email", r.Email},
			Row{"Program", event},
			Row{"Date", date},
			Row{"Phone", phoneOf(r)},
			Row{"Registration ID", r.ID.Hex()},
		)}},
		Footer: receivedNote + c.stamp(),
	}
	if cced {
		m.Note = doctor + " has been CC'd on this notification."
	}
	return c.build("course_admin", []string{c.AdminEmail}, c.routing().CC(r.City), c.ReplyTo, "New Registration: "+event, m)
}

func (c *Composer) courseUser(r models.Registration) (Email, error) {
	_, event, date := routing.SplitCity(r.City)
	event = orDefault(event, "EKAA Program")
	m := Message{
		Title:    "Registration Confirmation",
		Greeting: "Dear " + r.DisplayName() + ",",
		Intro:    []string{"Thank you for registering for our " + event + " program!"},
		Sections: []Section{{Heading: "Your Registration Details", Rows: rows(
			Row{"Program", event},
			Row{"Date", date},
			Row{"Time Slot", r.Timeslot},
		)}},
		Outro:      []string{c.contactLine()},
		ButtonText: "Visit Our Website",
		ButtonURL:  websiteURL,
		SignOff:    "The EKAA USA Team",
		Footer:     "EKAA USA • " + c.ReplyTo + " • www.ekaausa.com",
	}
	if _, ok := c.routing().EventDoctor(event); ok {
		m.Payment = &PaymentBox{
			Heading:    "Complete Your Registration",
			Text:       secureYour,
			Link:       c.routing().PaymentLinkForEvent(event),
			ButtonText: "Make Payment Now",
			Note:       paymentNote,
		}
	}
	return c.build("course_user", []string{r.Email}, nil, c.ReplyTo, "Confirmation: "+event+" Registration", m)
}

/* ---------- generic program templates ---------- */

func (c *Composer) programDetails(title string, r models.Registration) []Row {
	return rows(
		Row{"Program", title},
		Row{"Name", r.DisplayName()},
		Row{"Email", r.Email},
		Row{"Phone", phoneOf(r)},
		Row{"City", r.City},
		Row{"State", r.State},
		Row{"Country", r.Country},
		Row{"Level", firstNonEmpty(r.LevelName, r.Level)},
		Row{"Course Date", r.CourseDetailDate},
		Row{"Course Time", r.CourseDetailTime},
		Row{"Venue", firstNonEmpty(r.CourseDetailVenue, r.Venue)},
		Row{"Time Slot", r.Timeslot},
		Row{"Selected Trainings", strings.Join(r.SelectedTrainings, ", ")},
		Row{"Connected With", r.ConnectedWith},
		Row{"Registration ID", r.ID.Hex()},
	)
}

func (c *Composer) programAdmin(title string, r models.Registration) (Email, error) {
	m := Message{
		Title:      "New " + title + " Registration",
		Sections:   []Section{{Heading: "Registrant Information", Rows: c.programDetails(title, r)}},
		ButtonText: "Contact Registrant",
		ButtonURL:  "mailto:" + r.Email,
		Footer:     receivedNote + c.stamp(),
	}
	cc := c.routing().CC(r.City)
	subject := fmt.Sprintf("New %s Registration: %s", title, r.DisplayName())
	return c.build("program_admin", []string{c.AdminEmail}, cc, c.ReplyTo, subject, m)
}

func (c *Composer) programUser(title string, r models.Registration) (Email, error) {
	m := Message{
		Title:    "Registration Confirmation",
		Greeting: "Dear " + r.DisplayName() + ",",
		Intro: []string{
			"Thank you for registering for " + title + ". We have received your details and a member of our team will contact you with the next steps.",
		},
		Sections:   []Section{{Heading: "Your Registration Details", Rows: c.programDetails(title, r)}},
		Outro:      []string{c.contactLine()},
		ButtonText: "Visit Our Website",
		ButtonURL:  websiteURL,
		SignOff:    "The EKAA USA Team",
		Footer:     "EKAA USA • " + c.ReplyTo + " • www.ekaausa.com",
	}
	if _, event, _ := routing.SplitCity(r.City); event != "" {
		if _, ok := c.routing().EventDoctor(event); ok {
			m.Payment = &PaymentBox{
				Heading:    "Complete Your Registration",
				Text:       secureYour,
				Link:       c.routing().PaymentLinkForEvent(event),
				ButtonText: "Make Payment Now",
				Note:       paymentNote,
			}
		}
	}
	return c.build("program_user", []string{r.Email}, nil, c.ReplyTo, title+" Registration Confirmation", m)
}

/* ---------- contact form ---------- */

// ContactAdmin notifies the office of a contact-form submission. Replies go
// straight to the sender.
func (c *Composer) ContactAdmin(ct models.Contact) (Email, error) {
	privacy := "Not Accepted"
	if ct.AcceptPrivacyPolicy {
		privacy = "Accepted"
	}
	m := Message{
		Title:    "New Contact Form Submission",
		Subtitle: "A new inquiry has been received through your website",
		Sections: []Section{
			{Rows: rows(
				Row{"Full Name", ct.FullName()},
				Row{"Email", ct.Email},
				Row{"Contact", ct.PhoneNumber},
				Row{"Country", ct.Country},
				Row{"Zip Code", ct.ZipCode},
				Row{"Privacy Policy", privacy},
				Row{"Submitted", c.stamp()},
			)},
			{Heading: "Message", Lines: strings.Split(ct.Message, "\n")},
		},
		Footer: "Reply directly to this email to respond to the customer",
	}
	subject := "New Contact Form Submission - " + ct.FullName()
	return c.build("contact_admin", []string{c.AdminEmail}, nil, ct.Email, subject, m)
}

// ContactClient acknowledges a contact-form submission to its sender.
func (c *Composer) ContactClient(ct models.Contact, referenceID string) (Email, error) {
	m := Message{
		Title:    "Thank You for Reaching Out!",
		Subtitle: "We've received your message and will get back to you soon",
		Greeting: "Dear " + ct.FullName() + ",",
		Sections: []Section{
			{Heading: "Your message has been received!", Rows: rows(
				Row{"Reference ID", referenceID},
				Row{"Submitted on", c.stamp()},
			)},
			{Heading: "What happens next?", Bullets: true, Lines: []string{
				"Our team will review your inquiry within 24 hours",
				"We'll respond to your email: " + ct.Email,
				"You'll receive personalized assistance based on your query",
			}},
		},
		Outro:  []string{"Thank you for contacting us. We will be in touch soon to help take your journey forward."},
		Footer: "For immediate assistance, contact us at " + c.ReplyTo,
	}
	subject := "Thank you for contacting us - We received your message"
	return c.build("contact_client", []string{ct.Email}, nil, c.ReplyTo, subject, m)
}
