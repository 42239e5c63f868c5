package mailer

import (
	"testing"
	"time"

	"github.com/dalemusser/ekaahub/internal/app/system/routing"
	"github.com/dalemusser/ekaahub/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testComposer() *Composer {
	return &Composer{
		Routing:    routing.Default(),
		AdminEmail: "contact@ekaausa.com",
		ReplyTo:    "connect@ekaausa.com",
		Now:        func() time.Time { return time.Date(2025, 8, 1, 15, 4, 0, 0, time.UTC) },
	}
}

func TestRegistration_Session(t *testing.T) {
	c := testComposer()
	r := models.Registration{
		ID:             primitive.NewObjectID(),
		FullName:       "Asha Rao",
		Email:          "asha@example.com",
		Event:          "Family Constellation",
		Date:           "Aug 20, 2025",
		Location:       "Houston",
		OrganisedBy:    "Dr. Sonia Gupte",
		OrganiserEmail: "organiser@example.com",
	}

	admin, user, err := c.Registration(FamilySession, "", r)
	require.NoError(t, err)

	assert.Equal(t, []string{"contact@ekaausa.com"}, admin.To)
	assert.Equal(t, []string{"connect@ekaausa.com", "organiser@example.com"}, admin.Cc)
	assert.Equal(t, "New Registration: Family Constellation - Aug 20, 2025", admin.Subject)
	assert.Contains(t, admin.HTMLBody, r.ID.Hex())

	assert.Equal(t, []string{"asha@example.com"}, user.To)
	assert.Equal(t, "Confirmation: Family Constellation Registration", user.Subject)
	assert.Contains(t, user.HTMLBody, "https://buy.stripe.com/7sY00lfDKcFrcHa1YK7Vm0L")
	assert.Contains(t, user.HTMLBody, "48 hours")
}

func TestRegistration_SessionWithoutPayment(t *testing.T) {
	c := testComposer()
	_, user, err := c.Registration(FamilySession, "", models.Registration{
		FullName: "Asha Rao", Email: "asha@example.com", Event: "Family Constellation", Date: "Dec 1, 2025",
	})
	require.NoError(t, err)
	assert.NotContains(t, user.HTMLBody, "Make Payment Now")
}

func TestRegistration_ICH(t *testing.T) {
	c := testComposer()
	r := models.Registration{
		FirstName:         "Ravi",
		LastName:          "Iyer",
		Email:             "ravi@example.com",
		City:              "Houston | Hypnotherapy L1 Training | 11th Aug-12th Aug",
		NameAsCertificate: "Ravi K Iyer",
	}
	admin, user, err := c.Registration(FamilyICH, "", r)
	require.NoError(t, err)

	assert.Equal(t, "New Hypnotherapy Registration: Ravi Iyer", admin.Subject)
	assert.Contains(t, admin.HTMLBody, "Hypnotherapy L1 Training")

	assert.Equal(t, "Hypnotherapy Registration Confirmation", user.Subject)
	assert.Contains(t, user.HTMLBody, "https://buy.stripe.com/3cI5kv9e03xz7ZmdM793y04")
	assert.Contains(t, user.HTMLBody, "Make L1 Payment Now")
	assert.Contains(t, user.HTMLBody, "Dr. Manoj")
	assert.Contains(t, user.HTMLBody, "Ravi K Iyer")
}

func TestRegistration_ICHDoctorCC(t *testing.T) {
	c := testComposer()
	admin, _, err := c.Registration(FamilyICH, "", models.Registration{
		FullName: "A B", Email: "ab@example.com", City: "Dallas | ICH L3 Training | Aug 13-17",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"connect@ekaausa.com", "Aiyasawmy@gmail.com"}, admin.Cc)
	assert.Contains(t, admin.HTMLBody, "has been CC&#39;d")
}

func TestRegistration_Course(t *testing.T) {
	c := testComposer()
	admin, user, err := c.Registration(FamilyCourse, "", models.Registration{
		FirstName: "Meera", LastName: "S", Email: "meera@example.com",
		City: "Austin | Decode The Child | Sep 6, 2025",
	})
	require.NoError(t, err)
	assert.Equal(t, "New Registration: Decode The Child", admin.Subject)
	assert.Contains(t, admin.Cc, "Aiyasawmy@gmail.com")
	assert.Equal(t, "Confirmation: Decode The Child Registration", user.Subject)
	assert.Contains(t, user.HTMLBody, "https://buy.stripe.com/6oU6ozgGsc45cfCgYj93y02")
}

func TestRegistration_CourseDefaults(t *testing.T) {
	c := testComposer()
	admin, user, err := c.Registration(FamilyCourse, "", models.Registration{FullName: "X Y", Email: "x@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "New Registration: EKAA Program", admin.Subject)
	assert.NotContains(t, user.HTMLBody, "Make Payment Now")
}

func TestRegistration_AwakenAndProgram(t *testing.T) {
	c := testComposer()
	r := models.Registration{FirstName: "Lee", LastName: "Ng", Email: "lee@example.com", LevelName: "Level 2"}

	admin, user, err := c.Registration(FamilyAwaken, "", r)
	require.NoError(t, err)
	assert.Equal(t, "New AWAKEN THE LIMITLESS HUMAN Registration: Level 2", admin.Subject)
	assert.Equal(t, []string{"connect@ekaausa.com"}, admin.Cc)
	assert.Equal(t, "AWAKEN THE LIMITLESS HUMAN Registration Confirmation", user.Subject)

	admin, user, err = c.Registration(FamilyProgram, "TASSO", r)
	require.NoError(t, err)
	assert.Equal(t, "New TASSO Registration: Lee Ng", admin.Subject)
	assert.Equal(t, "TASSO Registration Confirmation", user.Subject)
}

func TestRegistration_UnknownFamily(t *testing.T) {
	_, _, err := testComposer().Registration("nope", "", models.Registration{})
	assert.Error(t, err)
}

func TestContactEmails(t *testing.T) {
	c := testComposer()
	ct := models.Contact{
		FirstName:           "Jo",
		LastName:            "March",
		Email:               "jo@example.com",
		Message:             "Hello\n<script>alert(1)</script>",
		AcceptPrivacyPolicy: true,
	}

	admin, err := c.ContactAdmin(ct)
	require.NoError(t, err)
	assert.Equal(t, "jo@example.com", admin.ReplyTo)
	assert.Equal(t, "New Contact Form Submission - Jo March", admin.Subject)
	assert.NotContains(t, admin.HTMLBody, "<script>")
	assert.Contains(t, admin.HTMLBody, "Accepted")

	client, err := c.ContactClient(ct, "#A1B2C3D4")
	require.NoError(t, err)
	assert.Equal(t, []string{"jo@example.com"}, client.To)
	assert.Contains(t, client.HTMLBody, "#A1B2C3D4")
}
