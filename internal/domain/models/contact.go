package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contact status workflow values.
const (
	ContactPending    = "pending"
	ContactInProgress = "in-progress"
	ContactResolved   = "resolved"
	ContactClosed     = "closed"
)

// ContactStatuses lists the workflow states in display order.
var ContactStatuses = []string{ContactPending, ContactInProgress, ContactResolved, ContactClosed}

// IsValidContactStatus reports whether s is a known contact status.
func IsValidContactStatus(s string) bool {
	for _, v := range ContactStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Contact is a contact-form submission.
type Contact struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	FirstName           string             `bson:"firstName" json:"firstName"`
	LastName            string             `bson:"lastName" json:"lastName"`
	Email               string             `bson:"email" json:"email"`
	PhoneNumber         string             `bson:"phoneNumber" json:"phoneNumber"`
	Country             string             `bson:"country" json:"country"`
	ZipCode             string             `bson:"zipCode" json:"zipCode"`
	Message             string             `bson:"message" json:"message"`
	AcceptPrivacyPolicy bool               `bson:"acceptPrivacyPolicy" json:"acceptPrivacyPolicy"`
	Status              string             `bson:"status" json:"status"`

	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt *time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// FullName joins first and last name.
func (c Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}

// FormattedDate renders CreatedAt the way the admin panel displays it.
func (c Contact) FormattedDate() string {
	return c.CreatedAt.Format("January 2, 2006 at 03:04 PM")
}

// MarshalJSON adds the fullName and formattedDate virtuals.
func (c Contact) MarshalJSON() ([]byte, error) {
	type plain Contact
	return json.Marshal(struct {
		plain
		FullName      string `json:"fullName"`
		FormattedDate string `json:"formattedDate"`
	}{plain(c), c.FullName(), c.FormattedDate()})
}
