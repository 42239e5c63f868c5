package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FamilyConstellation is the event name every FamilyEvent carries.
const FamilyConstellation = "Family Constellation"

// FamilyEvent is a Family Constellation session published on the events page.
type FamilyEvent struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Event string             `bson:"event" json:"event"`

	// Date is the legacy "Jan 2, 2006" display string kept for older clients.
	Date string `bson:"date,omitempty" json:"date,omitempty"`

	StartDate      time.Time `bson:"startDate" json:"startDate"`
	EndDate        time.Time `bson:"endDate" json:"endDate"`
	Location       string    `bson:"location" json:"location"`
	Capacity       string    `bson:"capacity" json:"capacity"`
	OrganisedBy    string    `bson:"organisedby" json:"organisedby"`
	OrganiserEmail string    `bson:"organiserEmail" json:"organiserEmail"`
	Price          string    `bson:"price" json:"price"`
	PaymentLink    string    `bson:"paymentLink" json:"paymentLink"`
	Status         string    `bson:"status" json:"status"`
	Facilitator    string    `bson:"facilitator,omitempty" json:"facilitator,omitempty"`
	ExternalLink   string    `bson:"externalLink,omitempty" json:"externalLink,omitempty"`

	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt *time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
