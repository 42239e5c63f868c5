package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Program status values shared by catalogs, embedded events, family events
// and managed events.
const (
	StatusOpen   = "Open"
	StatusClosed = "Closed"
)

// IsValidOpenClosed reports whether s is one of the Open/Closed statuses.
func IsValidOpenClosed(s string) bool {
	return s == StatusOpen || s == StatusClosed
}

// Program is a catalog page for a bookable training (Hypnotherapy, Decode,
// TASSO). Each catalog lives in its own collection.
type Program struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title    string             `bson:"title" json:"title"`
	Subtitle string             `bson:"subtitle" json:"subtitle"`
	Duration string             `bson:"duration" json:"duration"`
	VideoURL string             `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`

	// Thumbnail is the upload path relative to the uploads root.
	Thumbnail string `bson:"thumbnail,omitempty" json:"thumbnail,omitempty"`

	CardPoints       []string          `bson:"cardPoints" json:"cardPoints"`
	LearningSections []LearningSection `bson:"learningSections" json:"learningSections"`
	UpcomingEvents   []ProgramEvent    `bson:"upcomingEvents" json:"upcomingEvents"`

	Status string `bson:"status" json:"status"`

	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt *time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// LearningSection is a titled block of sanitized rich text.
type LearningSection struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Title   string             `bson:"title" json:"title"`
	Content string             `bson:"content" json:"content"`
}

// ProgramEvent is a scheduled session embedded in a Program.
type ProgramEvent struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	StartDate      time.Time          `bson:"startDate" json:"startDate"`
	EndDate        time.Time          `bson:"endDate" json:"endDate"`
	EventName      string             `bson:"eventName" json:"eventName"`
	Location       string             `bson:"location" json:"location"`
	Organiser      string             `bson:"organiser" json:"organiser"`
	OrganizerEmail string             `bson:"organizerEmail,omitempty" json:"organizerEmail,omitempty"`
	Price          string             `bson:"price,omitempty" json:"price,omitempty"`
	PaymentLink    string             `bson:"paymentLink" json:"paymentLink"`
	Status         string             `bson:"status" json:"status"`
}
