package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ManagedEvent is an operationally tracked session on the admin calendar.
// It is soft-deleted via IsDeleted and never removed from the collection.
type ManagedEvent struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Event             string             `bson:"event" json:"event"`
	Level             string             `bson:"level" json:"level"`
	StartDate         time.Time          `bson:"startDate" json:"startDate"`
	EndDate           time.Time          `bson:"endDate" json:"endDate"`
	Location          string             `bson:"location" json:"location"`
	ConductedBy       string             `bson:"conductedBy" json:"conductedBy"`
	TotalParticipants int                `bson:"totalParticipants" json:"totalParticipants"`
	ProgramFees       string             `bson:"programFees" json:"programFees"`
	Status            string             `bson:"status" json:"status"`
	IsDeleted         bool               `bson:"isDeleted" json:"isDeleted"`

	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt *time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// EventOption describes one selectable managed-event type and its levels.
type EventOption struct {
	Value     string   `json:"value"`
	Label     string   `json:"label"`
	HasLevels bool     `json:"hasLevels"`
	Levels    []string `json:"levels,omitempty"`
}

// EventOptions is the closed set of event types a ManagedEvent may carry.
var EventOptions = []EventOption{
	{
		Value:     "AWAKEN THE LIMITLESS HUMAN",
		Label:     "AWAKEN THE LIMITLESS HUMAN",
		HasLevels: true,
		Levels: []string{
			"Level 1 | Basic Integrated Hypnosis Training",
			"Level 2 | Advanced Module for Behavioral Resolutions",
			"Level 3 | Advanced Modalities for Health Resolutions",
			"Level 4 | Metaphysical Hypnosis Training",
			"Level 5 | Hypnosis Training through Integrated Healing",
			"Level 6 | Advanced Module in Inner Child Healing",
		},
	},
	{
		Value:     "Decode",
		Label:     "Decode",
		HasLevels: true,
		Levels: []string{
			"Decode Your Mind",
			"Decode Your Behaviour",
			"Decode Your Relationships",
			"Decode Your Blue Print",
		},
	},
	{
		Value:     "TASSO",
		Label:     "TASSO",
		HasLevels: true,
		Levels:    []string{"Module 1", "Module 2", "Module 3", "Module 4", "Module 5", "Module 6"},
	},
	{Value: FamilyConstellation, Label: FamilyConstellation},
	{
		Value: "Specialized Workshop / Experiential Workshop",
		Label: "Specialized Workshop / Experiential Workshop",
	},
}

// FindEventOption returns the option whose Value equals event.
func FindEventOption(event string) (EventOption, bool) {
	for _, o := range EventOptions {
		if o.Value == event {
			return o, true
		}
	}
	return EventOption{}, false
}
