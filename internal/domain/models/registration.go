package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Registration is the stored shape shared by every program's registration
// collection. Each program accepts a subset of these fields; which ones are
// accepted and required is decided by the program's definition table, not by
// this type. Field names match the documents already present in the
// registration collections, including their historical spellings.
type Registration struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"_id"`

	// Identity
	FirstName         string `bson:"firstName,omitempty" json:"firstName,omitempty"`
	MiddleName        string `bson:"middleName,omitempty" json:"middleName,omitempty"`
	LastName          string `bson:"lastName,omitempty" json:"lastName,omitempty"`
	NameAsCertificate string `bson:"nameAsCertificate,omitempty" json:"nameAsCertificate,omitempty"`
	FullName          string `bson:"fullName,omitempty" json:"fullName,omitempty"`
	Name              string `bson:"name,omitempty" json:"name,omitempty"`

	// Contact
	Email    string `bson:"email,omitempty" json:"email,omitempty"`
	MobileNo string `bson:"mobileNo,omitempty" json:"mobileNo,omitempty"`
	TelNo    string `bson:"TelNo,omitempty" json:"TelNo,omitempty"`
	Office   string `bson:"office,omitempty" json:"office,omitempty"`
	Phone    string `bson:"phone,omitempty" json:"phone,omitempty"`

	// Address
	CurrentAddress   string     `bson:"currentAddress,omitempty" json:"currentAddress,omitempty"`
	PermanentAddress string     `bson:"permanenetAddress,omitempty" json:"permanenetAddress,omitempty"`
	City             string     `bson:"city,omitempty" json:"city,omitempty"`
	State            string     `bson:"state,omitempty" json:"state,omitempty"`
	Country          string     `bson:"country,omitempty" json:"country,omitempty"`
	PostalCode       string     `bson:"postalCode,omitempty" json:"postalCode,omitempty"`
	IsSameAddress    *bool      `bson:"isSameAddress,omitempty" json:"isSameAddress,omitempty"`
	Gender           string     `bson:"gender,omitempty" json:"gender,omitempty"`
	Occupation       string     `bson:"occupation,omitempty" json:"occupation,omitempty"`
	DOB              *time.Time `bson:"dob,omitempty" json:"dob,omitempty"`

	// Course selection
	Timeslot          string `bson:"timeslot,omitempty" json:"timeslot,omitempty"`
	Venue             string `bson:"venue,omitempty" json:"venue,omitempty"`
	CourseDetailDate  string `bson:"courseDetailDate,omitempty" json:"courseDetailDate,omitempty"`
	CourseDetailTime  string `bson:"courseDetailTime,omitempty" json:"courseDetailTime,omitempty"`
	CourseDetailVenue string `bson:"courseDetailVenue,omitempty" json:"courseDetailVenue,omitempty"`
	LevelName         string `bson:"levelName,omitempty" json:"levelName,omitempty"`
	Level             string `bson:"level,omitempty" json:"level,omitempty"`
	HearAbout         string `bson:"hearAbout,omitempty" json:"hearAbout,omitempty"`

	// Consent
	CommunicationPreferences *bool `bson:"communicationPreferences,omitempty" json:"communicationPreferences,omitempty"`
	TermsAndCondition        *bool `bson:"termsandcondition,omitempty" json:"termsandcondition,omitempty"`

	// Uploaded images (paths relative to the uploads root)
	ProfileImage string `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	IDPhotoFront string `bson:"idPhotofront,omitempty" json:"idPhotofront,omitempty"`
	IDPhotoBack  string `bson:"idphotoback,omitempty" json:"idphotoback,omitempty"`

	// Session snapshot, copied from the canonical event at submission time
	SessionID      string `bson:"sessionId,omitempty" json:"sessionId,omitempty"`
	Event          string `bson:"event,omitempty" json:"event,omitempty"`
	Date           string `bson:"date,omitempty" json:"date,omitempty"`
	Location       string `bson:"location,omitempty" json:"location,omitempty"`
	OrganisedBy    string `bson:"organisedBy,omitempty" json:"organisedBy,omitempty"`
	OrganiserEmail string `bson:"organiserEmail,omitempty" json:"organiserEmail,omitempty"`

	// Multi-training form
	SelectedTrainings []string          `bson:"selectedTrainings,omitempty" json:"selectedTrainings,omitempty"`
	ConnectedWith     string            `bson:"connectedWith,omitempty" json:"connectedWith,omitempty"`
	Meta              *RegistrationMeta `bson:"meta,omitempty" json:"meta,omitempty"`

	Status string `bson:"status,omitempty" json:"status,omitempty"`

	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt *time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// RegistrationMeta records where a submission came from.
type RegistrationMeta struct {
	IP        string `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent string `bson:"userAgent,omitempty" json:"userAgent,omitempty"`
}

// DisplayName returns the best available human name for emails and listings.
func (r Registration) DisplayName() string {
	switch {
	case r.FirstName != "" || r.LastName != "":
		if r.FirstName == "" {
			return r.LastName
		}
		if r.LastName == "" {
			return r.FirstName
		}
		return r.FirstName + " " + r.LastName
	case r.FullName != "":
		return r.FullName
	default:
		return r.Name
	}
}
