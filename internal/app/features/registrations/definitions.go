// internal/app/features/registrations/definitions.go
package registrations

import (
	"github.com/dalemusser/ekaahub/internal/app/system/inputval"
	"github.com/dalemusser/ekaahub/internal/app/system/mailer"
)

// Image is an upload slot on a multipart registration form.
type Image struct {
	FormField string // multipart field name
	Target    string // registration field that stores the path
	Prefix    string // file-name prefix
	Required  bool
	Msg       string // validation message when a required image is missing
}

// Column is one CSV export column.
type Column struct {
	Header string
	Key    string
}

// Definition describes one registration program: where it is mounted,
// where it is stored, which fields it accepts and how they are checked,
// and which email templates it uses.
type Definition struct {
	Key        string
	Path       string // mount point under the router root
	Collection string
	Name       string // used in response messages
	Title      string // program name in emails
	Family     string // mailer template family

	CreatePath string
	ExportPath string

	Fields []string // accepted request keys
	Rules  inputval.Rules

	Multipart bool
	UploadDir string
	Images    []Image

	// Session resolves sessionId against the event stores and snapshots
	// the event onto the registration.
	Session bool

	// UniqueEmailPhone rejects a second registration with the same email
	// and phone.
	UniqueEmailPhone bool

	// RecordMeta stores the caller's IP and user agent.
	RecordMeta bool

	Search  []string
	Sort    []string
	Entity  string // CSV file-name stem
	Columns []Column
}

var personFields = []string{
	"firstName", "middleName", "lastName", "nameAsCertificate",
	"currentAddress", "permanenetAddress", "isSameAddress", "city", "state", "country", "postalCode",
	"timeslot", "venue", "TelNo", "mobileNo", "office", "email", "dob", "gender", "occupation",
	"courseDetailDate", "courseDetailTime", "courseDetailVenue", "hearAbout",
	"communicationPreferences", "termsandcondition", "levelName", "level",
}

var personRules = inputval.Rules{
	{Field: "firstName", Tag: "required,ci_max=100", Msg: "First name is required"},
	{Field: "lastName", Tag: "required,ci_max=100", Msg: "Last name is required"},
	{Field: "nameAsCertificate", Tag: "required", Msg: "Name as on certificate is required"},
	{Field: "currentAddress", Tag: "required", Msg: "Current address is required"},
	{Field: "permanenetAddress", Tag: "required", Msg: "Permanent address is required"},
	{Field: "city", Tag: "required", Msg: "City is required"},
	{Field: "mobileNo", Tag: "required,phone", Msg: "Valid mobile number is required"},
	{Field: "email", Tag: "required,email", Msg: "Valid email is required"},
	{Field: "dob", Tag: "required,iso8601", Msg: "Valid date of birth is required"},
	{Field: "occupation", Tag: "required", Msg: "Occupation is required"},
	{Field: "middleName", Tag: "omitempty,ci_max=100", Msg: "Middle name is too long"},
}

var consentRules = inputval.Rules{
	{Field: "communicationPreferences", Tag: "boolean", Msg: "Communication preference must be true or false"},
	{Field: "termsandcondition", Tag: "accepted", Msg: "Terms and conditions must be accepted"},
}

var levelRule = inputval.Rule{Field: "levelName", Tag: "required", Msg: "Level name is required"}

var personSearch = []string{"firstName", "lastName", "email", "mobileNo", "city"}

var personSort = []string{"createdAt", "firstName", "lastName", "email", "city", "status"}

// programColumns is the raw-key export used by the course-shaped programs.
var programColumns = keyColumns(
	"firstName", "middleName", "lastName", "nameAsCertificate", "currentAddress", "permanenetAddress",
	"city", "timeslot", "TelNo", "mobileNo", "office", "email", "dob", "occupation",
	"courseDetailDate", "courseDetailTime", "courseDetailVenue", "hearAbout",
	"communicationPreferences", "termsandcondition", "levelName", "createdAt", "updatedAt", "_id",
)

func keyColumns(keys ...string) []Column {
	out := make([]Column, len(keys))
	for i, k := range keys {
		out[i] = Column{Header: k, Key: k}
	}
	return out
}

func rules(parts ...inputval.Rules) inputval.Rules {
	var out inputval.Rules
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Programs returns every registration program in mount order.
func Programs() []Definition {
	return []Definition{
		{
			Key:        "course",
			Path:       "/api/registration",
			Collection: "registrations",
			Name:       "Registration",
			Title:      "EKAA Program",
			Family:     mailer.FamilyCourse,
			CreatePath: "/",
			ExportPath: "/download",
			Fields:     personFields,
			Rules:      rules(personRules, inputval.Rules{levelRule}),
			Multipart:  true,
			UploadDir:  "registrations",
			Images: []Image{
				{FormField: "idPhotofront", Target: "idPhotofront", Prefix: "id-front", Required: true, Msg: "ID photo front is required"},
				{FormField: "idphotoback", Target: "idphotoback", Prefix: "id-back"},
				{FormField: "profileImage", Target: "profileImage", Prefix: "profile", Required: true, Msg: "Profile image is required"},
			},
			Search:  personSearch,
			Sort:    personSort,
			Entity:  "registrations",
			Columns: programColumns,
		},
		{
			Key:        "session",
			Path:       "/api/familyConsitalation",
			Collection: "familyconsitalionregistrations",
			Name:       "Session registration",
			Title:      "Family Constellation Session",
			Family:     mailer.FamilySession,
			CreatePath: "/register",
			ExportPath: "/download-csv",
			Fields:     []string{"sessionId", "fullName", "email", "phone"},
			Rules: inputval.Rules{
				{Field: "sessionId", Tag: "required", Msg: "Session is required"},
				{Field: "fullName", Tag: "required,ci_min=2,ci_max=100", Msg: "Full name is required"},
				{Field: "email", Tag: "required,email", Msg: "Valid email is required"},
				{Field: "phone", Tag: "required,phone", Msg: "Valid phone number is required"},
			},
			Session: true,
			Search:  []string{"event", "organisedBy", "organiserEmail", "email", "fullName"},
			Sort:    []string{"createdAt", "fullName", "email", "event", "date"},
			Entity:  "family-constellation-sessions",
			Columns: []Column{
				{Header: "ID", Key: "_id"},
				{Header: "Full Name", Key: "fullName"},
				{Header: "Email", Key: "email"},
				{Header: "Phone", Key: "phone"},
				{Header: "Event", Key: "event"},
				{Header: "Date", Key: "date"},
				{Header: "Location", Key: "location"},
				{Header: "Organised By", Key: "organisedBy"},
				{Header: "Organiser Email", Key: "organiserEmail"},
				{Header: "Session ID", Key: "sessionId"},
				{Header: "Registration Date", Key: "createdAt"},
			},
		},
		{
			Key:        "ich",
			Path:       "/api/ich",
			Collection: "ich_registrations",
			Name:       "Hypnotherapy registration",
			Title:      "Integrated Clinical Hypnotherapy",
			Family:     mailer.FamilyICH,
			CreatePath: "/ich-registration",
			ExportPath: "/download-csv",
			Fields:     personFields,
			Rules:      rules(personRules, consentRules[1:]),
			Multipart:  true,
			UploadDir:  "ich-registrations",
			Images: []Image{
				{FormField: "profileImage", Target: "profileImage", Prefix: "ich-profile"},
				{FormField: "frontImage", Target: "idPhotofront", Prefix: "ich-front-id"},
				{FormField: "backImage", Target: "idphotoback", Prefix: "ich-back-id"},
			},
			Search: personSearch,
			Sort:   personSort,
			Entity: "ich_registrations",
			Columns: []Column{
				{Header: "ID", Key: "_id"},
				{Header: "First Name", Key: "firstName"},
				{Header: "Last Name", Key: "lastName"},
				{Header: "Email", Key: "email"},
				{Header: "Mobile No", Key: "mobileNo"},
				{Header: "Gender", Key: "gender"},
				{Header: "Date of Birth", Key: "dob"},
				{Header: "Address", Key: "currentAddress"},
				{Header: "City", Key: "city"},
				{Header: "State", Key: "state"},
				{Header: "Country", Key: "country"},
				{Header: "Postal Code", Key: "postalCode"},
				{Header: "Level", Key: "levelName"},
				{Header: "Registration Date", Key: "createdAt"},
				{Header: "Status", Key: "status"},
			},
		},
		courseShaped("family-constellation", "/api/family-constellation", "familyconstellationregistrations",
			"Family Constellation", "Family Constellation", "family-constellation", false),
		courseShaped("decode", "/api/decode-registration", "decode_registrations",
			"Decode", "Decode", "decode", false),
		courseShaped("tasso", "/api/tasso-registration", "tassoregistrations",
			"TASSO", "TASSO", "tasso", false),
		courseShaped("awaken", "/api/awakenLimitlessHuman", "awakenlimitlesshumans",
			"AWAKEN THE LIMITLESS HUMAN", "AWAKEN THE LIMITLESS HUMAN", "awaken-limitless-human", true),
		{
			Key:        "registration-form",
			Path:       "/api/registration-form",
			Collection: "registrationforms",
			Name:       "Registration",
			Title:      "Training Registration",
			Family:     mailer.FamilyProgram,
			CreatePath: "/",
			ExportPath: "/download",
			Fields:     []string{"name", "email", "phone", "connectedWith", "selectedTrainings"},
			Rules: inputval.Rules{
				{Field: "name", Tag: "required,ci_min=3,ci_max=100", Msg: "Name must be at least 3 characters."},
				{Field: "email", Tag: "required,email", Msg: "Email is invalid."},
				{Field: "phone", Tag: "required,phone", Msg: "Phone number must be between 7 and 15 digits."},
				{Field: "selectedTrainings", Tag: "required,min=1", Msg: "At least one program level must be selected."},
				{Field: "connectedWith", Tag: "omitempty,ci_max=200", Msg: "Connected with is too long."},
			},
			UniqueEmailPhone: true,
			RecordMeta:       true,
			Search:           []string{"name", "email", "phone", "connectedWith"},
			Sort:             []string{"createdAt", "name", "email"},
			Entity:           "registration-form",
			Columns: []Column{
				{Header: "ID", Key: "_id"},
				{Header: "Name", Key: "name"},
				{Header: "Email", Key: "email"},
				{Header: "Phone", Key: "phone"},
				{Header: "Connected With", Key: "connectedWith"},
				{Header: "Selected Trainings", Key: "selectedTrainings"},
				{Header: "IP", Key: "meta.ip"},
				{Header: "User Agent", Key: "meta.userAgent"},
				{Header: "Registration Date", Key: "createdAt"},
			},
		},
	}
}

// courseShaped builds the JSON-bodied programs that share the person form
// and consent checks. AWAKEN also requires a level and has its own email
// family.
func courseShaped(key, path, coll, name, title, entity string, awaken bool) Definition {
	d := Definition{
		Key:        key,
		Path:       path,
		Collection: coll,
		Name:       name + " registration",
		Title:      title,
		Family:     mailer.FamilyProgram,
		CreatePath: "/",
		ExportPath: "/download",
		Fields:     personFields,
		Rules:      rules(personRules, consentRules),
		Search:     personSearch,
		Sort:       personSort,
		Entity:     entity,
		Columns:    programColumns,
	}
	if awaken {
		d.Family = mailer.FamilyAwaken
		d.Rules = rules(d.Rules, inputval.Rules{levelRule})
	}
	return d
}

// Lookup returns the program with the given key.
func Lookup(key string) (Definition, bool) {
	for _, d := range Programs() {
		if d.Key == key {
			return d, true
		}
	}
	return Definition{}, false
}
