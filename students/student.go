package students

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Education boards offered by the registration form
var (
	SecondaryBoards  = []string{"sslc", "cbse", "icse", "other"}
	HighSchoolBoards = []string{"puc", "cbse", "icse", "other"}
	Genders          = []string{"male", "female", "other"}
)

// Scholarship answers
const (
	ScholarshipReceived    = "yes-scholarship-received"
	ScholarshipNotReceived = "no-scholarship-received"
)

// Student is a student profile as held by the records API.
type Student struct {
	ID                     string `json:"_id,omitempty"`            // Identifier assigned by the API
	FirstName              string `json:"firstname"`                // Given name
	MiddleName             string `json:"middlename,omitempty"`     // Optional middle name
	LastName               string `json:"lastname"`                 // Family name
	Email                  string `json:"email"`                    // Contact and login email
	PhoneNumber            int64  `json:"phone_number"`             // Student phone
	DateOfBirth            Date   `json:"date_of_birth"`            // Birth date
	Gender                 string `json:"gender"`                   // male, female or other
	Address                string `json:"address"`                  // Street address
	City                   string `json:"city"`                     // City
	State                  string `json:"state"`                    // State
	Pincode                int    `json:"pincode"`                  // Postal code
	GuardianName           string `json:"guardian_name"`            // Parent or guardian
	GuardianContact        int64  `json:"guardian_contact"`         // Guardian phone
	EmergencyContactName   string `json:"emergency_contact_name"`   // Emergency contact
	EmergencyContactNumber int64  `json:"emergency_contact_number"` // Emergency contact phone
	DateOfAdmission        Date   `json:"date_of_admission"`        // Admission date

	IDDetails       IDDetails       `json:"student_id"`
	SecondarySchool SecondarySchool `json:"secondaryschool"`
	HighSchool      HighSchool      `json:"highschool"`
	Scholarship     Scholarship     `json:"scholarship"`
}

// IDDetails holds government identity numbers.
type IDDetails struct {
	Aadhar  int64  `json:"aadhar"`
	Pancard string `json:"pancard"`
}

type SecondarySchool struct {
	SchoolName string  `json:"school_name"`
	Total      float64 `json:"total"`
	Percentage float64 `json:"percentage"`
	BoardName  string  `json:"board_name"`
	PassYear   int     `json:"pass_year"`
}

type HighSchool struct {
	CollegeName string  `json:"college_name"`
	Total       float64 `json:"total"`
	Percentage  float64 `json:"percentage"`
	BoardName   string  `json:"board_name"`
	PassYear    int     `json:"pass_year"`
}

type Scholarship struct {
	Received        string `json:"received"`
	ScholarshipName string `json:"scholarship_name"`
}

// FullName joins the non-empty name parts.
func (s Student) FullName() string {
	return strings.Join(strings.Fields(s.FirstName+" "+s.MiddleName+" "+s.LastName), " ")
}

// HasScholarship reports whether the student answered yes to receiving a scholarship.
func (s Student) HasScholarship() bool {
	return s.Scholarship.Received == ScholarshipReceived
}

// Created is returned by the API when a student is added: the login it generated.
type Created struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

const dateLayout = "2006-01-02"

// Date is a calendar date. It reads both ISO timestamps and plain dates and
// writes plain dates.
type Date struct {
	time.Time
}

// ParseDate parses a YYYY-MM-DD form value.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

// String formats the date for form inputs, empty when unset.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		*d = Date{t.UTC()}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
