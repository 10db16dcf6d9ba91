package students

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/jrsteele09/studentdesk/internal/errors"
)

var (
	namePattern     = regexp.MustCompile(`^[a-zA-Z ]+$`)
	guardianPattern = regexp.MustCompile(`^[a-zA-Z. ]+$`)
	digitsPattern   = regexp.MustCompile(`^\d+$`)
)

const invalidFormat = "Invalid format"

// FieldErrors maps form field names to a message for the user.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, fe[field]))
	}
	return fmt.Sprintf("%s: %s", errors.ErrInvalidForm, strings.Join(parts, "; "))
}

// Unwrap lets callers match errors.ErrInvalidForm.
func (fe FieldErrors) Unwrap() error {
	return errors.ErrInvalidForm
}

// Err returns nil when there are no field errors.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

func (fe FieldErrors) add(field, msg string) {
	if _, exists := fe[field]; !exists {
		fe[field] = msg
	}
}

// FromForm reads a student from the registration/update form. Field names
// follow the API's JSON paths, e.g. "secondaryschool.board_name".
func FromForm(form url.Values) (Student, FieldErrors) {
	fe := FieldErrors{}
	get := func(name string) string {
		return strings.TrimSpace(form.Get(name))
	}
	integer := func(name string) int64 {
		raw := get(name)
		if raw == "" {
			return 0
		}
		if !digitsPattern.MatchString(raw) {
			fe.add(name, invalidFormat)
			return 0
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			fe.add(name, invalidFormat)
		}
		return v
	}
	decimal := func(name string) float64 {
		raw := get(name)
		if raw == "" {
			return 0
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			fe.add(name, invalidFormat)
		}
		return v
	}
	date := func(name string) Date {
		raw := get(name)
		if raw == "" {
			return Date{}
		}
		d, err := ParseDate(raw)
		if err != nil {
			fe.add(name, invalidFormat)
		}
		return d
	}

	s := Student{
		ID:                     get("_id"),
		FirstName:              get("firstname"),
		MiddleName:             get("middlename"),
		LastName:               get("lastname"),
		Email:                  get("email"),
		PhoneNumber:            integer("phone_number"),
		DateOfBirth:            date("date_of_birth"),
		Gender:                 get("gender"),
		Address:                get("address"),
		City:                   get("city"),
		State:                  get("state"),
		Pincode:                int(integer("pincode")),
		GuardianName:           get("guardian_name"),
		GuardianContact:        integer("guardian_contact"),
		EmergencyContactName:   get("emergency_contact_name"),
		EmergencyContactNumber: integer("emergency_contact_number"),
		DateOfAdmission:        date("date_of_admission"),
		IDDetails: IDDetails{
			Aadhar:  integer("student_id.aadhar"),
			Pancard: strings.ToUpper(get("student_id.pancard")),
		},
		SecondarySchool: SecondarySchool{
			SchoolName: get("secondaryschool.school_name"),
			Total:      decimal("secondaryschool.total"),
			Percentage: decimal("secondaryschool.percentage"),
			BoardName:  get("secondaryschool.board_name"),
			PassYear:   int(integer("secondaryschool.pass_year")),
		},
		HighSchool: HighSchool{
			CollegeName: get("highschool.college_name"),
			Total:       decimal("highschool.total"),
			Percentage:  decimal("highschool.percentage"),
			BoardName:   get("highschool.board_name"),
			PassYear:    int(integer("highschool.pass_year")),
		},
		Scholarship: Scholarship{
			Received:        get("scholarship.received"),
			ScholarshipName: get("scholarship.scholarship_name"),
		},
	}

	for field, msg := range s.Validate() {
		fe.add(field, msg)
	}
	return s, fe
}

// Validate applies the registration form rules.
func (s Student) Validate() FieldErrors {
	fe := FieldErrors{}

	requireName := func(field, value, label string, pattern *regexp.Regexp) {
		switch {
		case value == "":
			fe.add(field, label+" is required")
		case !pattern.MatchString(value):
			fe.add(field, invalidFormat)
		}
	}
	requireNumber := func(field string, value int64, label string) {
		switch {
		case value == 0:
			fe.add(field, label+" is required")
		case value < 0:
			fe.add(field, invalidFormat)
		}
	}
	requireText := func(field, value, label string) {
		if value == "" {
			fe.add(field, label+" is required")
		}
	}
	oneOf := func(field, value, label string, allowed []string) {
		switch {
		case value == "" || strings.EqualFold(value, "select"):
			fe.add(field, label+" is required")
		case !slices.Contains(allowed, strings.ToLower(value)):
			fe.add(field, invalidFormat)
		}
	}

	requireName("firstname", s.FirstName, "First Name", namePattern)
	if s.MiddleName != "" && !namePattern.MatchString(s.MiddleName) {
		fe.add("middlename", invalidFormat)
	}
	requireName("lastname", s.LastName, "Last Name", namePattern)

	requireText("email", s.Email, "Email")
	if s.Email != "" {
		if _, err := mail.ParseAddress(s.Email); err != nil {
			fe.add("email", invalidFormat)
		}
	}

	requireNumber("phone_number", s.PhoneNumber, "Phone number")
	oneOf("gender", s.Gender, "Gender", Genders)
	requireText("address", s.Address, "Address")
	requireText("city", s.City, "City")
	requireText("state", s.State, "State")
	requireNumber("pincode", int64(s.Pincode), "Pincode")

	requireName("guardian_name", s.GuardianName, "Guardian name", guardianPattern)
	requireNumber("guardian_contact", s.GuardianContact, "Guardian phone number")
	requireName("emergency_contact_name", s.EmergencyContactName, "Emergency contact name", namePattern)
	requireNumber("emergency_contact_number", s.EmergencyContactNumber, "Emergency contact phone")

	oneOf("secondaryschool.board_name", s.SecondarySchool.BoardName, "Education Board", SecondaryBoards)
	oneOf("highschool.board_name", s.HighSchool.BoardName, "Education Board", HighSchoolBoards)

	if p := s.SecondarySchool.Percentage; p < 0 || p > 100 {
		fe.add("secondaryschool.percentage", invalidFormat)
	}
	if p := s.HighSchool.Percentage; p < 0 || p > 100 {
		fe.add("highschool.percentage", invalidFormat)
	}

	if s.Scholarship.Received == ScholarshipReceived && s.Scholarship.ScholarshipName == "" {
		fe.add("scholarship.scholarship_name", "Scholarship name is required")
	}
	return fe
}
