package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/campusfest/eventhub-api/internal/domain"
)

var errInvalidEventID = errors.New("Invalid event id")

// FlexString accepts a JSON string or number; the registration form posts
// select values either way.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = FlexString(n.String())
	return nil
}

func (s FlexString) String() string {
	return strings.TrimSpace(string(s))
}

type RegisterEventRequest struct {
	EventID  FlexString `json:"eventId"`
	USN      string     `json:"usn"`
	Name     string     `json:"name"`
	Year     FlexString `json:"year"`
	Branch   string     `json:"branch"`
	Semester FlexString `json:"semester"`
}

func (req *RegisterEventRequest) Validate() error {
	req.normalize()
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.EventID, validation.Required),
		validation.Field(&req.USN, validation.Required),
		validation.Field(&req.Name, validation.Required),
		validation.Field(&req.Year, validation.Required),
		validation.Field(&req.Branch, validation.Required),
	)
	if err != nil {
		return ErrAllFieldsRequired
	}

	if _, err = req.eventID(); err != nil {
		return errInvalidEventID
	}

	return nil
}

// normalize trims every field so that blank values fail Required.
func (req *RegisterEventRequest) normalize() {
	req.EventID = FlexString(req.EventID.String())
	req.USN = strings.TrimSpace(req.USN)
	req.Name = strings.TrimSpace(req.Name)
	req.Year = FlexString(req.Year.String())
	req.Branch = strings.TrimSpace(req.Branch)
	req.Semester = FlexString(req.Semester.String())
}

func (req *RegisterEventRequest) eventID() (uint, error) {
	id, err := strconv.ParseUint(req.EventID.String(), 10, 32)
	if err != nil || id == 0 {
		return 0, errInvalidEventID
	}
	return uint(id), nil
}

// ToDomain must only be called after Validate succeeded.
func (req *RegisterEventRequest) ToDomain() domain.Booking {
	id, _ := req.eventID()
	return domain.Booking{
		EventID:  id,
		USN:      req.USN,
		Name:     strings.TrimSpace(req.Name),
		Year:     req.Year.String(),
		Branch:   strings.TrimSpace(req.Branch),
		Semester: req.Semester.String(),
	}
}
