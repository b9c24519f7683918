package request

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/campusfest/eventhub-api/internal/domain"
)

var (
	errInvalidEligibility = errors.New("Eligibility must contain at least one valid year (1, 2, 3, or 4)")
	errInvalidDate        = errors.New("Date must be formatted as YYYY-MM-DD")
)

// EventForm is the multipart form used to create and update events. The
// image part is read separately by the handler.
type EventForm struct {
	Title       string   `form:"title"`
	Department  string   `form:"department"`
	Description string   `form:"description"`
	Date        string   `form:"date"`
	Time        string   `form:"time"`
	Location    string   `form:"location"`
	Category    string   `form:"category"`
	FirstPrice  string   `form:"firstPrice"`
	SecondPrice string   `form:"secondPrice"`
	ThirdPrice  string   `form:"thirdPrice"`
	Eligibility []string `form:"eligibility"`
}

func (f *EventForm) Validate() error {
	f.normalize()
	err := validation.ValidateStruct(
		f,
		validation.Field(&f.Title, validation.Required),
		validation.Field(&f.Department, validation.Required),
		validation.Field(&f.Description, validation.Required),
		validation.Field(&f.Date, validation.Required),
		validation.Field(&f.Time, validation.Required),
		validation.Field(&f.Location, validation.Required),
		validation.Field(&f.Category, validation.Required),
		validation.Field(&f.FirstPrice, validation.Required),
		validation.Field(&f.SecondPrice, validation.Required),
		validation.Field(&f.ThirdPrice, validation.Required),
	)
	if err != nil {
		return ErrAllFieldsRequired
	}

	_, err = f.ToDomain()
	return err
}

// normalize trims every text field so that blank values fail Required.
func (f *EventForm) normalize() {
	for _, field := range []*string{
		&f.Title, &f.Department, &f.Description, &f.Date, &f.Time, &f.Location,
		&f.Category, &f.FirstPrice, &f.SecondPrice, &f.ThirdPrice,
	} {
		*field = strings.TrimSpace(*field)
	}
}

// ToDomain converts the form, reporting the first field that does not parse.
func (f *EventForm) ToDomain() (domain.Event, error) {
	date, err := parseDate(f.Date)
	if err != nil {
		return domain.Event{}, err
	}

	prices := make([]float64, 3)
	for i, p := range []struct{ name, value string }{
		{"firstPrice", f.FirstPrice},
		{"secondPrice", f.SecondPrice},
		{"thirdPrice", f.ThirdPrice},
	} {
		v, err := strconv.ParseFloat(strings.TrimSpace(p.value), 64)
		if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return domain.Event{}, fmt.Errorf("%s must be a non-negative number", p.name)
		}
		prices[i] = v
	}

	eligibility, err := parseEligibility(f.Eligibility)
	if err != nil {
		return domain.Event{}, err
	}

	return domain.Event{
		Title:       strings.TrimSpace(f.Title),
		Department:  strings.TrimSpace(f.Department),
		Description: strings.TrimSpace(f.Description),
		Date:        date,
		Time:        strings.TrimSpace(f.Time),
		Location:    strings.TrimSpace(f.Location),
		Category:    strings.TrimSpace(f.Category),
		FirstPrice:  prices[0],
		SecondPrice: prices[1],
		ThirdPrice:  prices[2],
		Eligibility: eligibility,
	}, nil
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errInvalidDate
}

// parseEligibility accepts repeated fields, comma separated lists or both.
// Duplicates are dropped and order preserved.
func parseEligibility(values []string) ([]int, error) {
	seen := make(map[int]bool)
	var years []int
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			year, err := strconv.Atoi(part)
			if err != nil || year < 1 || year > 4 {
				return nil, errInvalidEligibility
			}
			if !seen[year] {
				seen[year] = true
				years = append(years, year)
			}
		}
	}
	if len(years) == 0 {
		return nil, errInvalidEligibility
	}
	return years, nil
}
