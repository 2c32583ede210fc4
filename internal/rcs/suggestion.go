package rcs

import (
	"strings"
	"time"
)

// Suggestion is the wire shape of an RCS suggested action/reply chip.
// Only the fields relevant to the suggestion's type are populated.
type Suggestion struct {
	Type         string `json:"type"`
	Text         string `json:"text"`
	PostbackData string `json:"postback_data"`
	URL          string `json:"url,omitempty"`
	Description  string `json:"description,omitempty"`
	PhoneNumber  string `json:"phone_number,omitempty"`
	FallbackURL  string `json:"fallback_url,omitempty"`
	Latitude     string `json:"latitude,omitempty"`
	Longitude    string `json:"longitude,omitempty"`
	PinLabel     string `json:"pin_label,omitempty"`
	StartTime    string `json:"start_time,omitempty"`
	EndTime      string `json:"end_time,omitempty"`
	Title        string `json:"title,omitempty"`
}

// SuggestionInput is the raw form state for a single suggestion. All fields
// are optional strings; which ones matter depends on Type.
type SuggestionInput struct {
	Type             string `json:"type"`
	Text             string `json:"text"`
	Postback         string `json:"postback"`
	URL              string `json:"url"`
	Phone            string `json:"phone"`
	FallbackURL      string `json:"fallback_url"`
	Latitude         string `json:"latitude"`
	Longitude        string `json:"longitude"`
	PinLabel         string `json:"pin_label"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	EventTitle       string `json:"event_title"`
	EventDescription string `json:"event_description"`
}

// NormalizeSuggestion validates and shapes one suggestion. A suggestion
// missing any field its type requires is dropped (ok=false), never emitted
// half-built. Dropping is not an error: the live editor rebuilds the list on
// every keystroke and incomplete rows are expected.
func NormalizeSuggestion(in SuggestionInput) (*Suggestion, bool) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, false
	}

	postback := strings.TrimSpace(in.Postback)
	if postback == "" {
		postback = text
	}

	s := &Suggestion{Type: in.Type, Text: text, PostbackData: postback}

	switch in.Type {
	case "open_url":
		url := strings.TrimSpace(in.URL)
		if url == "" || (!strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://")) {
			return nil, false
		}
		s.URL = url
		s.Description = text

	case "dial":
		phone := strings.TrimSpace(in.Phone)
		if phone == "" {
			return nil, false
		}
		s.PhoneNumber = phone
		s.FallbackURL = strings.TrimSpace(in.FallbackURL)

	case "view_location":
		lat := strings.TrimSpace(in.Latitude)
		lng := strings.TrimSpace(in.Longitude)
		if lat == "" || lng == "" {
			return nil, false
		}
		s.Latitude = lat
		s.Longitude = lng
		s.PinLabel = strings.TrimSpace(in.PinLabel)
		s.FallbackURL = strings.TrimSpace(in.FallbackURL)

	case "create_calendar_event":
		start := strings.TrimSpace(in.StartTime)
		end := strings.TrimSpace(in.EndTime)
		title := strings.TrimSpace(in.EventTitle)
		desc := strings.TrimSpace(in.EventDescription)
		if start == "" || end == "" || title == "" || desc == "" {
			return nil, false
		}
		startAt, err := parseLocalDateTime(start)
		if err != nil {
			return nil, false
		}
		endAt, err := parseLocalDateTime(end)
		if err != nil {
			return nil, false
		}
		s.StartTime = startAt.UTC().Format(time.RFC3339)
		s.EndTime = endAt.UTC().Format(time.RFC3339)
		s.Title = title
		s.Description = desc
		s.FallbackURL = strings.TrimSpace(in.FallbackURL)

	default:
		// reply, share_location and anything else carry only the common fields
	}

	return s, true
}

// NormalizeSuggestions shapes a whole list, silently skipping entries that
// fail validation. It does not cap the list length; the consumer does.
func NormalizeSuggestions(ins []SuggestionInput) []Suggestion {
	var out []Suggestion
	for _, in := range ins {
		if s, ok := NormalizeSuggestion(in); ok {
			out = append(out, *s)
		}
	}
	return out
}

// datetime-local form values carry no zone; they are interpreted in the
// server's local time and re-emitted as UTC instants.
var localDateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func parseLocalDateTime(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	var lastErr error
	for _, layout := range localDateTimeLayouts {
		t, err := time.ParseInLocation(layout, v, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
