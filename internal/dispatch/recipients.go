package dispatch

import (
	"errors"
	"io"
	"strings"
)

// ErrNoValidRecipients means the uploaded list contained no usable numbers.
var ErrNoValidRecipients = errors.New("no valid phone numbers found in CSV")

// ParseRecipients extracts normalized phone numbers from an uploaded
// recipient list: one number per line, every non-digit character stripped,
// blank lines skipped. The result is transient and never persisted.
func ParseRecipients(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var numbers []string
	for _, line := range strings.Split(string(data), "\n") {
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, strings.TrimSpace(line))
		if digits != "" {
			numbers = append(numbers, digits)
		}
	}

	if len(numbers) == 0 {
		return nil, ErrNoValidRecipients
	}
	return numbers, nil
}
