package dispatch

import (
	"errors"
	"time"

	"rcs-gateway/internal/rcs"
)

// SendFunc performs one outbound send and returns the provider message uuid.
type SendFunc func(payload *rcs.Payload) (string, error)

// Result is the outcome for one recipient in a batch.
type Result struct {
	PhoneNumber string `json:"phoneNumber"`
	Success     bool   `json:"success"`
	MessageUUID string `json:"message_uuid,omitempty"`
	Error       string `json:"error,omitempty"`
}

// ErrNoRecipients is reported before any send is attempted.
var ErrNoRecipients = errors.New("phoneNumbers must be a non-empty array")

// DefaultDelay is the courtesy pause between consecutive sends, keeping the
// batch under third-party rate limits.
const DefaultDelay = 100 * time.Millisecond

// Dispatcher fans one base payload out to many recipients. Sends run
// strictly one at a time so the results list stays in recipient order and
// the provider never sees a burst.
type Dispatcher struct {
	Delay time.Duration
}

func New() *Dispatcher {
	return &Dispatcher{Delay: DefaultDelay}
}

// Dispatch substitutes each recipient into the base payload's `to` field and
// sends. Every attempt is recorded, success or not; one failure never aborts
// the batch.
func (d *Dispatcher) Dispatch(base rcs.Payload, phoneNumbers []string, send SendFunc) ([]Result, error) {
	if len(phoneNumbers) == 0 {
		return nil, ErrNoRecipients
	}

	results := make([]Result, 0, len(phoneNumbers))
	for i, number := range phoneNumbers {
		if i > 0 && d.Delay > 0 {
			time.Sleep(d.Delay)
		}

		payload := base
		payload.To = number

		uuid, err := send(&payload)
		if err != nil {
			results = append(results, Result{PhoneNumber: number, Error: err.Error()})
			continue
		}
		results = append(results, Result{PhoneNumber: number, Success: true, MessageUUID: uuid})
	}

	return results, nil
}
