package notification

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/hibiken/asynq"
)

const TypeAppointmentNotification = "appointment:notify"

const (
	MaxRetry    = 3
	baseBackoff = 60 * time.Second
)

type Kind string

const (
	KindConfirmation Kind = "confirmation"
	KindReminder     Kind = "reminder"
	KindCancellation Kind = "cancellation"
)

func (k Kind) Valid() bool {
	switch k {
	case KindConfirmation, KindReminder, KindCancellation:
		return true
	}
	return false
}

type Payload struct {
	Kind          Kind `json:"kind"`
	AppointmentID uint `json:"appointment_id"`
	SendSMS       bool `json:"send_sms"`
}

func NewTask(p Payload) (*asynq.Task, error) {
	if !p.Kind.Valid() {
		return nil, fmt.Errorf("unknown notification kind %q", p.Kind)
	}

	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TypeAppointmentNotification,
		b,
		asynq.MaxRetry(MaxRetry),
		asynq.Timeout(30*time.Second),
	), nil
}

func ParsePayload(t *asynq.Task) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return Payload{}, err
	}
	if !p.Kind.Valid() || p.AppointmentID == 0 {
		return Payload{}, fmt.Errorf("invalid notification payload %s", string(t.Payload()))
	}
	return p, nil
}

// Backoff doubles the wait after each failed attempt: 60s, 120s, 240s.
func Backoff(n int, _ error, _ *asynq.Task) time.Duration {
	if n < 0 {
		n = 0
	}
	return time.Duration(float64(baseBackoff) * math.Pow(2, float64(n)))
}
