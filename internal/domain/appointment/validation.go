package appointment

import (
	"time"

	"github.com/slotbook/booking-saas/internal/timezone"
)

// Reason is the closed set of outcomes of validating a candidate slot.
type Reason string

const (
	ReasonOK             Reason = "ok"
	ReasonInvalidFormat  Reason = "invalid_format"
	ReasonPastDate       Reason = "past_date"
	ReasonPastTime       Reason = "past_time"
	ReasonClosedDay      Reason = "closed_day"
	ReasonOutsideHours   Reason = "outside_hours"
	ReasonExceedsClosing Reason = "exceeds_closing"
	ReasonSlotTaken      Reason = "slot_taken"
)

var reasonMessages = map[Reason]string{
	ReasonOK:             "Available",
	ReasonInvalidFormat:  "Invalid time format",
	ReasonPastDate:       "Date is in the past",
	ReasonPastTime:       "Time slot is in the past",
	ReasonClosedDay:      "Provider not available on this day",
	ReasonOutsideHours:   "Outside business hours",
	ReasonExceedsClosing: "Service cannot be completed before closing time",
	ReasonSlotTaken:      "Time slot already booked",
}

func (r Reason) Message() string {
	if m, ok := reasonMessages[r]; ok {
		return m
	}
	return string(r)
}

type ValidationResult struct {
	OK     bool   `json:"ok"`
	Reason Reason `json:"reason"`
}

func Valid() ValidationResult {
	return ValidationResult{OK: true, Reason: ReasonOK}
}

func Rejected(r Reason) ValidationResult {
	return ValidationResult{Reason: r}
}

// CandidateParams carries everything but the conflict check.
type CandidateParams struct {
	Date            string
	Time            string
	DurationMinutes int
	Now             time.Time
	// Hours resolves the effective hours for the parsed date; ok=false
	// means the day is closed.
	Hours func(date time.Time) (EffectiveHours, bool, error)
}

// CandidateSlot is a candidate that passed every rule except the conflict check.
type CandidateSlot struct {
	Date    time.Time
	Minutes int
}

func (s CandidateSlot) DateString() string {
	return s.Date.Format(timezone.DateLayout)
}

func (s CandidateSlot) TimeString() string {
	return timezone.FormatHM(s.Minutes)
}

// CheckCandidate applies format, past, closed-day, within-hours and
// fits-before-close rules in that order and returns the first failure.
func CheckCandidate(p CandidateParams) (CandidateSlot, ValidationResult, error) {
	loc := p.Now.Location()

	date, err := timezone.ParseDate(p.Date, loc)
	if err != nil {
		return CandidateSlot{}, Rejected(ReasonInvalidFormat), nil
	}
	minutes, err := timezone.ParseHM(p.Time)
	if err != nil {
		return CandidateSlot{}, Rejected(ReasonInvalidFormat), nil
	}

	today := timezone.DayStart(p.Now)
	if date.Before(today) {
		return CandidateSlot{}, Rejected(ReasonPastDate), nil
	}
	if timezone.SameDay(date, p.Now) && timezone.At(date, minutes, loc).Before(p.Now) {
		return CandidateSlot{}, Rejected(ReasonPastTime), nil
	}

	hours, open, err := p.Hours(date)
	if err != nil {
		return CandidateSlot{}, ValidationResult{}, err
	}
	if !open {
		return CandidateSlot{}, Rejected(ReasonClosedDay), nil
	}

	if minutes < hours.Start || minutes >= hours.End {
		return CandidateSlot{}, Rejected(ReasonOutsideHours), nil
	}
	if minutes+p.DurationMinutes > hours.End {
		return CandidateSlot{}, Rejected(ReasonExceedsClosing), nil
	}

	return CandidateSlot{Date: date, Minutes: minutes}, Valid(), nil
}
