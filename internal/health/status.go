package health

import (
	"fmt"
	"strings"
)

// Status is an ordinal health bucket. Higher is better.
type Status int

const (
	StatusCritical Status = iota
	StatusPoor
	StatusModerate
	StatusGood
	StatusExcellent
)

var statusNames = [...]string{
	StatusCritical:  "critical",
	StatusPoor:      "poor",
	StatusModerate:  "moderate",
	StatusGood:      "good",
	StatusExcellent: "excellent",
}

// Statuses lists every bucket from worst to best.
func Statuses() []Status {
	return []Status{StatusCritical, StatusPoor, StatusModerate, StatusGood, StatusExcellent}
}

func (s Status) String() string {
	if s < StatusCritical || s > StatusExcellent {
		return fmt.Sprintf("status(%d)", int(s))
	}
	return statusNames[s]
}

// ParseStatus converts a bucket name back into a Status.
func ParseStatus(name string) (Status, error) {
	for i, n := range statusNames {
		if strings.EqualFold(name, n) {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", name)
}

// MarshalText encodes the status as its name.
func (s Status) MarshalText() ([]byte, error) {
	if s < StatusCritical || s > StatusExcellent {
		return nil, fmt.Errorf("invalid status %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name.
func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
