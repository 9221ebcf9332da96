package types

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the timestamp format stored on application records.
const DateLayout = "2006-01-02 15:04"

// Status is the lifecycle state of a submitted application.
type Status string

const (
	StatusApplied   Status = "Applied"
	StatusInterview Status = "Interview"
	StatusRejected  Status = "Rejected"
	StatusOffer     Status = "Offer"
	StatusWithdrawn Status = "Withdrawn"
)

// Statuses returns every status in display order.
func Statuses() []Status {
	return []Status{StatusApplied, StatusInterview, StatusRejected, StatusOffer, StatusWithdrawn}
}

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values. Matching is case-insensitive.
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	for _, st := range Statuses() {
		if strings.EqualFold(string(st), s) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusApplied, StatusInterview, StatusRejected, StatusOffer, StatusWithdrawn:
		return true
	}
	return false
}

// ApplicationRecord is one submitted application.
type ApplicationRecord struct {
	URL      string `json:"url" validate:"required"`
	Company  string `json:"company"`
	Platform string `json:"platform"`
	Date     string `json:"date"`
	Status   Status `json:"status" validate:"required,oneof=Applied Interview Rejected Offer Withdrawn"`
}

// NewApplicationRecord creates a record for a posting marked as applied at the given time.
func NewApplicationRecord(posting JobPosting, at time.Time) ApplicationRecord {
	return ApplicationRecord{
		URL:      posting.URL,
		Company:  posting.Company,
		Platform: posting.Platform,
		Date:     at.Format(DateLayout),
		Status:   StatusApplied,
	}
}
