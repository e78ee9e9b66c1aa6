package admin

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// At-risk criteria: low attendance or a "Needs Improvement" performance label.
const (
	AtRiskAttendance = 75
	NeedsImprovement = "Needs Improvement"

	SeverityHigh   = "high"
	SeverityMedium = "medium"

	AtRiskLimit           = 10
	DonorSubmissionsLimit = 50
)

type Stats struct {
	TotalUsers     int `json:"totalUsers"`
	Students       int `json:"students"`
	Teachers       int `json:"teachers"`
	TotalDonations int `json:"totalDonations"`
	ActiveCases    int `json:"activeCases"`
}

// RoleCounts is the number of users per role.
type RoleCounts struct {
	Students int `db:"students"`
	Teachers int `db:"teachers"`
	Admins   int `db:"admins"`
}

func (rc RoleCounts) Total() int { return rc.Students + rc.Teachers + rc.Admins }

type RoleShare struct {
	Count      int    `json:"count"`
	Percentage string `json:"percentage"`
}

type RoleDistribution struct {
	Students RoleShare `json:"students"`
	Teachers RoleShare `json:"teachers"`
	Admins   RoleShare `json:"admins"`
}

// AtRiskRecord is the stored data behind an AtRiskStudent.
type AtRiskRecord struct {
	Name        string      `db:"name"`
	Email       string      `db:"email"`
	Grade       null.String `db:"grade"`
	Attendance  float64     `db:"attendance"`
	Performance string      `db:"performance"`
}

type AtRiskStudent struct {
	Name        string `json:"name"`
	Grade       string `json:"grade"`
	Attendance  string `json:"attendance"`
	Performance string `json:"performance"`
	Severity    string `json:"severity"`
}

type DonorSubmission struct {
	ID              string      `json:"id" db:"id"`
	FullName        string      `json:"fullName" db:"full_name"`
	Email           string      `json:"email" db:"email"`
	PhoneNumber     string      `json:"phoneNumber" db:"phone_number"`
	Organization    null.String `json:"organization" db:"organization"`
	DonationType    null.String `json:"donationType" db:"donation_type"`
	PaymentMethod   null.String `json:"paymentMethod" db:"payment_method"`
	EstimatedAmount null.String `json:"estimatedAmount" db:"estimated_amount"`
	Reason          null.String `json:"reason" db:"reason"`
	ReceiveUpdates  bool        `json:"receiveUpdates" db:"receive_updates"`
	SubmittedAt     time.Time   `json:"submittedAt" db:"submitted_at"`
}
