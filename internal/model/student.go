package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus is the review state of a hostel application.
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "Pending"
	StatusApproved ApplicationStatus = "Approved"
	StatusRejected ApplicationStatus = "Rejected"
)

// Valid reports whether s is one of the enumerated statuses.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// FeeStatus tracks whether the hostel fee has been settled.
type FeeStatus string

const (
	FeeUnpaid FeeStatus = "Unpaid"
	FeePaid   FeeStatus = "Paid"
)

// Gender values accepted on an application.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Student is a hostel application owned by exactly one User.
type Student struct {
	ID          uuid.UUID         `json:"_id"`
	UserID      uuid.UUID         `json:"userId"`
	FullName    string            `json:"fullName"`
	RollNumber  string            `json:"rollNumber"`
	Email       string            `json:"email"`
	Mobile      string            `json:"mobile"`
	RoomNumber  string            `json:"roomNumber"`
	DOB         string            `json:"dob"`
	Father      string            `json:"father"`
	Gender      Gender            `json:"gender"`
	StudentID   string            `json:"studentId"`
	Faculty     string            `json:"faculty"`
	Department  string            `json:"department"`
	IssueDate   string            `json:"issueDate"`
	ExpiryDate  string            `json:"expiryDate"`
	AddressType string            `json:"addressType"`
	Nationality string            `json:"nationality"`
	State       string            `json:"state"`
	District    string            `json:"district"`
	BlockNumber int               `json:"blockNumber"`
	WardNumber  int               `json:"wardNumber"`
	Status      ApplicationStatus `json:"status"`
	FeeStatus   FeeStatus         `json:"feeStatus"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// StudentApplicationRequest is the payload for POST /api/students/register.
// Field order is the canonical order in which missing fields are reported.
type StudentApplicationRequest struct {
	FullName    string      `json:"fullName" binding:"notblank,max=100"`
	RollNumber  string      `json:"rollNumber" binding:"notblank,max=32"`
	Email       string      `json:"email" binding:"notblank,email,max=255"`
	Mobile      string      `json:"mobile" binding:"notblank,max=20"`
	Password    string      `json:"password" binding:"notblank,min=6,max=72"`
	RoomNumber  string      `json:"roomNumber" binding:"notblank,max=16"`
	DOB         string      `json:"dob" binding:"notblank,datetime=2006-01-02"`
	Father      string      `json:"father" binding:"notblank,max=100"`
	Gender      Gender      `json:"gender" binding:"notblank,oneof=Male Female Other"`
	StudentID   string      `json:"studentId" binding:"notblank,max=32"`
	Faculty     string      `json:"faculty" binding:"notblank,max=100"`
	Department  string      `json:"department" binding:"notblank,max=100"`
	IssueDate   string      `json:"issueDate" binding:"notblank,datetime=2006-01-02"`
	ExpiryDate  string      `json:"expiryDate" binding:"notblank,datetime=2006-01-02"`
	AddressType string      `json:"addressType" binding:"notblank,max=32"`
	Nationality string      `json:"nationality" binding:"notblank,max=64"`
	State       string      `json:"state" binding:"notblank,max=64"`
	District    string      `json:"district" binding:"notblank,max=64"`
	BlockNumber NumberText  `json:"blockNumber" binding:"notblank,number"`
	WardNumber  NumberText  `json:"wardNumber" binding:"notblank,number"`
}

// NumberText holds a numeric form field as text. It accepts a JSON number or
// a JSON string so blank inputs reach validation instead of failing decode.
type NumberText string

// UnmarshalJSON keeps strings as-is and any other literal as its raw text.
// null leaves the value blank.
func (n *NumberText) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null":
		*n = ""
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumberText(s)
	default:
		*n = NumberText(raw)
	}
	return nil
}

// UpdateStatusRequest is the payload for PUT /api/students/:id/status.
type UpdateStatusRequest struct {
	Status ApplicationStatus `json:"status" binding:"required,oneof=Pending Approved Rejected"`
}
