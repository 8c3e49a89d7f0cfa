// Package models defines shared data types for the application.
package models

import (
	"time"
)

// InterviewStatus is the outcome of an interview.
type InterviewStatus string

// InterviewStatus constants define the closed set of interview outcomes.
const (
	InterviewStatusOffer     InterviewStatus = "offer"
	InterviewStatusReject    InterviewStatus = "reject"
	InterviewStatusScheduled InterviewStatus = "scheduled"
	InterviewStatusPending   InterviewStatus = "pending"
	InterviewStatusCanceled  InterviewStatus = "canceled"
)

// InterviewStatuses lists every status in display order.
var InterviewStatuses = []InterviewStatus{
	InterviewStatusOffer,
	InterviewStatusReject,
	InterviewStatusScheduled,
	InterviewStatusPending,
	InterviewStatusCanceled,
}

// IsValid reports whether s is one of the known statuses.
func (s InterviewStatus) IsValid() bool {
	for _, st := range InterviewStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Stage is a single step of an interview (screening call, tech round...).
// It only exists embedded in an Interview.
type Stage struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Date    string `json:"date,omitempty"` // free text, not parsed
	Comment string `json:"comment,omitempty"`
}

// Interview is one tracked job application, stored as a document under
// users/{userId}/interviews/{id}.
type Interview struct {
	ID          string `json:"id"`
	CompanyName string `json:"companyName"`
	VacancyLink string `json:"vacancyLink"`
	HRName      string `json:"hrName"`

	// contacts
	TelegramUsername *string `json:"telegramUsername,omitempty"`
	WhatsAppUsername *string `json:"whatsAppUsername,omitempty"`
	HRPhoneNumber    *string `json:"hrPhoneNumber,omitempty"`

	// salary range; min <= max is not enforced
	SalaryFrom *int `json:"salaryFrom,omitempty"`
	SalaryTo   *int `json:"salaryTo,omitempty"`

	Stages []Stage         `json:"stages,omitempty"`
	Status InterviewStatus `json:"status"`

	CreatedAt time.Time `json:"createdAt"`
}

// InterviewInput is what the add/edit form collects before an Interview exists.
type InterviewInput struct {
	CompanyName      string          `json:"companyName" validate:"required"`
	VacancyLink      string          `json:"vacancyLink" validate:"required,url"`
	HRName           string          `json:"hrName" validate:"required"`
	TelegramUsername *string         `json:"telegramUsername,omitempty" validate:"omitempty,min=1"`
	WhatsAppUsername *string         `json:"whatsAppUsername,omitempty" validate:"omitempty,min=1"`
	HRPhoneNumber    *string         `json:"hrPhoneNumber,omitempty" validate:"omitempty,min=3"`
	SalaryFrom       *int            `json:"salaryFrom,omitempty" validate:"omitempty,min=0"`
	SalaryTo         *int            `json:"salaryTo,omitempty" validate:"omitempty,min=0"`
	Stages           []Stage         `json:"stages,omitempty" validate:"dive"`
	Status           InterviewStatus `json:"status,omitempty" validate:"omitempty,oneof=offer reject scheduled pending canceled"`
}

// Fields returns the input as a document field map suitable for a partial merge.
// Unset optional fields are left out so they keep their stored value.
func (in InterviewInput) Fields() map[string]any {
	fields := map[string]any{
		"companyName": in.CompanyName,
		"vacancyLink": in.VacancyLink,
		"hrName":      in.HRName,
	}
	if in.TelegramUsername != nil {
		fields["telegramUsername"] = *in.TelegramUsername
	}
	if in.WhatsAppUsername != nil {
		fields["whatsAppUsername"] = *in.WhatsAppUsername
	}
	if in.HRPhoneNumber != nil {
		fields["hrPhoneNumber"] = *in.HRPhoneNumber
	}
	if in.SalaryFrom != nil {
		fields["salaryFrom"] = *in.SalaryFrom
	}
	if in.SalaryTo != nil {
		fields["salaryTo"] = *in.SalaryTo
	}
	if in.Stages != nil {
		fields["stages"] = in.Stages
	}
	if in.Status != "" {
		fields["status"] = in.Status
	}
	return fields
}

// InterviewStats counts interviews per status.
type InterviewStats struct {
	Total    int                     `json:"total"`
	ByStatus map[InterviewStatus]int `json:"by_status"`
}

// CountInterviews tallies list. Every known status is present in ByStatus,
// zero when unused.
func CountInterviews(list []Interview) InterviewStats {
	stats := InterviewStats{ByStatus: make(map[InterviewStatus]int, len(InterviewStatuses))}
	for _, st := range InterviewStatuses {
		stats.ByStatus[st] = 0
	}
	for _, iv := range list {
		stats.ByStatus[iv.Status]++
		stats.Total++
	}
	return stats
}
