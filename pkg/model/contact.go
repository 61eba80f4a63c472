package model

import (
	"strings"
	"time"
)

type ContactMessage struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name" validate:"required,min=2,max=100"`
	Email     string    `json:"email" validate:"required,email,max=254"`
	Subject   string    `json:"subject" validate:"required,min=5,max=200"`
	Message   string    `json:"message" validate:"required,min=10,max=5000"`
	Read      bool      `json:"read"`
	Responded bool      `json:"responded"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ContactReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type UpdateContactReq struct {
	Read      *bool `json:"read"`
	Responded *bool `json:"responded"`
}

type ListContactQuery struct {
	Page      string `form:"page"`
	Limit     string `form:"limit"`
	Read      string `form:"read"`
	Responded string `form:"responded"`
}

type ContactFilter struct {
	Read      *bool
	Responded *bool
}

// NewContactMessage trims every field, lower-cases the email and validates the bounds.
func NewContactMessage(req ContactReq) (*ContactMessage, error) {
	m := &ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
	}
	if err := validateStruct(m, nil); err != nil {
		return nil, err
	}
	return m, nil
}

// ParseContactFilter reads the optional read/responded flags; anything other
// than "true" or "false" leaves the flag unfiltered.
func ParseContactFilter(q ListContactQuery) ContactFilter {
	return ContactFilter{
		Read:      parseFlag(q.Read),
		Responded: parseFlag(q.Responded),
	}
}

func parseFlag(s string) *bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}

// Validate rejects an update that changes nothing.
func (r UpdateContactReq) Validate() error {
	if r.Read == nil && r.Responded == nil {
		return &ValidationError{Fields: map[string]string{"read": "read or responded is required"}}
	}
	return nil
}
