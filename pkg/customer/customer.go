// Package customer defines the customer record managed by the CRM backend,
// together with the payloads used to create, update, and list customers.
package customer

import (
	"strconv"
	"time"
)

var (
	// Letters are the valid letter tiers, in display order.
	Letters = []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}

	// Levels are the valid level tiers, in display order.
	Levels = []string{"I", "II", "III", "IV", "V", "VI"}
)

// Customer is a single CRM record.
type Customer struct {
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	FullName    string    `json:"nomeCompleto"`
	Email       string    `json:"email"`
	WhatsApp    string    `json:"whatsapp"`
	Letter      string    `json:"letraAtual"`
	Level       string    `json:"nivel"`
	ID          int       `json:"id"`
	ADTS        float64   `json:"adtsAtual"`
	YearJoined  int       `json:"anoIngresso"`
	HasLawsuits bool      `json:"possuiProcessos"`
	Conditions  bool      `json:"conditions"`
	Newsletter  bool      `json:"newsletter"`
}

// Key returns the string form of the customer's identifier.
func (c *Customer) Key() string {
	return strconv.Itoa(c.ID)
}

// CreateRequest returns a [CreateRequest] carrying the customer's mutable
// fields.
func (c *Customer) CreateRequest() *CreateRequest {
	return &CreateRequest{
		FullName:    c.FullName,
		Email:       c.Email,
		WhatsApp:    c.WhatsApp,
		Letter:      c.Letter,
		Level:       c.Level,
		YearJoined:  c.YearJoined,
		ADTS:        c.ADTS,
		HasLawsuits: c.HasLawsuits,
		Conditions:  c.Conditions,
		Newsletter:  c.Newsletter,
	}
}

// Apply returns a copy of the customer with the fields set in u applied.
func (c Customer) Apply(u *UpdateRequest) Customer {
	if u == nil {
		return c
	}

	if u.FullName != nil {
		c.FullName = *u.FullName
	}
	if u.Email != nil {
		c.Email = *u.Email
	}
	if u.WhatsApp != nil {
		c.WhatsApp = *u.WhatsApp
	}
	if u.Letter != nil {
		c.Letter = *u.Letter
	}
	if u.Level != nil {
		c.Level = *u.Level
	}
	if u.YearJoined != nil {
		c.YearJoined = *u.YearJoined
	}
	if u.ADTS != nil {
		c.ADTS = *u.ADTS
	}
	if u.HasLawsuits != nil {
		c.HasLawsuits = *u.HasLawsuits
	}
	if u.Conditions != nil {
		c.Conditions = *u.Conditions
	}
	if u.Newsletter != nil {
		c.Newsletter = *u.Newsletter
	}

	return c
}

// Fields returns the customer as a map keyed by its JSON field names. It is
// used as the evaluation input for filter and highlight expressions.
func (c *Customer) Fields() map[string]any {
	return map[string]any{
		"id":              int64(c.ID),
		"nomeCompleto":    c.FullName,
		"email":           c.Email,
		"whatsapp":        c.WhatsApp,
		"letraAtual":      c.Letter,
		"nivel":           c.Level,
		"adtsAtual":       c.ADTS,
		"anoIngresso":     int64(c.YearJoined),
		"possuiProcessos": c.HasLawsuits,
		"conditions":      c.Conditions,
		"newsletter":      c.Newsletter,
		"createdAt":       c.CreatedAt,
		"updatedAt":       c.UpdatedAt,
	}
}
