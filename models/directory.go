package models

// ClientRef is the client record as returned by the core backend. The wizard
// treats it as a pass-through and only requires ID to be present.
type ClientRef struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Address     string `json:"address,omitempty"`
}

// PartnerRef is a referring partner record. PrestataireID links a partner to
// its own prestataire account when one exists; the field may be zero.
type PartnerRef struct {
	ID            int64  `json:"id"`
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	PhoneNumber   string `json:"phone_number,omitempty"`
	PrestataireID int64  `json:"prestataire_id,omitempty"`
}

// Prestataire is a service provider record as returned by the core backend.
// Specialties arrive as a comma-separated string on the wire.
type Prestataire struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Specialties string `json:"specialties,omitempty"`
}

// PrestataireOption is a prestataire materialized for the invitation
// multi-select: Value holds the id, Label the full name.
type PrestataireOption struct {
	Value       string   `json:"value"`
	Label       string   `json:"label"`
	Email       string   `json:"email,omitempty"`
	Specialties []string `json:"specialties,omitempty"`
}
