package models

// ImageDraft is an image attached to the service-details step.
//
// A draft is either "initial" (URL points at an image the backend already
// stores; there is no staged file and the preview is never released by this
// service) or staged (StagedID identifies a transient preview owned by the
// staging store, released when the image is removed or the session ends).
type ImageDraft struct {
	URL      string `json:"url"`
	Name     string `json:"name,omitempty"`
	StagedID string `json:"stagedId,omitempty"`
	Initial  bool   `json:"initial"`
}

// ServiceDetails holds the intervention fields collected on step 2.
type ServiceDetails struct {
	Date        string       `json:"date"`
	Time        string       `json:"time"`
	Description string       `json:"description"`
	Images      []ImageDraft `json:"images"`
}

// DraftOrder accumulates the wizard's state across steps. It lives only for
// the lifetime of the wizard session and is consumed exactly once on confirm.
type DraftOrder struct {
	Client               *ClientRef          `json:"client,omitempty"`
	ServiceDetails       *ServiceDetails     `json:"serviceDetails,omitempty"`
	Partner              *PartnerRef         `json:"partner,omitempty"`
	MatchedPrestataire   *Prestataire        `json:"matchedPrestataire,omitempty"`
	SelectedPrestataires []PrestataireOption `json:"selectedPrestataires,omitempty"`
}

// Order is the backend-persisted service order created on confirm.
type Order struct {
	ID                int64    `json:"id"`
	ClientID          int64    `json:"client_id"`
	PartnerID         int64    `json:"partner_id"`
	DateIntervention  string   `json:"date_intervention"`
	HeureIntervention string   `json:"heure_intervention"`
	Description       string   `json:"description"`
	Status            string   `json:"status,omitempty"`
	Images            []string `json:"images"`
}

// SubmissionResult is returned to the caller after a confirmed submission.
// Warnings carry non-fatal failures from the upload/patch/invite steps.
type SubmissionResult struct {
	Order    Order    `json:"order"`
	Warnings []string `json:"warnings,omitempty"`
}
