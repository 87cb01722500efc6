package models

import "time"

// Wizard steps, in order.
const (
	StepClient      = 1
	StepDetails     = 2
	StepPartner     = 3
	StepInvitations = 4
	StepConfirm     = 5
)

// WizardSession holds the order-creation wizard state between steps.
type WizardSession struct {
	SessionID   string     `json:"sessionId"`
	OperatorID  string     `json:"operatorId,omitempty"`
	CurrentStep int        `json:"currentStep"`
	Draft       DraftOrder `json:"draft"`
	Submitting  bool       `json:"submitting"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// ImageCount returns the number of images currently attached to the draft.
func (s *WizardSession) ImageCount() int {
	if s.Draft.ServiceDetails == nil {
		return 0
	}
	return len(s.Draft.ServiceDetails.Images)
}
