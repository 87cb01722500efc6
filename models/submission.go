package models

import "time"

// SubmissionRecord is the audit entry written after each confirmed wizard
// submission, including warnings from best-effort post-creation steps.
type SubmissionRecord struct {
	ID             string    `bson:"id" json:"id"`
	OrderID        int64     `bson:"orderId" json:"orderId"`
	ClientID       int64     `bson:"clientId" json:"clientId"`
	PartnerID      int64     `bson:"partnerId" json:"partnerId"`
	OperatorID     string    `bson:"operatorId,omitempty" json:"operatorId,omitempty"`
	UploadedPaths  []string  `bson:"uploadedPaths,omitempty" json:"uploadedPaths,omitempty"`
	InvitedIDs     []string  `bson:"invitedIds,omitempty" json:"invitedIds,omitempty"`
	Warnings       []string  `bson:"warnings,omitempty" json:"warnings,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}
