package models

import (
	"time"

	"gorm.io/gorm"
)

// KYCSubmission is one merchant verification case in the review queue.
type KYCSubmission struct {
	gorm.Model
	MerchantID        uint   `gorm:"index;not null"`
	Status            string `gorm:"default:'pending'"`
	RequiredDocuments int    `gorm:"default:4"`
	ReviewedBy        uint
	ReviewedAt        *time.Time
	ReviewNote        string
	Documents         []KYCDocument `gorm:"foreignKey:SubmissionID"`
}

// KYCDocument is a single uploaded document within a submission.
type KYCDocument struct {
	gorm.Model
	SubmissionID uint   `gorm:"index;not null"`
	DocumentType string `gorm:"not null"`
	Status       string `gorm:"default:'pending'"`
	ScanURL      string
	RejectReason string
}

// KYC document types
const (
	DocumentTypeBusinessRegistration = "business_registration"
	DocumentTypeTaxCertificate       = "tax_certificate"
	DocumentTypeOwnerID              = "owner_id"
	DocumentTypeBankStatement        = "bank_statement"
	DocumentTypeProofOfAddress       = "proof_of_address"
)

// Document verification statuses
const (
	DocumentStatusPending  = "pending"
	DocumentStatusVerified = "verified"
	DocumentStatusRejected = "rejected"
)

// VerifiedDocumentCount counts documents that passed review.
func (s *KYCSubmission) VerifiedDocumentCount() int {
	count := 0
	for _, d := range s.Documents {
		if d.Status == DocumentStatusVerified {
			count++
		}
	}
	return count
}
