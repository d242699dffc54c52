package entity

import "time"

// Safety-critical document types checked before a flight is committed
const (
	DocTypeMedical = "Medical Certificate"
	DocTypeLicense = "License"
)

// ComplianceRecord is one training or qualification document held by a crew
// member
type ComplianceRecord struct {
	ID         string    `bson:"_id,omitempty"`
	CrewCode   string    `bson:"crewCode"`
	Type       string    `bson:"type"`
	Reference  string    `bson:"reference,omitempty"`
	IssueDate  time.Time `bson:"issueDate,omitempty"`
	ExpiryDate time.Time `bson:"expiryDate"`
	CreatedAt  time.Time `bson:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt"`
}

// IsSafetyCritical reports whether the document type participates in
// pre-commit currency checks
func (r *ComplianceRecord) IsSafetyCritical() bool {
	return r.Type == DocTypeMedical || r.Type == DocTypeLicense
}
