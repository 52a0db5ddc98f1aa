package model

// Evidence validation verdicts.
const (
	EvidenceValid      = "valid"
	EvidenceSuspicious = "suspicious"
)

// EvidenceArtifact is an opaque proof-of-work record. The progression core
// only ever reads IDs and validation status; bytes live in the storage
// provider under StorageKey.
type EvidenceArtifact struct {
	BaseModel
	TicketID         uint   `gorm:"index;not null" json:"ticketId"`
	ArtifactType     string `gorm:"size:50;not null" json:"artifactType"` // before_screenshot, after_screenshot, log
	StorageKey       string `gorm:"size:255;not null" json:"storageKey"`
	OriginalFilename string `gorm:"size:255" json:"originalFilename"`
	FileSizeBytes    int64  `json:"fileSizeBytes"`
	MimeType         string `gorm:"size:100" json:"mimeType"`
	Checksum         string `gorm:"size:64" json:"checksum"`
	ValidationStatus string `gorm:"size:20;not null;default:'valid'" json:"validationStatus"`
	ValidationNotes  string `gorm:"size:255" json:"validationNotes"`
}

func (EvidenceArtifact) TableName() string {
	return "evidence_artifacts"
}
