package domain

type Entity string

const (
	EntityApplicant Entity = "applicant"
	EntitySponsor   Entity = "sponsor"
	EntityDependant Entity = "dependant"
	EntityShared    Entity = "shared"
	EntityUnknown   Entity = "unknown"
)

// DefaultDocumentType is assigned when no classification rule matches.
const DefaultDocumentType = "document"

type PathClassification struct {
	Who           Entity `json:"who"`
	DocumentType  string `json:"document_type"`
	Date          string `json:"date,omitempty"`
	GeneratedName string `json:"generated_name"`
}
