package domain

type Relationship string

const (
	RelationshipAll Relationship = "all"
	RelationshipAny Relationship = "any"
)

func (r Relationship) Valid() bool {
	return r == RelationshipAll || r == RelationshipAny
}

type RequiredEvidence struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	IsMandatory   bool   `json:"is_mandatory"`
	IsUploaded    bool   `json:"is_uploaded"`
	LinkedGroupID string `json:"linked_group_id,omitempty"`
}

type CombinedEvidenceGroup struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Relationship Relationship `json:"relationship"`
	EvidenceIDs  []string     `json:"evidence_ids"`
}

// Checklist is the route-specific set of evidence slots a case must satisfy.
type Checklist struct {
	Route    string                  `json:"route"`
	Name     string                  `json:"name"`
	Evidence []RequiredEvidence      `json:"evidence"`
	Combined []CombinedEvidenceGroup `json:"combined,omitempty"`
}
