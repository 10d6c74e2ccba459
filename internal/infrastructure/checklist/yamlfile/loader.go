// Package yamlfile loads visa route checklists from YAML documents.
package yamlfile

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/evidence-organizer/internal/core/domain"
)

//go:embed default.yaml
var defaultChecklists []byte

type document struct {
	Routes []routeDoc `yaml:"routes"`
}

type routeDoc struct {
	Route    string        `yaml:"route"`
	Name     string        `yaml:"name"`
	Evidence []evidenceDoc `yaml:"evidence"`
	Combined []combinedDoc `yaml:"combined"`
}

type evidenceDoc struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Mandatory   bool   `yaml:"mandatory"`
}

type combinedDoc struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Relationship string   `yaml:"relationship"`
	Evidence     []string `yaml:"evidence"`
}

// Source serves checklists parsed once at construction.
type Source struct {
	routes map[string]domain.Checklist
	order  []string
}

// Default returns the embedded checklists.
func Default() (*Source, error) {
	return Parse(defaultChecklists)
}

// Load reads path, or falls back to the embedded checklists when path is empty.
func Load(path string) (*Source, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read checklist file: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Source, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "decode checklist yaml", err)
	}
	if len(doc.Routes) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "decode checklist yaml", errors.New("no routes defined"))
	}

	src := &Source{routes: make(map[string]domain.Checklist, len(doc.Routes))}
	for _, rd := range doc.Routes {
		cl, err := rd.toChecklist()
		if err != nil {
			return nil, domain.WrapError(domain.ErrInvalidInput, fmt.Sprintf("route %q", rd.Route), err)
		}
		if _, dup := src.routes[cl.Route]; dup {
			return nil, domain.WrapError(domain.ErrInvalidInput, "decode checklist yaml", fmt.Errorf("duplicate route %q", cl.Route))
		}
		src.routes[cl.Route] = cl
		src.order = append(src.order, cl.Route)
	}
	return src, nil
}

func (s *Source) Checklist(_ context.Context, route string) (domain.Checklist, error) {
	cl, ok := s.routes[route]
	if !ok {
		return domain.Checklist{}, domain.WrapError(domain.ErrChecklistNotFound, "checklist", fmt.Errorf("route %q", route))
	}
	return cloneChecklist(cl), nil
}

// Routes lists route keys in file order.
func (s *Source) Routes() []string {
	return append([]string(nil), s.order...)
}

func (rd routeDoc) toChecklist() (domain.Checklist, error) {
	route := strings.TrimSpace(rd.Route)
	if route == "" {
		return domain.Checklist{}, errors.New("route key is required")
	}

	cl := domain.Checklist{
		Route:    route,
		Name:     strings.TrimSpace(rd.Name),
		Evidence: make([]domain.RequiredEvidence, 0, len(rd.Evidence)),
		Combined: make([]domain.CombinedEvidenceGroup, 0, len(rd.Combined)),
	}

	seen := make(map[string]struct{}, len(rd.Evidence))
	for _, ed := range rd.Evidence {
		id := strings.TrimSpace(ed.ID)
		if id == "" || strings.TrimSpace(ed.Name) == "" {
			return domain.Checklist{}, fmt.Errorf("evidence entries need id and name (got id=%q)", ed.ID)
		}
		if _, dup := seen[id]; dup {
			return domain.Checklist{}, fmt.Errorf("duplicate evidence id %q", id)
		}
		seen[id] = struct{}{}
		cl.Evidence = append(cl.Evidence, domain.RequiredEvidence{
			ID:          id,
			Name:        strings.TrimSpace(ed.Name),
			Description: strings.TrimSpace(ed.Description),
			IsMandatory: ed.Mandatory,
		})
	}

	combinedSeen := make(map[string]struct{}, len(rd.Combined))
	for _, cd := range rd.Combined {
		id := strings.TrimSpace(cd.ID)
		if id == "" {
			return domain.Checklist{}, errors.New("combined groups need an id")
		}
		if _, dup := combinedSeen[id]; dup {
			return domain.Checklist{}, fmt.Errorf("duplicate combined group %q", id)
		}
		combinedSeen[id] = struct{}{}

		rel := domain.Relationship(strings.ToLower(strings.TrimSpace(cd.Relationship)))
		if rel == "" {
			rel = domain.RelationshipAll
		}
		if !rel.Valid() {
			return domain.Checklist{}, fmt.Errorf("combined group %q: unknown relationship %q", id, cd.Relationship)
		}
		if len(cd.Evidence) == 0 {
			return domain.Checklist{}, fmt.Errorf("combined group %q has no members", id)
		}
		for _, member := range cd.Evidence {
			if _, ok := seen[member]; !ok {
				return domain.Checklist{}, fmt.Errorf("combined group %q references unknown evidence %q", id, member)
			}
		}
		cl.Combined = append(cl.Combined, domain.CombinedEvidenceGroup{
			ID:           id,
			Name:         strings.TrimSpace(cd.Name),
			Relationship: rel,
			EvidenceIDs:  append([]string(nil), cd.Evidence...),
		})
	}
	return cl, nil
}

func cloneChecklist(cl domain.Checklist) domain.Checklist {
	out := cl
	out.Evidence = append([]domain.RequiredEvidence(nil), cl.Evidence...)
	out.Combined = make([]domain.CombinedEvidenceGroup, len(cl.Combined))
	for i, cg := range cl.Combined {
		cg.EvidenceIDs = append([]string(nil), cg.EvidenceIDs...)
		out.Combined[i] = cg
	}
	return out
}
