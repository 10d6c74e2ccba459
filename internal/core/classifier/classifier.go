// Package classifier derives who a file belongs to, what kind of document it is and
// which month it covers from nothing but its upload path and filename.
package classifier

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kirillkom/evidence-organizer/internal/core/domain"
)

var (
	yearPattern      = regexp.MustCompile(`(?:^|[^0-9])(20[0-9]{2})(?:[^0-9]|$)`)
	yearMonthPattern = regexp.MustCompile(`(?:^|[^0-9])(20[0-9]{2})-?(0[1-9]|1[0-2])(?:-?(?:0[1-9]|[12][0-9]|3[01]))?(?:[^0-9]|$)`)
	monthYearPattern = regexp.MustCompile(`(?:^|[^a-z])(` + monthAlternation() + `)(20[0-9]{2})(?:[^0-9]|$)`)
	separatorFolder  = strings.NewReplacer("_", " ", "-", " ")
)

// Classifier is safe for concurrent use; it holds only read-only rule tables.
type Classifier struct {
	entityRules []EntityRule
	typeRules   []TypeRule
}

func New() *Classifier {
	return NewWithRules(DefaultEntityRules, DefaultTypeRules)
}

func NewWithRules(entityRules []EntityRule, typeRules []TypeRule) *Classifier {
	return &Classifier{
		entityRules: append([]EntityRule(nil), entityRules...),
		typeRules:   append([]TypeRule(nil), typeRules...),
	}
}

func (c *Classifier) Classify(rawPath, filename string) domain.PathClassification {
	segments := splitPath(rawPath)
	withName := append(segments[:len(segments):len(segments)], strings.ToLower(filename))

	who := c.detectEntity(segments)
	rule, matched := c.detectType(withName)

	out := domain.PathClassification{
		Who:          who,
		DocumentType: domain.DefaultDocumentType,
	}
	if matched {
		out.DocumentType = rule.Type
		if rule.HasDate {
			out.Date = extractDate(withName)
		}
	}
	out.GeneratedName = generatedName(out)
	return out
}

func (c *Classifier) detectEntity(segments []string) domain.Entity {
	for _, segment := range segments {
		words := letterWords(segment)
		for _, rule := range c.entityRules {
			for _, keyword := range rule.Keywords {
				if containsWord(words, keyword) {
					return rule.Entity
				}
			}
		}
	}
	return domain.EntityUnknown
}

// containsWord matches keyword as a whole word or its plural ("children",
// "sponsors"), so "maintenance" does not count as "main".
func containsWord(words []string, keyword string) bool {
	for _, word := range words {
		rest, ok := strings.CutPrefix(word, keyword)
		if !ok {
			continue
		}
		switch rest {
		case "", "s", "es", "ren":
			return true
		}
	}
	return false
}

func letterWords(segment string) []string {
	return strings.FieldsFunc(segment, func(r rune) bool { return r < 'a' || r > 'z' })
}

func (c *Classifier) detectType(parts []string) (TypeRule, bool) {
	search := separatorFolder.Replace(strings.Join(parts, " "))
	for _, rule := range c.typeRules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(search, keyword) {
				return rule, true
			}
		}
	}
	return TypeRule{}, false
}

// extractDate returns MMYY, YY when only a year is present, or "" when neither is.
func extractDate(segments []string) string {
	monthNum, year := 0, 0
	compactMonth, compactYear := 0, 0

	for _, segment := range segments {
		if compactYear == 0 {
			compactMonth, compactYear = compactDate(segment)
		}
		if monthNum == 0 {
			monthNum = findMonth(segment)
		}
		if year == 0 {
			year = findYear(segment)
		}
	}

	if compactYear != 0 {
		monthNum, year = compactMonth, compactYear
	}

	switch {
	case year != 0 && monthNum != 0:
		return fmt.Sprintf("%02d%02d", monthNum, year%100)
	case year != 0:
		return fmt.Sprintf("%02d", year%100)
	default:
		return ""
	}
}

func compactDate(segment string) (int, int) {
	if m := monthYearPattern.FindStringSubmatch(segment); m != nil {
		if year := parseYear(m[2]); year != 0 {
			return monthNumber(m[1]), year
		}
	}
	if m := yearMonthPattern.FindStringSubmatch(segment); m != nil {
		if year := parseYear(m[1]); year != 0 {
			monthNum, _ := strconv.Atoi(m[2])
			return monthNum, year
		}
	}
	return 0, 0
}

func findMonth(segment string) int {
	for _, word := range letterWords(segment) {
		if n := monthNumber(word); n != 0 {
			return n
		}
	}
	return 0
}

func findYear(segment string) int {
	for _, m := range yearPattern.FindAllStringSubmatch(segment, -1) {
		if year := parseYear(m[1]); year != 0 {
			return year
		}
	}
	return 0
}

func parseYear(raw string) int {
	year, err := strconv.Atoi(raw)
	if err != nil || year < minYear || year > maxYear {
		return 0
	}
	return year
}

func monthNumber(word string) int {
	for _, m := range months {
		if word == m.full || word == m.abbrev {
			return m.number
		}
	}
	return 0
}

func monthAlternation() string {
	names := make([]string, 0, len(months)*2)
	for _, m := range months {
		names = append(names, m.full)
	}
	for _, m := range months {
		if m.abbrev != m.full {
			names = append(names, m.abbrev)
		}
	}
	return strings.Join(names, "|")
}

func splitPath(rawPath string) []string {
	normalized := strings.ReplaceAll(rawPath, "\\", "/")
	parts := strings.Split(normalized, "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" || part == "." {
			continue
		}
		out = append(out, part)
	}
	return out
}

func generatedName(c domain.PathClassification) string {
	name := fmt.Sprintf("%s_%s", c.Who, c.DocumentType)
	if c.Date != "" {
		name += "_" + c.Date
	}
	return name
}
