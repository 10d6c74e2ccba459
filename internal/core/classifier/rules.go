package classifier

import "github.com/kirillkom/evidence-organizer/internal/core/domain"

// EntityRule attributes a path to a party of the application. Rules are evaluated
// per segment, in slice order; the first segment with a word equal to a keyword
// (or its plural) wins.
type EntityRule struct {
	Keywords []string
	Entity   domain.Entity
}

// TypeRule maps keywords to a document type. HasDate marks types whose files are
// periodic (statements, payslips) and therefore carry a month/year.
type TypeRule struct {
	Keywords []string
	Type     string
	HasDate  bool
}

var DefaultEntityRules = []EntityRule{
	{Keywords: []string{"applicant", "main", "primary", "principal"}, Entity: domain.EntityApplicant},
	{Keywords: []string{"sponsor", "partner", "spouse"}, Entity: domain.EntitySponsor},
	{Keywords: []string{"dependant", "dependent", "child", "minor"}, Entity: domain.EntityDependant},
	{Keywords: []string{"shared", "common", "joint"}, Entity: domain.EntityShared},
}

// DefaultTypeRules is ranked: specific document kinds come before generic words that
// also show up in folder names ("visa", "statement"). Keywords are matched against a
// search string whose '_' and '-' separators are already folded to spaces.
var DefaultTypeRules = []TypeRule{
	{Keywords: []string{"passport"}, Type: "passport"},
	{Keywords: []string{"brp", "biometric residence", "residence permit"}, Type: "brp"},
	{Keywords: []string{"bank statement", "bankstatement", "bank"}, Type: "bank_statement", HasDate: true},
	{Keywords: []string{"payslip", "pay slip", "salary slip"}, Type: "payslip", HasDate: true},
	{Keywords: []string{"p60"}, Type: "p60", HasDate: true},
	{Keywords: []string{"utility", "utilities", "electricity", "gas bill", "water bill", "council tax"}, Type: "utility_bill", HasDate: true},
	{Keywords: []string{"employment letter", "employer letter", "job offer"}, Type: "employment_letter"},
	{Keywords: []string{"tenancy", "lease", "mortgage"}, Type: "tenancy_agreement"},
	{Keywords: []string{"marriage", "civil partnership"}, Type: "marriage_certificate"},
	{Keywords: []string{"birth"}, Type: "birth_certificate"},
	{Keywords: []string{"ielts", "english test", "english language", "selt"}, Type: "english_test"},
	{Keywords: []string{"tb test", "tuberculosis"}, Type: "tb_certificate"},
	{Keywords: []string{"police", "criminal record"}, Type: "police_certificate"},
	{Keywords: []string{"degree", "diploma", "transcript"}, Type: "qualification"},
	{Keywords: []string{"contract"}, Type: "employment_contract"},
	{Keywords: []string{"photo"}, Type: "photo"},
	{Keywords: []string{"cv", "resume"}, Type: "cv"},
	{Keywords: []string{"visa", "vignette"}, Type: "visa"},
	{Keywords: []string{"statement"}, Type: "bank_statement", HasDate: true},
}

type month struct {
	full   string
	abbrev string
	number int
}

var months = []month{
	{"january", "jan", 1},
	{"february", "feb", 2},
	{"march", "mar", 3},
	{"april", "apr", 4},
	{"may", "may", 5},
	{"june", "jun", 6},
	{"july", "jul", 7},
	{"august", "aug", 8},
	{"september", "sep", 9},
	{"october", "oct", 10},
	{"november", "nov", 11},
	{"december", "dec", 12},
}

const (
	minYear = 2020
	maxYear = 2030
)
