// ABOUTME: Maps heterogeneous CSV columns onto canonical lead records
// ABOUTME: Ordered alias lookup, integer coercion, import-path defaults
package importer

import (
	"strconv"

	"github.com/oklog/ulid/v2"
	"github.com/tlemaire/pilotage/models"
)

// Column aliases tried in priority order, case-sensitive. French names
// first: most exports we receive come from French tooling.
var (
	companyAliases = []string{"Entreprise", "Company", "entreprise", "Nom"}
	contactAliases = []string{"Contact", "contact", "Name", "Prénom"}
	emailAliases   = []string{"Email", "email", "E-mail", "Mail"}
	phoneAliases   = []string{"Téléphone", "Telephone", "Phone", "téléphone"}
	valueAliases   = []string{"Valeur", "Value", "Budget", "valeur"}
	sourceAliases  = []string{"Source", "source", "Canal"}
	ownerAliases   = []string{"Responsable", "Owner", "Assigné"}
)

// Import-path defaults. Deliberately different from the manual entry
// form (which defaults probability to 50): imported leads have not
// been spoken to yet.
const (
	importedScore       = 50
	importedProbability = 30
)

// MapRow builds one canonical lead from a parsed CSV row. The id is a
// synthetic ULID; it stands in until a database insert assigns the
// real one.
func MapRow(row map[string]string) models.Lead {
	return models.Lead{
		ID:          ulid.Make().String(),
		Company:     pick(row, companyAliases),
		Contact:     pick(row, contactAliases),
		Email:       pick(row, emailAliases),
		Phone:       pick(row, phoneAliases),
		Value:       parseValue(pick(row, valueAliases)),
		Stage:       models.StageNew,
		Score:       importedScore,
		Source:      pick(row, sourceAliases),
		Probability: importedProbability,
		Owner:       pick(row, ownerAliases),
	}
}

// pick returns the first present, non-empty value among the aliases.
func pick(row map[string]string, aliases []string) string {
	for _, key := range aliases {
		if v, ok := row[key]; ok && v != "" {
			return v
		}
	}
	return ""
}

// parseValue coerces to an integer; anything unparseable becomes 0
// rather than rejecting the row.
func parseValue(s string) int64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
