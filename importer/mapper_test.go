// ABOUTME: Tests for CSV and webhook lead field mapping
// ABOUTME: Pins alias priority, coercion fallbacks, and import defaults
package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tlemaire/pilotage/models"
)

func TestMapRowAliases(t *testing.T) {
	lead := MapRow(map[string]string{
		"Entreprise": "Acme",
		"Contact":    "Jean Dupont",
		"Email":      "jean@acme.fr",
		"Valeur":     "5000",
	})

	assert.Equal(t, "Acme", lead.Company)
	assert.Equal(t, "Jean Dupont", lead.Contact)
	assert.Equal(t, int64(5000), lead.Value)
}

func TestMapRowAliasPriority(t *testing.T) {
	// "Entreprise" wins over "Company" when both are present
	lead := MapRow(map[string]string{
		"Entreprise": "Maison Bleue",
		"Company":    "Blue House",
	})
	assert.Equal(t, "Maison Bleue", lead.Company)

	// An empty higher-priority alias falls through to the next
	lead = MapRow(map[string]string{
		"Entreprise": "",
		"Company":    "Blue House",
	})
	assert.Equal(t, "Blue House", lead.Company)
}

func TestMapRowNonNumericValue(t *testing.T) {
	lead := MapRow(map[string]string{"Entreprise": "Acme", "Valeur": "abc"})

	assert.Equal(t, "Acme", lead.Company)
	// Coercion failure yields zero, never an error
	assert.Equal(t, int64(0), lead.Value)
}

func TestMapRowImportDefaults(t *testing.T) {
	lead := MapRow(map[string]string{"Entreprise": "Acme"})

	assert.Equal(t, models.StageNew, lead.Stage)
	assert.Equal(t, 50, lead.Score)
	// Import path defaults probability to 30, not the manual form's 50
	assert.Equal(t, 30, lead.Probability)
	assert.Empty(t, lead.Owner)
	assert.Empty(t, lead.NextStep)
}

func TestMapRowSyntheticID(t *testing.T) {
	a := MapRow(map[string]string{"Entreprise": "Acme"})
	b := MapRow(map[string]string{"Entreprise": "Acme"})

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestMapWebhookLeadDefaults(t *testing.T) {
	lead := MapWebhookLead(WebhookPayload{
		FormID: "339",
		FieldData: []WebhookField{
			{Name: "email", Values: []string{"a@b.com"}},
		},
	})

	assert.Equal(t, "Contact Meta", lead.Contact)
	assert.Equal(t, "Lead Facebook", lead.Company)
	assert.Equal(t, models.SourceMeta, lead.Source)
	assert.Equal(t, "a@b.com", lead.Email)
	// Form id is embedded for traceability
	assert.Contains(t, lead.NextStep, "339")
}

func TestMapWebhookLeadNamedFields(t *testing.T) {
	lead := MapWebhookLead(WebhookPayload{
		FormID: "12",
		FieldData: []WebhookField{
			{Name: "full_name", Values: []string{"Sophie Bernard"}},
			{Name: "company_name", Values: []string{"Atelier SB"}},
			{Name: "phone_number", Values: []string{"+33611223344"}},
		},
	})

	assert.Equal(t, "Sophie Bernard", lead.Contact)
	assert.Equal(t, "Atelier SB", lead.Company)
	assert.Equal(t, "+33611223344", lead.Phone)
	// Source stays pinned even when the form names a company
	assert.Equal(t, models.SourceMeta, lead.Source)
}
