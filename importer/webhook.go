// ABOUTME: Maps inbound Meta lead-form webhook payloads onto lead records
// ABOUTME: Linear field scan with fixed fallbacks and a pinned source
package importer

import (
	"fmt"

	"github.com/oklog/ulid/v2"
	"github.com/tlemaire/pilotage/models"
)

// WebhookField is one entry of a Meta lead-form payload.
type WebhookField struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// WebhookPayload is the subset of the Meta leadgen webhook we consume.
type WebhookPayload struct {
	FormID    string         `json:"form_id"`
	FieldData []WebhookField `json:"field_data"`
}

// MapWebhookLead builds a canonical lead from a webhook payload.
// Missing fields get fixed fallbacks; source is always pinned to the
// Meta category, no sub-source inference.
func MapWebhookLead(payload WebhookPayload) models.Lead {
	contact := fieldValue(payload.FieldData, "full_name")
	if contact == "" {
		contact = "Contact Meta"
	}

	company := fieldValue(payload.FieldData, "company_name")
	if company == "" {
		company = "Lead Facebook"
	}

	return models.Lead{
		ID:          ulid.Make().String(),
		Company:     company,
		Contact:     contact,
		Email:       fieldValue(payload.FieldData, "email"),
		Phone:       fieldValue(payload.FieldData, "phone_number"),
		Stage:       models.StageNew,
		Score:       importedScore,
		Source:      models.SourceMeta,
		Probability: importedProbability,
		// Form id kept for traceability back to the Meta campaign.
		NextStep: fmt.Sprintf("Lead Meta (formulaire %s)", payload.FormID),
	}
}

func fieldValue(fields []WebhookField, name string) string {
	for _, f := range fields {
		if f.Name == name && len(f.Values) > 0 {
			return f.Values[0]
		}
	}
	return ""
}
