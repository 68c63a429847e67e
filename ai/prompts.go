// ABOUTME: Prompt template builders for content generation
// ABOUTME: Turns cahier answers and lead records into filled-in prompts
package ai

import (
	"fmt"
	"strings"

	"github.com/tlemaire/pilotage/models"
)

// BuildCahierPrompt turns a completed intake questionnaire into a
// site-generation prompt stored on the client record.
func BuildCahierPrompt(client *models.Client, cahier *models.Cahier) string {
	var b strings.Builder
	b.WriteString("Rédige un prompt de génération de site web pour ce client :\n\n")
	b.WriteString(fmt.Sprintf("Client : %s\n", client.Name))
	if cahier.Company != "" {
		b.WriteString(fmt.Sprintf("Entreprise : %s\n", cahier.Company))
	}
	if cahier.Activity != "" {
		b.WriteString(fmt.Sprintf("Activité : %s\n", cahier.Activity))
	}
	if cahier.Style != "" {
		b.WriteString(fmt.Sprintf("Style souhaité : %s\n", cahier.Style))
	}
	if cahier.Budget != "" {
		b.WriteString(fmt.Sprintf("Budget : %s\n", cahier.Budget))
	}
	if cahier.Deadline != "" {
		b.WriteString(fmt.Sprintf("Échéance : %s\n", cahier.Deadline))
	}
	if len(cahier.Features) > 0 {
		b.WriteString("Fonctionnalités demandées :\n")
		for _, f := range cahier.Features {
			b.WriteString(fmt.Sprintf("  - %s\n", f))
		}
	}

	b.WriteString("\nLe prompt doit être directement exploitable par un outil de génération de site, ")
	b.WriteString("structuré en sections (pages, contenu, style, fonctionnalités).")

	return b.String()
}

// BuildLeadStrategyPrompt asks for a strategic read of one pipeline
// record.
func BuildLeadStrategyPrompt(lead *models.Lead) string {
	var b strings.Builder
	b.WriteString("Analyse ce lead et propose une stratégie de closing :\n\n")
	b.WriteString(fmt.Sprintf("Entreprise : %s\n", lead.Company))
	b.WriteString(fmt.Sprintf("Contact : %s\n", lead.Contact))
	b.WriteString(fmt.Sprintf("Étape : %s\n", lead.Stage))
	b.WriteString(fmt.Sprintf("Valeur : %d €\n", lead.Value))
	b.WriteString(fmt.Sprintf("Probabilité : %d%%\n", lead.Probability))
	if lead.Source != "" {
		b.WriteString(fmt.Sprintf("Source : %s\n", lead.Source))
	}
	if lead.NextStep != "" {
		b.WriteString(fmt.Sprintf("Prochaine étape prévue : %s\n", lead.NextStep))
	}

	b.WriteString("\nDonne :\n")
	b.WriteString("1. Les points de friction probables\n")
	b.WriteString("2. Les trois prochaines actions concrètes\n")
	b.WriteString("3. Un délai réaliste de signature\n")

	return b.String()
}
