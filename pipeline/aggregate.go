// ABOUTME: Pure pipeline filtering, KPI rollups, and tab counts
// ABOUTME: Recomputed from scratch on every call, no hidden state
package pipeline

import (
	"math"
	"strings"

	"github.com/tlemaire/pilotage/models"
)

// All is the wildcard the UI sends for assignee and source filters.
const All = "All"

// Filter is the AND of four predicates over the lead collection.
type Filter struct {
	Query    string // case-insensitive substring over company+contact+email
	Assignee string // exact match, or All/empty
	Source   string // exact match, or All/empty
	Tab      string // tab id, see Tabs
}

// Tab groups leads by source tokens. A nil token list matches every
// lead. Matching is lower-cased substring containment, so one lead can
// count toward several tabs.
type Tab struct {
	ID     string
	Label  string
	Tokens []string
}

// Tabs in display order.
var Tabs = []Tab{
	{ID: "all", Label: "Tous", Tokens: nil},
	{ID: "google", Label: "Google", Tokens: []string{"google", "seo"}},
	{ID: "meta", Label: "Meta", Tokens: []string{"facebook", "meta"}},
	{ID: "outbound", Label: "Outbound", Tokens: []string{"linkedin", "cold", "salon"}},
	{ID: "inbound", Label: "Inbound", Tokens: []string{"site web", "referral"}},
}

// KPIs is the rollup over a filtered lead set.
type KPIs struct {
	Count          int     `json:"count"`
	TotalValue     int64   `json:"total_value"`
	WeightedValue  float64 `json:"weighted_value"`
	WonCount       int     `json:"won_count"`
	AvgProbability int     `json:"avg_probability"`
}

// FilterLeads returns the leads matching every predicate of f.
func FilterLeads(leads []models.Lead, f Filter) []models.Lead {
	var tab *Tab
	for i := range Tabs {
		if Tabs[i].ID == f.Tab {
			tab = &Tabs[i]
			break
		}
	}

	query := strings.ToLower(f.Query)

	var out []models.Lead
	for _, lead := range leads {
		if query != "" {
			haystack := strings.ToLower(lead.Company + lead.Contact + lead.Email)
			if !strings.Contains(haystack, query) {
				continue
			}
		}
		if !wildcard(f.Assignee) && lead.Owner != f.Assignee {
			continue
		}
		if !wildcard(f.Source) && lead.Source != f.Source {
			continue
		}
		if tab != nil && !matchesTab(lead, *tab) {
			continue
		}
		out = append(out, lead)
	}

	return out
}

// ComputeKPIs rolls up the given (already filtered) set.
func ComputeKPIs(leads []models.Lead) KPIs {
	kpis := KPIs{Count: len(leads)}
	if len(leads) == 0 {
		// AvgProbability is 0 for an empty set, never NaN.
		return kpis
	}

	probSum := 0
	for _, lead := range leads {
		kpis.TotalValue += lead.Value
		p := probability(lead)
		kpis.WeightedValue += float64(lead.Value) * float64(p) / 100
		probSum += p
		if lead.Stage == models.StageWon {
			kpis.WonCount++
		}
	}

	kpis.AvgProbability = int(math.Round(float64(probSum) / float64(len(leads))))
	return kpis
}

// TabCounts counts tab membership over the UNFILTERED collection. Tab
// badges deliberately ignore the other active filters; only tab
// selection itself participates in filtering.
func TabCounts(leads []models.Lead) map[string]int {
	counts := make(map[string]int, len(Tabs))
	for _, tab := range Tabs {
		for _, lead := range leads {
			if matchesTab(lead, tab) {
				counts[tab.ID]++
			}
		}
	}
	return counts
}

func matchesTab(lead models.Lead, tab Tab) bool {
	if tab.Tokens == nil {
		return true
	}
	source := strings.ToLower(lead.Source)
	for _, token := range tab.Tokens {
		if strings.Contains(source, strings.ToLower(token)) {
			return true
		}
	}
	return false
}

// probability treats an unset (zero) probability as 50.
func probability(lead models.Lead) int {
	if lead.Probability == 0 {
		return 50
	}
	return lead.Probability
}

func wildcard(s string) bool {
	return s == "" || s == All
}
