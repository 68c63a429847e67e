// ABOUTME: Data models for agency CRM entities
// ABOUTME: Defines Lead, Client, Cahier, Integration, Notification, and log records
package models

import (
	"time"
)

// Lead is a sales-pipeline opportunity. IDs are opaque strings: the
// database assigns a UUID on insert, while the CSV/webhook mappers
// assign a synthetic ULID that is replaced once the row is persisted.
type Lead struct {
	ID          string     `json:"id"`
	Company     string     `json:"company"`
	Contact     string     `json:"contact"`
	Email       string     `json:"email,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Value       int64      `json:"value"`
	Stage       string     `json:"stage"`
	Score       int        `json:"score"`
	Source      string     `json:"source,omitempty"`
	Probability int        `json:"probability"`
	Owner       string     `json:"owner,omitempty"`
	NextStep    string     `json:"next_step,omitempty"`
	LastContact *time.Time `json:"last_contact,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Pipeline stages. The historical UI only rendered the first four;
// the tool schema and import paths referenced negotiation/lost as
// well, so the canonical set is six and everything validates against it.
const (
	StageNew         = "new"
	StageQualified   = "qualified"
	StageProposal    = "proposal"
	StageNegotiation = "negotiation"
	StageWon         = "won"
	StageLost        = "lost"
)

// Stages lists the canonical pipeline stages in funnel order.
var Stages = []string{
	StageNew,
	StageQualified,
	StageProposal,
	StageNegotiation,
	StageWon,
	StageLost,
}

// ValidStage reports whether stage is one of the canonical six.
func ValidStage(stage string) bool {
	for _, s := range Stages {
		if stage == s {
			return true
		}
	}
	return false
}

// LeadSources is the suggestion set offered by the UI. Source remains
// free text; nothing is constrained to this list.
var LeadSources = []string{
	"Site web",
	"Google Ads",
	"Facebook Ads",
	"LinkedIn",
	"SEO",
	"Referral",
	"Cold call",
	"Salon",
}

// SourceMeta is pinned onto every webhook-originated lead.
const SourceMeta = "Facebook Ads"

// Client is a signed engagement, parallel in shape to Lead.
type Client struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Project     string    `json:"project,omitempty"`
	Status      string    `json:"status,omitempty"`
	Progress    int       `json:"progress"`
	Plan        string    `json:"plan,omitempty"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Slug        string    `json:"slug"`
	CahierDone  bool      `json:"cahier_done"`
	GeneratedAI string    `json:"generated_ai_prompt,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Cahier is the intake questionnaire, a one-to-one satellite of Client
// keyed by the client's slug rather than its id.
type Cahier struct {
	ClientSlug  string     `json:"client_slug"`
	Company     string     `json:"company,omitempty"`
	Activity    string     `json:"activity,omitempty"`
	Style       string     `json:"style,omitempty"`
	Budget      string     `json:"budget,omitempty"`
	Deadline    string     `json:"deadline,omitempty"`
	Features    []string   `json:"features,omitempty"`
	FileURLs    []string   `json:"file_urls,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Integration is a per-workspace credential record keyed by slug
// (gemini, slack, stripe). Config may hold an API key or webhook URL.
type Integration struct {
	Slug      string            `json:"slug"`
	Connected bool              `json:"connected"`
	Config    map[string]string `json:"config,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Notification type constants.
const (
	NotificationInfo    = "info"
	NotificationSuccess = "success"
	NotificationWarning = "warning"
	NotificationError   = "error"
)

// ValidNotificationType reports whether t is a known notification type.
func ValidNotificationType(t string) bool {
	switch t {
	case NotificationInfo, NotificationSuccess, NotificationWarning, NotificationError:
		return true
	}
	return false
}

type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// AI call log categories.
const (
	AICategoryChat         = "chat"
	AICategoryFunctionCall = "function_call"
	AICategoryGeneration   = "generation"
	AICategoryError        = "error"
)

// AILog is one append-only record per completion call, success or not.
type AILog struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Response  string    `json:"response,omitempty"`
	UserEmail string    `json:"user_email,omitempty"`
	Category  string    `json:"category"`
	Status    string    `json:"status"`
	LatencyMS int64     `json:"latency_ms"`
	Model     string    `json:"model,omitempty"`
	KeySource string    `json:"key_source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SOP is a standard-operating-procedure document.
type SOP struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category,omitempty"`
	Content   string    `json:"content,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ActivityEntry is one append-only row per lead mutation.
type ActivityEntry struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"lead_id"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
