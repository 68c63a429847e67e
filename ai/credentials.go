// ABOUTME: Credential resolution for the completion API
// ABOUTME: Workspace key from integrations, shared env key as fallback
package ai

import (
	"database/sql"
	"errors"
	"log"

	"github.com/tlemaire/pilotage/db"
)

// IntegrationSlug is the integrations row the resolver reads.
const IntegrationSlug = "gemini"

// Credential source tags, surfaced in logs and error messages.
const (
	SourceWorkspace        = "workspace"
	SourceShared           = "shared"
	SourceSharedAfterError = "shared (lookup failed)"
)

// ErrNotConfigured is the only resolver failure callers see. Its
// message is the branch point for "do not retry": everything else the
// resolver swallows into the shared-key path.
var ErrNotConfigured = errors.New("gemini not configured: add an API key in settings or set GEMINI_API_KEY")

// minKeyLength guards against placeholder values saved through the
// settings form; real Gemini keys are well past 20 characters.
const minKeyLength = 20

// Resolver decides, at call time, which credential backs a completion
// attempt. It is consulted fresh on every model attempt so a key
// change mid-retry takes effect.
type Resolver struct {
	db        *sql.DB
	sharedKey string
	factory   APIFactory
}

func NewResolver(database *sql.DB, sharedKey string, factory APIFactory) *Resolver {
	if factory == nil {
		factory = NewGeminiAPI
	}
	return &Resolver{db: database, sharedKey: sharedKey, factory: factory}
}

// Resolve returns a client plus the tag describing which credential
// path produced it.
func (r *Resolver) Resolve() (CompletionAPI, string, error) {
	integration, err := db.GetIntegration(r.db, IntegrationSlug)
	if err != nil {
		// Lookup failures never block the call; fall back to the
		// shared key if there is one.
		log.Printf("integration lookup failed, falling back to shared key: %v", err)
		if r.sharedKey != "" {
			return r.factory(r.sharedKey), SourceSharedAfterError, nil
		}
		return nil, "", ErrNotConfigured
	}

	if integration != nil && integration.Connected {
		if key := integration.Config["api_key"]; len(key) > minKeyLength {
			return r.factory(key), SourceWorkspace, nil
		}
	}

	if r.sharedKey != "" {
		return r.factory(r.sharedKey), SourceShared, nil
	}

	return nil, "", ErrNotConfigured
}
