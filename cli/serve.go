// ABOUTME: HTTP API server subcommand
// ABOUTME: Wires the database, realtime hub, and AI assistant behind chi
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/tlemaire/pilotage/ai"
	"github.com/tlemaire/pilotage/realtime"
	"github.com/tlemaire/pilotage/web"
)

// ServeCommand starts the HTTP API with the websocket hub attached.
func ServeCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.String("port", "", "Listen port (default $PORT or 8080)")
	_ = fs.Parse(args)

	listenPort := *port
	if listenPort == "" {
		listenPort = os.Getenv("PORT")
	}
	if listenPort == "" {
		listenPort = "8080"
	}

	hub := realtime.NewHub()
	go hub.Run()
	defer hub.Close()

	// The assistant works without a shared key as long as a workspace
	// key is saved in the integrations settings.
	sharedKey := os.Getenv("GEMINI_API_KEY")
	if sharedKey == "" {
		log.Println("GEMINI_API_KEY not set; AI endpoints need a workspace key in settings")
	}
	resolver := ai.NewResolver(database, sharedKey, nil)
	recorder := ai.NewRecorder(database)
	defer recorder.Wait()
	assistant := ai.NewAssistant(resolver, recorder, nil)

	server := web.NewServer(database, hub, assistant)

	log.Printf("API listening on :%s", listenPort)
	if err := http.ListenAndServe(":"+listenPort, server.Router()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
