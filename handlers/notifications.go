// ABOUTME: Notification MCP tool handlers
// ABOUTME: Implements create_notification and list_notifications
package handlers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tlemaire/pilotage/db"
	"github.com/tlemaire/pilotage/models"
)

type NotificationHandlers struct {
	db *sql.DB
}

func NewNotificationHandlers(database *sql.DB) *NotificationHandlers {
	return &NotificationHandlers{db: database}
}

type CreateNotificationInput struct {
	Type    string `json:"type,omitempty" jsonschema:"Notification type: info, success, warning, error (default info)"`
	Title   string `json:"title" jsonschema:"Notification title (required)"`
	Message string `json:"message,omitempty" jsonschema:"Notification body"`
}

type NotificationOutput struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message,omitempty"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

func notificationOutput(n *models.Notification) NotificationOutput {
	return NotificationOutput{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h *NotificationHandlers) CreateNotification(_ context.Context, request *mcp.CallToolRequest, input CreateNotificationInput) (*mcp.CallToolResult, NotificationOutput, error) {
	if input.Title == "" {
		return nil, NotificationOutput{}, fmt.Errorf("title is required")
	}
	if input.Type != "" && !models.ValidNotificationType(input.Type) {
		return nil, NotificationOutput{}, fmt.Errorf("invalid type: %s (valid: info, success, warning, error)", input.Type)
	}

	notification := &models.Notification{
		Type:    input.Type,
		Title:   input.Title,
		Message: input.Message,
	}

	if err := db.CreateNotification(h.db, notification); err != nil {
		return nil, NotificationOutput{}, fmt.Errorf("failed to create notification: %w", err)
	}

	return nil, notificationOutput(notification), nil
}

type ListNotificationsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum results (default 50)"`
}

type ListNotificationsOutput struct {
	Notifications []NotificationOutput `json:"notifications"`
	Unread        int                  `json:"unread"`
}

func (h *NotificationHandlers) ListNotifications(_ context.Context, request *mcp.CallToolRequest, input ListNotificationsInput) (*mcp.CallToolResult, ListNotificationsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 50
	}

	notifications, err := db.ListNotifications(h.db, limit)
	if err != nil {
		return nil, ListNotificationsOutput{}, fmt.Errorf("failed to list notifications: %w", err)
	}

	output := ListNotificationsOutput{Notifications: []NotificationOutput{}}
	for i := range notifications {
		if !notifications[i].Read {
			output.Unread++
		}
		output.Notifications = append(output.Notifications, notificationOutput(&notifications[i]))
	}

	return nil, output, nil
}
