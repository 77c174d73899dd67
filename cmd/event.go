package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hosana-alex/leave-management/internal/core/events"
	"github.com/hosana-alex/leave-management/pkg/logger"
)

var eventCmd = &cobra.Command{
	Use:   "event [event-type]",
	Short: "Publish a test event",
	Long:  `Publish a test event to a local event bus for debugging handlers.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		publishTestEvent(args[0])
	},
}

var eventData string

func init() {
	eventCmd.Flags().StringVar(&eventData, "data", "", "Message payload for the test event")
}

func publishTestEvent(eventType string) {
	log := logger.LoggerWrapper()

	eventBus := events.NewEventBus(log)
	eventBus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
		log.Info("test handler received event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	})

	testEvent := events.BaseEvent{
		ID:        fmt.Sprintf("test-%d", time.Now().Unix()),
		Type:      eventType,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"message": eventData,
			"source":  "cli-command",
		},
	}

	if err := eventBus.PublishSync(context.Background(), testEvent); err != nil {
		log.Error("failed to publish test event", "error", err)
		return
	}
	log.Info("test event published", "event_type", eventType)
}
