package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hosana-alex/leave-management/internal/core/events"
	"github.com/hosana-alex/leave-management/internal/notification"
	notificationpg "github.com/hosana-alex/leave-management/internal/notification/postgres"
	"github.com/hosana-alex/leave-management/pkg/logger"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start worker processes",
	Long:  `Start background worker processes such as the notification dispatcher.`,
}

var notificationWorkerCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Start the notification dispatcher",
	Long:  `Run the notification dispatcher on its own event bus, useful for exercising event handlers in isolation.`,
	Run: func(cmd *cobra.Command, args []string) {
		startNotificationWorker()
	},
}

func startNotificationWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(os.Getenv("APP_ENV"), logger.LoggingOptions{
		Level:  config.Observability.Logging.Level,
		Format: config.Observability.Logging.Format,
	})
	log := logger.LoggerWrapper()

	db, _, err := initDB(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}

	bus := events.NewEventBus(log)
	svc := notification.NewService(notificationpg.NewNotificationRepository(db), log)
	notification.NewDispatcher(svc, log).RegisterHandlers(bus)

	log.Info("notification dispatcher started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	log.Info("notification dispatcher stopping", "signal", sig)
}

func init() {
	workerCmd.AddCommand(notificationWorkerCmd)
	workerCmd.AddCommand(eventCmd)
}
