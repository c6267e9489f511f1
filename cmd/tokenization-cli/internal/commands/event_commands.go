package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MGTheTrain/tokenization-service/internal/domain/tokens"
	"github.com/MGTheTrain/tokenization-service/internal/infrastructure/messaging"

	"github.com/spf13/cobra"
)

// EventCommandHandler encapsulates the event stream commands
type EventCommandHandler struct {
	opts *Options
}

// NewEventCommandHandler creates an EventCommandHandler
func NewEventCommandHandler(opts *Options) *EventCommandHandler {
	return &EventCommandHandler{opts: opts}
}

// TailCmd prints token created events until interrupted
func (commandHandler *EventCommandHandler) TailCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(commandHandler.opts)
	if err != nil {
		return err
	}

	settings := cfg.Events
	if brokers, _ := cmd.Flags().GetStringSlice("brokers"); len(brokers) > 0 {
		settings.Brokers = brokers
	}
	if topic, _ := cmd.Flags().GetString("topic"); topic != "" {
		settings.Topic = topic
	}
	if groupID, _ := cmd.Flags().GetString("group-id"); groupID != "" {
		settings.GroupID = groupID
	}

	reader, err := messaging.NewEventReader(settings)
	if err != nil {
		return fmt.Errorf("failed to create event reader: %w", err)
	}
	defer reader.Close()

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	setupLogger(cmd, commandHandler.opts).Info("Tailing topic ", settings.Topic)
	return reader.Tail(ctx, func(event tokens.TokenCreatedEvent) error {
		return printResult(cmd.OutOrStdout(), commandHandler.opts.Output, event)
	})
}

// InitEventCommands registers the event stream commands
func InitEventCommands(rootCmd *cobra.Command, opts *Options) {
	handler := NewEventCommandHandler(opts)

	var eventsCmd = &cobra.Command{
		Use:   "events",
		Short: "Work with the token created event stream",
	}

	var tailCmd = &cobra.Command{
		Use:   "tail",
		Short: "Print token created events as they arrive",
		Args:  cobra.NoArgs,
		RunE:  handler.TailCmd,
	}
	tailCmd.Flags().StringSlice("brokers", nil, "Kafka brokers (host:port), overrides the configuration")
	tailCmd.Flags().String("topic", "", "Topic, overrides the configuration")
	tailCmd.Flags().String("group-id", "", "Consumer group, overrides the configuration")
	eventsCmd.AddCommand(tailCmd)
	rootCmd.AddCommand(eventsCmd)
}
