package ctl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/BloggingApp/bloghub/internal/rabbitmq"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/spf13/cobra"
)

var (
	eventsQueue string
	eventsKeys  []string
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Follow the domain event stream",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print events published on the exchange until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg.RabbitMQURL == "" {
			return fmt.Errorf("rabbitmq.url is not configured")
		}

		mq, err := rabbitmq.New(cfg.RabbitMQURL)
		if err != nil {
			return fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}
		defer mq.Close()

		deliveries, err := mq.Consume(eventsQueue, eventsKeys...)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		return tail(ctx, cmd.OutOrStdout(), deliveries)
	},
}

// tail prints and acks deliveries until ctx is done or the channel closes.
func tail(ctx context.Context, out io.Writer, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			printf(out, "%s %s\n", d.RoutingKey, compactJSON(d.Body))
			if err := d.Ack(false); err != nil {
				return fmt.Errorf("failed to ack delivery: %w", err)
			}
		}
	}
}

func init() {
	eventsTailCmd.Flags().StringVar(&eventsQueue, "queue", "bloghubctl.tail", "Queue to consume from")
	eventsTailCmd.Flags().StringSliceVar(&eventsKeys, "key", []string{"#"}, "Routing key patterns to bind")
	eventsCmd.AddCommand(eventsTailCmd)
}

func compactJSON(body []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, body); err != nil {
		return string(body)
	}
	return buf.String()
}
