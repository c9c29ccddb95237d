package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/twmb/franz-go/pkg/kgo"

	pkgkafka "contactbook/pkg/kafka"
	kafkaRepository "contactbook/services/contact-service/repository/kafka"
)

func newWatchEventsCmd(opts *rootOptions) *cobra.Command {
	var fromStart bool

	cmd := &cobra.Command{
		Use:   "watch-events",
		Short: "Print user change events from Kafka as they arrive",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, appLogger, err := opts.load()
			if err != nil {
				return err
			}
			kc := cfg.Infrastructure.Kafka

			offset := kgo.NewOffset().AtEnd()
			if fromStart {
				offset = kgo.NewOffset().AtStart()
			}
			client, err := pkgkafka.NewWithConfig(pkgkafka.Config{
				Brokers:  kc.Brokers,
				ClientID: kc.ClientID + "-watch",
			}, kgo.ConsumeResetOffset(offset))
			if err != nil {
				appLogger.Error("Failed to initialize Kafka client", "error", err)
				return err
			}
			defer client.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			appLogger.Info("Watching user events", "topic", kc.Topics.UserEvents)
			return watchEvents(ctx, client.Consume(ctx, kc.Topics.UserEvents), cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&fromStart, "from-start", false, "replay the topic from the earliest offset")
	return cmd
}

// watchEvents prints one line per record until records is closed or ctx is done
func watchEvents(ctx context.Context, records <-chan *kgo.Record, out io.Writer) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case record, ok := <-records:
			if !ok {
				return nil
			}
			var event kafkaRepository.UserEvent
			if err := json.Unmarshal(record.Value, &event); err != nil {
				fmt.Fprintf(out, "offset=%d undecodable event: %v\n", record.Offset, err)
				continue
			}
			fmt.Fprintf(out, "%s %-13s id=%d name=%q email=%s\n",
				event.OccurredAt.Format(time.RFC3339), event.Type, event.UserID, event.FullName, event.Email)
		}
	}
}
