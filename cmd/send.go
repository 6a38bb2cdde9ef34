package main

import (
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aegis-locate/aegis-seed/internal/config"
	"github.com/aegis-locate/aegis-seed/internal/locate"
	"github.com/aegis-locate/aegis-seed/internal/resilience"
	"github.com/aegis-locate/aegis-seed/internal/seed"
)

var sendFlags struct {
	url         string
	seed        uint64
	tickets     int
	sample      bool
	concurrency int
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Post signed locate requests to an ingest server",
	Long:  "Signs and posts the demo tickets (plus --tickets regular ones) generated from --seed, or the fixed sample request with --sample. Transient failures are retried; rejected requests are reported.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if sendFlags.url != "" {
			cfg.Client.URL = sendFlags.url
		}
		if err := cfg.Validate("send"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		payloads, err := sendPayloads()
		if err != nil {
			return err
		}

		client := newLocateClient(cfg)
		var sent, rejected atomic.Int32

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(max(sendFlags.concurrency, 1))
		for _, p := range payloads {
			g.Go(func() error {
				resp, err := client.Send(gctx, p)
				if err != nil {
					var serr *locate.StatusError
					if errors.As(err, &serr) {
						rejected.Add(1)
						zap.L().Warn("send: request rejected",
							zap.String("ticket", p.TicketNumber),
							zap.Int("status", serr.StatusCode),
							zap.String("error", serr.Message),
						)
						return nil
					}
					return err
				}
				sent.Add(1)
				zap.L().Info("send: request accepted",
					zap.String("ticket", resp.Ticket),
					zap.String("received_at", resp.ReceivedAt),
				)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d accepted, %d rejected\n", sent.Load(), rejected.Load())
		if rejected.Load() > 0 {
			return eris.Errorf("send: %d requests rejected", rejected.Load())
		}
		return nil
	},
}

// samplePayload is the fixed proof-of-concept request.
func samplePayload() locate.Payload {
	return locate.Payload{
		TicketNumber: "TX811-POC-001",
		Excavator:    "Acme Excavation Co",
		Address:      "123 Main St, Austin, TX",
		Coordinates:  locate.NewCoordinates(30.2672, -97.7431),
	}
}

func sendPayloads() ([]locate.Payload, error) {
	if sendFlags.sample {
		return []locate.Payload{samplePayload()}, nil
	}

	gen := seed.New(seed.Config{Seed: sendFlags.seed})
	excavators := gen.Excavators(50)
	tickets, err := gen.Demos(excavators)
	if err != nil {
		return nil, err
	}
	if sendFlags.tickets > 0 {
		more, err := gen.Tickets(sendFlags.tickets, excavators)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, more...)
	}

	out := make([]locate.Payload, len(tickets))
	for i, t := range tickets {
		out[i] = locate.FromTicket(t)
	}
	return out, nil
}

func newLocateClient(c *config.Config) *locate.Client {
	client := locate.NewClient(c.Client.URL, c.Ingest.WebhookSecret)
	client.HTTP = &http.Client{Timeout: c.Client.Timeout()}
	client.Backoff = resilience.Backoff{
		Attempts: c.Client.MaxAttempts,
		Initial:  time.Duration(c.Client.InitialBackoffMs) * time.Millisecond,
		Max:      time.Duration(c.Client.MaxBackoffMs) * time.Millisecond,
		Factor:   2,
		Jitter:   c.Client.Jitter,
	}
	if c.Client.BreakerThreshold > 0 {
		client.Breaker = resilience.NewBreaker(c.Client.BreakerThreshold, time.Duration(c.Client.BreakerCooldown)*time.Second)
	}
	return client
}

func init() {
	f := sendCmd.Flags()
	f.StringVar(&sendFlags.url, "url", "", "ingest base URL (default from config)")
	f.Uint64Var(&sendFlags.seed, "seed", 1, "seed for the generated tickets")
	f.IntVar(&sendFlags.tickets, "tickets", 0, "regular tickets to send after the demos")
	f.BoolVar(&sendFlags.sample, "sample", false, "send only the fixed sample request")
	f.IntVar(&sendFlags.concurrency, "concurrency", 4, "requests in flight")
	rootCmd.AddCommand(sendCmd)
}
