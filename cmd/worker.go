/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/deskhive/apiserver/config"
	"github.com/deskhive/apiserver/internal/db"
	"github.com/deskhive/apiserver/internal/mq"
	"github.com/deskhive/apiserver/internal/services"
	"github.com/deskhive/apiserver/internal/store"
	"github.com/spf13/cobra"
)

// workerCmd represents the worker command
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Starts the billing worker",
	Long: `Starts the billing worker. It consumes booking.created events
from the configured broker and writes a draft invoice per booking.

	deskhive worker
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		broker, err := mq.NewFromConfig(ctx, cfg.MQ)
		if err != nil {
			return fmt.Errorf("connect broker failed: %w", err)
		}
		if broker == nil {
			return errors.New("MQ_BACKEND is required for the worker")
		}
		defer func() {
			_ = broker.Close()
		}()

		dbConn, err := db.Open(ctx, cfg)
		if err != nil {
			return fmt.Errorf("open database failed: %w", err)
		}
		defer func() {
			_ = dbConn.Close()
		}()

		invoiceService := services.NewInvoiceService(store.NewInvoiceRepository(dbConn))

		slog.Info("billing worker started", "channel", services.BookingCreatedChannel)
		err = broker.Subscribe(ctx, services.BookingCreatedChannel, func(ctx context.Context, msg mq.Message) error {
			return invoiceService.HandleBookingCreated(ctx, msg.Data)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
