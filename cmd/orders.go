package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"golang-klarna-payments/config"
	"golang-klarna-payments/internal/services/payments/providers"
	"golang-klarna-payments/internal/services/payments/types"

	"github.com/spf13/cobra"
)

var refundAmount int64

func newOrderCmd() *cobra.Command {
	orderCmd := &cobra.Command{
		Use:   "order",
		Short: "Query or manage a Klarna order directly",
	}

	orderCmd.AddCommand(&cobra.Command{
		Use:   "get [order-id]",
		Short: "Fetch an order",
		Args:  cobra.ExactArgs(1),
		RunE: withProvider(func(cmd *cobra.Command, p providers.PaymentProvider, orderID string) (json.RawMessage, error) {
			return p.GetOrder(cmd.Context(), orderID)
		}),
	})

	orderCmd.AddCommand(&cobra.Command{
		Use:   "capture [order-id]",
		Short: fmt.Sprintf("Capture %d minor units of an order", types.DefaultActionAmount),
		Args:  cobra.ExactArgs(1),
		RunE: withProvider(func(cmd *cobra.Command, p providers.PaymentProvider, orderID string) (json.RawMessage, error) {
			return p.CaptureOrder(cmd.Context(), orderID)
		}),
	})

	orderCmd.AddCommand(&cobra.Command{
		Use:   "cancel [order-id]",
		Short: "Cancel an order",
		Args:  cobra.ExactArgs(1),
		RunE: withProvider(func(cmd *cobra.Command, p providers.PaymentProvider, orderID string) (json.RawMessage, error) {
			return p.CancelOrder(cmd.Context(), orderID)
		}),
	})

	refundCmd := &cobra.Command{
		Use:   "refund [order-id]",
		Short: "Refund part or all of an order",
		Args:  cobra.ExactArgs(1),
		RunE: withProvider(func(cmd *cobra.Command, p providers.PaymentProvider, orderID string) (json.RawMessage, error) {
			return p.RefundOrder(cmd.Context(), orderID, refundAmount)
		}),
	}
	refundCmd.Flags().Int64Var(&refundAmount, "amount", types.DefaultActionAmount, "amount to refund in minor units")
	orderCmd.AddCommand(refundCmd)

	return orderCmd
}

type orderAction func(cmd *cobra.Command, p providers.PaymentProvider, orderID string) (json.RawMessage, error)

func withProvider(action orderAction) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		slog.SetDefault(slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), nil)))

		data, err := action(cmd, newProvider(cfg), args[0])
		if err != nil {
			return err
		}

		return printJSON(cmd.OutOrStdout(), data)
	}
}

func printJSON(w io.Writer, data json.RawMessage) error {
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return fmt.Errorf("formatting response: %w", err)
	}
	out.WriteByte('\n')

	_, err := w.Write(out.Bytes())
	return err
}
