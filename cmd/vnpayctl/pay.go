package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"payment-gateway/internal/domains/payment/gateway"
	"payment-gateway/internal/domains/payment/gateway/vnpay"
	"payment-gateway/internal/domains/payment/model"
)

// newPayURLCmd prints a signed VNPay redirect without touching the API server
func newPayURLCmd(flags *rootFlags) *cobra.Command {
	var (
		orderID string
		amount  string
		ip      string
	)

	cmd := &cobra.Command{
		Use:     "pay-url",
		Short:   "Build a signed payment URL",
		Example: `  vnpayctl pay-url --order-id 123e4567-e89b-12d3-a456-426614174000 --amount 150000`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(orderID)
			if err != nil {
				return fmt.Errorf("invalid --order-id: %w", err)
			}
			amt, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid --amount: %w", err)
			}
			payReq := model.CreatePaymentRequest{Method: vnpay.MethodName, OrderID: id, Amount: amt}
			if err := payReq.Validate(); err != nil {
				return err
			}

			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			client, err := vnpay.NewClient(cfg.VNPayGatewayConfig(), gateway.NewHTTPTransport(cfg.VNPay.Timeout))
			if err != nil {
				return err
			}

			resp, err := client.InitiatePayment(cmd.Context(), payReq.ToGatewayRequest(ip))
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), map[string]string{
				"redirect_url":   resp.RedirectURL,
				"transaction_id": resp.TransactionID,
				"description":    resp.Description,
				"created_at":     resp.CreatedDatetime,
			})
		},
	}

	cmd.Flags().StringVar(&orderID, "order-id", "", "order UUID")
	cmd.Flags().StringVar(&amount, "amount", "", "amount in currency units (e.g. 150000 or 10.50)")
	cmd.Flags().StringVar(&ip, "ip", "127.0.0.1", "customer IP address")
	_ = cmd.MarkFlagRequired("order-id")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}
