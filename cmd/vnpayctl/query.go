package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"payment-gateway/internal/domains/payment/gateway"
	"payment-gateway/internal/domains/payment/gateway/vnpay"
	"payment-gateway/internal/domains/payment/model"
)

// newQueryCmd sends a signed querydr request and prints the verified state
func newQueryCmd(flags *rootFlags) *cobra.Command {
	var (
		txnRef          string
		transactionDate string
		ip              string
	)

	cmd := &cobra.Command{
		Use:     "query",
		Short:   "Query the provider-side state of a transaction",
		Example: `  vnpayctl query --txn-ref 0123456789abcdef0123456789abcdef --transaction-date 20240115100000`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			queryReq := model.QueryTransactionRequestDTO{
				Method:          vnpay.MethodName,
				TransactionID:   txnRef,
				TransactionDate: transactionDate,
			}
			if err := queryReq.Validate(); err != nil {
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

			resp, err := client.QueryTransaction(cmd.Context(), queryReq.ToGatewayRequest(ip))
			if err != nil {
				return err
			}
			if resp.TransportFailed() {
				return resp.Err
			}

			if err := printJSON(cmd.OutOrStdout(), model.NewQueryTransactionResponseDTO(vnpay.MethodName, txnRef, resp)); err != nil {
				return err
			}
			if !resp.Success {
				return fmt.Errorf("provider rejected query: %s %s", resp.ResponseCode, resp.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&txnRef, "txn-ref", "", "transaction reference used at pay time")
	cmd.Flags().StringVar(&transactionDate, "transaction-date", "", "original transaction time (yyyyMMddHHmmss)")
	cmd.Flags().StringVar(&ip, "ip", "127.0.0.1", "operator IP address")
	_ = cmd.MarkFlagRequired("txn-ref")
	_ = cmd.MarkFlagRequired("transaction-date")

	return cmd
}
