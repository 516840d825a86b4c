package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"payment-gateway/internal/domains/payment/gateway/vnpay"
)

const (
	modeQuery = "query"
	modePipe  = "pipe"
)

// newSignCmd signs key=value pairs with either canonicalization
func newSignCmd(flags *rootFlags) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "sign key=value...",
		Short: "Sign a parameter set",
		Long: `Sign key=value pairs with HMAC-SHA512.

query: keys sorted, values URL-encoded, joined with '&' (payment URL)
pipe:  values in argument order joined with '|' (refund API)

Empty values are skipped in both modes.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := flags.hashSecret()
			if secret == "" {
				return fmt.Errorf("hash secret is required (--secret or VNPAY_HASH_SECRET)")
			}

			params, err := parseParams(args)
			if err != nil {
				return err
			}

			var data string
			switch mode {
			case modeQuery:
				data = vnpay.QueryString(params)
			case modePipe:
				data = vnpay.PipeString(params)
			default:
				return fmt.Errorf("unknown --mode %q (query|pipe)", mode)
			}

			return printJSON(cmd.OutOrStdout(), map[string]string{
				"mode":        mode,
				"data":        data,
				"secure_hash": vnpay.Sign(secret, data),
			})
		},
	}

	cmd.Flags().StringVar(&mode, "mode", modeQuery, "canonicalization: query|pipe")
	return cmd
}

// newVerifyRefundCmd checks the signature of a saved refund API reply
func newVerifyRefundCmd(flags *rootFlags) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "verify-refund",
		Short: "Verify a refund API reply saved as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := flags.hashSecret()
			if secret == "" {
				return fmt.Errorf("hash secret is required (--secret or VNPAY_HASH_SECRET)")
			}

			raw, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			var resp vnpay.RefundResponse
			if err := json.Unmarshal(raw, &resp); err != nil {
				return fmt.Errorf("invalid refund reply: %w", err)
			}

			valid := vnpay.VerifyRefundResponse(secret, &resp)
			if err := printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"valid":         valid,
				"response_code": resp.ResponseCode,
				"message":       vnpay.ResponseMessage(resp.ResponseCode),
				"data":          vnpay.PipeString(resp.SignedParams()),
			}); err != nil {
				return err
			}
			if !valid {
				return fmt.Errorf("secure hash mismatch")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the JSON reply")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// parseParams keeps argument order, which is the pipe signing order
func parseParams(args []string) (*vnpay.Params, error) {
	params := vnpay.NewParams()
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected key=value", arg)
		}
		params.Set(key, value)
	}
	return params, nil
}
