package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"payment-gateway/internal/config"
	"payment-gateway/pkg/logger"
)

// rootFlags flags shared by every subcommand
type rootFlags struct {
	Secret  string // Overrides VNPAY_HASH_SECRET
	Verbose bool
}

// newRootCmd builds the vnpayctl command tree
func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "vnpayctl",
		Short: "VNPay signing and debugging tool",
		Long: `vnpayctl - operator tool for the payment gateway

Builds signed payment URLs, signs arbitrary parameter sets,
verifies saved refund replies, queries transaction state
and mints admin tokens, using
the same configuration (.env / environment) as the API server.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := "warn"
			if flags.Verbose {
				level = "debug"
			}
			logger.Init(logger.Options{Env: "production", Level: level})
		},
	}

	root.PersistentFlags().StringVar(&flags.Secret, "secret", "", "hash secret (default: VNPAY_HASH_SECRET)")
	root.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "verbose logging")

	root.AddCommand(newPayURLCmd(flags))
	root.AddCommand(newSignCmd(flags))
	root.AddCommand(newVerifyRefundCmd(flags))
	root.AddCommand(newQueryCmd(flags))
	root.AddCommand(newTokenCmd())

	return root
}

// hashSecret resolves the secret from the flag or environment
func (f *rootFlags) hashSecret() string {
	if f.Secret != "" {
		return f.Secret
	}
	return os.Getenv("VNPAY_HASH_SECRET")
}

// loadConfig loads the server configuration with the --secret override applied
func (f *rootFlags) loadConfig() (*config.Config, error) {
	if f.Secret != "" {
		if err := os.Setenv("VNPAY_HASH_SECRET", f.Secret); err != nil {
			return nil, err
		}
	}
	return config.Load()
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
