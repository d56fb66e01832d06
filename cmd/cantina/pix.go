package main

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"cantina/internal/pix"
)

func pixCmd() *cobra.Command {
	var (
		amount      string
		description string
		reference   string
		key         string
	)
	cmd := &cobra.Command{
		Use:   "pix",
		Short: "Print a PIX copy-and-paste payload and its QR code URL",
		Long: `Print a PIX copy-and-paste payload and its QR code URL.

The merchant key, name and city come from the pix section of the config.

Example:
  cantina pix --amount 15.90 --description "Pedido 007" --reference 007`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if key != "" {
				cfg.Pix.Key = key
			}
			if cfg.Pix.Key == "" || cfg.Pix.MerchantName == "" || cfg.Pix.MerchantCity == "" {
				return errors.New("pix key, merchant_name and merchant_city are required")
			}
			value, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid --amount %q: %w", amount, err)
			}

			payload, err := pix.Payload{
				Amount:      value,
				Description: description,
				Key:         cfg.Pix.Key,
				Name:        cfg.Pix.MerchantName,
				City:        cfg.Pix.MerchantCity,
				Reference:   reference,
			}.Build()
			if err != nil {
				return err
			}
			qr, err := pix.QRCodeURL(cfg.Pix.QRBaseURL, payload, cfg.Pix.QRSize)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, payload)
			fmt.Fprintln(out, qr)
			return nil
		},
	}
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "amount in BRL, e.g. 15.90")
	cmd.Flags().StringVarP(&description, "description", "d", "", "description shown in the payer's bank app")
	cmd.Flags().StringVarP(&reference, "reference", "r", "", "transaction reference (txid)")
	cmd.Flags().StringVar(&key, "key", "", "override pix.key")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}
