package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/0rca-network/opskit"
	"github.com/0rca-network/opskit/config"
	"github.com/0rca-network/opskit/relay"
)

type relayFlags struct {
	apiURL string
	to     string
	data   string
}

func buildRelayCmd(root *rootOptions) *cobra.Command {
	flags := &relayFlags{}

	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Probe the meta-transaction relayer's x402 handshake",
	}

	cmd.PersistentFlags().StringVar(&flags.apiURL, "api-url", "", "Relayer base URL (overrides [relay] api_url)")
	cmd.PersistentFlags().StringVar(&flags.to, "to", "", "Target contract (overrides [relay] to)")
	cmd.PersistentFlags().StringVar(&flags.data, "data", "", "0x call data (overrides [relay] data)")

	cmd.AddCommand(newProbeCmd(root, flags))
	cmd.AddCommand(newProbeSignedCmd(root, flags))

	return cmd
}

func newProbeCmd(root *rootOptions, flags *relayFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Relay a zero-signature request from a throwaway address",
		Long:  `Expects the relayer to answer 402 Payment Required and prints its challenge.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			prober, _, err := newProber(cmd, root, flags)
			if err != nil {
				return err
			}

			resp, err := prober.ProbeUnsigned(cmd.Context())
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error relaying request: %s\n", err)
				return err
			}

			return resp.Print(cmd.OutOrStdout())
		},
	}
}

func newProbeSignedCmd(root *rootOptions, flags *relayFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "probe-signed",
		Short: "Relay a request signed with the configured private key",
		Long: `Fetches the nonce and EIP-712 domain from the relayer, signs a forward request with the
key named by [relay] private_key_env (read from the environment or the .env file) and relays it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			prober, cfg, err := newProber(cmd, root, flags)
			if err != nil {
				return err
			}

			pk, err := config.LoadPrivateKey(root.envFile, cfg.PrivateKeyEnv)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error loading private key: %s\n", err)
				return err
			}

			signer, err := opskit.NewPrivateKeySignerFromHex(pk)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error loading private key: %s\n", err)
				return err
			}

			resp, err := prober.ProbeSigned(cmd.Context(), signer)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error relaying request: %s\n", err)
				return err
			}

			return resp.Print(cmd.OutOrStdout())
		},
	}
}

func newProber(cmd *cobra.Command, root *rootOptions, flags *relayFlags) (*relay.Prober, config.RelayConfig, error) {
	cfg, err := loadConfig(cmd, root)
	if err != nil {
		return nil, config.RelayConfig{}, err
	}

	r := cfg.Relay
	if cmd.Flags().Changed("api-url") {
		r.APIURL = flags.apiURL
	}
	if cmd.Flags().Changed("to") {
		r.To = flags.to
	}
	if cmd.Flags().Changed("data") {
		r.Data = flags.data
	}
	if err = validateSection(cmd, "relay", r); err != nil {
		return nil, config.RelayConfig{}, err
	}

	opts, err := r.ProbeOptions()
	if err != nil {
		return nil, config.RelayConfig{}, err
	}

	client := relay.NewClient(r.APIURL, relay.WithTimeout(r.Timeout))

	return relay.NewProber(client, opts), r, nil
}
