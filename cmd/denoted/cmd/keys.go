package cmd

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/cosmos/go-bip39"
	"github.com/spf13/cobra"

	"github.com/owlprotocol/denote-workspace-sub000/ledger"
)

const (
	FlagOutput    = "output"
	FlagHint      = "hint"
	FlagWordCount = "words"
)

// keyInfo is printed by the keys commands
type keyInfo struct {
	Party       ledger.Party `json:"party"`
	Fingerprint string       `json:"fingerprint"`
	PublicKey   string       `json:"publicKey"`
	Mnemonic    string       `json:"mnemonic,omitempty"`
}

// KeysCmd groups the custodian key commands.
func KeysCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Inspect and generate custodian key material",
	}
	cmd.AddCommand(keysShowCmd(e), keysGenerateCmd(e))
	return cmd
}

func keysShowCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the custodian party id derived from the configured key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := e.cfg.Custodian.CustodianKey()
			if err != nil {
				return err
			}
			return printKey(cmd, describeKey(key, e.cfg.Custodian.PartyHint, ""))
		},
	}
	cmd.Flags().StringP(FlagOutput, "o", "text", "output format (text|json)")
	return cmd
}

func keysGenerateCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new BIP39 mnemonic and print the party it controls",
		Long: `Generate creates fresh key material. Store the mnemonic securely and provide
it to the custodian through DENOTE_CUSTODIAN_PRIVATE_KEY.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			words, _ := cmd.Flags().GetInt(FlagWordCount)
			var bits int
			switch words {
			case 12:
				bits = 128
			case 24:
				bits = 256
			default:
				return fmt.Errorf("--%s must be 12 or 24, got %d", FlagWordCount, words)
			}

			entropy, err := bip39.NewEntropy(bits)
			if err != nil {
				return fmt.Errorf("failed to generate entropy: %w", err)
			}
			mnemonic, err := bip39.NewMnemonic(entropy)
			if err != nil {
				return fmt.Errorf("failed to generate mnemonic: %w", err)
			}
			key, err := ledger.ParsePartyKey(mnemonic)
			if err != nil {
				return err
			}

			hint, _ := cmd.Flags().GetString(FlagHint)
			if hint == "" {
				hint = e.cfg.Custodian.PartyHint
			}
			return printKey(cmd, describeKey(key, hint, mnemonic))
		},
	}
	cmd.Flags().StringP(FlagOutput, "o", "text", "output format (text|json)")
	cmd.Flags().String(FlagHint, "", "party id hint (default custodian.party_hint)")
	cmd.Flags().Int(FlagWordCount, 24, "mnemonic length (12 or 24)")
	return cmd
}

func describeKey(key *ledger.PartyKey, hint, mnemonic string) keyInfo {
	return keyInfo{
		Party:       key.PartyID(hint),
		Fingerprint: key.Fingerprint(),
		PublicKey:   base64.StdEncoding.EncodeToString(key.PublicKey()),
		Mnemonic:    mnemonic,
	}
}

func printKey(cmd *cobra.Command, info keyInfo) error {
	out := cmd.OutOrStdout()
	format, _ := cmd.Flags().GetString(FlagOutput)
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	case "text":
		fmt.Fprintf(out, "party:       %s\n", info.Party)
		fmt.Fprintf(out, "fingerprint: %s\n", info.Fingerprint)
		fmt.Fprintf(out, "public key:  %s\n", info.PublicKey)
		if info.Mnemonic != "" {
			fmt.Fprintf(out, "\n**Important** write this mnemonic phrase in a safe place.\n\n%s\n", info.Mnemonic)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
