package ledger

import (
	"crypto/ed25519"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

// RFC 8032 test vector 1
const (
	rfc8032SeedHex     = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"
	rfc8032SeedBase64  = "nWGxne/9WmC6hEr0kuwsxERJxWl7MmkZcDusAxyuf2A="
	rfc8032PublicHex   = "d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a"
	rfc8032Fingerprint = "1220035a791d845bbb8195615e7eccd7a57c2ec4075c2e88695f194bab4e0194a889"
)

func TestParsePartyKeyEncodings(t *testing.T) {
	for _, material := range []string{rfc8032SeedHex, rfc8032SeedBase64, "  " + rfc8032SeedHex + "\n"} {
		key, err := ParsePartyKey(material)
		require.NoError(t, err)
		require.Equal(t, rfc8032PublicHex, hex.EncodeToString(key.PublicKey()))
		require.Equal(t, rfc8032Fingerprint, key.Fingerprint())
	}
}

func TestParsePartyKeyFullPrivateKey(t *testing.T) {
	seed, err := hex.DecodeString(rfc8032SeedHex)
	require.NoError(t, err)
	priv := ed25519.NewKeyFromSeed(seed)

	key, err := ParsePartyKey(hex.EncodeToString(priv))
	require.NoError(t, err)
	require.Equal(t, rfc8032Fingerprint, key.Fingerprint())
}

func TestParsePartyKeyMnemonic(t *testing.T) {
	mnemonic := "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	// first 32 bytes of the BIP39 seed for the mnemonic above with an empty passphrase
	seedHex := "5eb00bbddcf069084889a8ab9155568165f5c453ccb85e70811aaed6f6da5fc1"

	fromMnemonic, err := ParsePartyKey(mnemonic)
	require.NoError(t, err)
	fromSeed, err := ParsePartyKey(seedHex)
	require.NoError(t, err)

	require.Equal(t, fromSeed.Fingerprint(), fromMnemonic.Fingerprint())
}

func TestParsePartyKeyErrors(t *testing.T) {
	tests := []struct {
		name     string
		material string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"bad mnemonic", "not a real mnemonic phrase at all"},
		{"wrong length", "deadbeef"},
		{"garbage", "%%%%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePartyKey(tt.material)
			require.ErrorIs(t, err, ErrInvalidKeyMaterial)
		})
	}
}

func TestPartyIDAndSign(t *testing.T) {
	key, err := ParsePartyKey(rfc8032SeedHex)
	require.NoError(t, err)

	party := key.PartyID("custodian")
	require.Equal(t, Party("custodian::"+rfc8032Fingerprint), party)
	require.Equal(t, "custodian", party.Hint())
	require.NoError(t, ValidateParty(party))

	msg := []byte("prepared transaction hash")
	require.True(t, ed25519.Verify(key.PublicKey(), msg, key.Sign(msg)))
}

func TestValidateParty(t *testing.T) {
	require.NoError(t, ValidateParty("alice::1220ab"))
	require.ErrorIs(t, ValidateParty("alice"), ErrInvalidParty)
	require.ErrorIs(t, ValidateParty("::1220ab"), ErrInvalidParty)
	require.ErrorIs(t, ValidateParty("alice::"), ErrInvalidParty)
}
