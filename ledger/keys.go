package ledger

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"github.com/cosmos/go-bip39"
)

// publicKeyFingerprintPurpose is the hash purpose the ledger uses when it
// fingerprints a public key.
const publicKeyFingerprintPurpose = 12

// sha256 multihash prefix (code 0x12, length 0x20)
const multihashSHA256Prefix = "1220"

// PartyKey is the signing key that determines a party's namespace.
type PartyKey struct {
	privateKey ed25519.PrivateKey
}

// ParsePartyKey accepts a BIP39 mnemonic, a base64 encoded 32 byte seed or
// 64 byte private key, or the same in hex.
func ParsePartyKey(material string) (*PartyKey, error) {
	material = strings.TrimSpace(material)
	if material == "" {
		return nil, errorsmod.Wrap(ErrInvalidKeyMaterial, "key material is empty")
	}

	if strings.Contains(material, " ") {
		if !bip39.IsMnemonicValid(material) {
			return nil, errorsmod.Wrap(ErrInvalidKeyMaterial, "invalid mnemonic")
		}
		seed := bip39.NewSeed(material, "")
		return &PartyKey{privateKey: ed25519.NewKeyFromSeed(seed[:ed25519.SeedSize])}, nil
	}

	raw, err := decodeKeyBytes(material)
	if err != nil {
		return nil, err
	}
	switch len(raw) {
	case ed25519.SeedSize:
		return &PartyKey{privateKey: ed25519.NewKeyFromSeed(raw)}, nil
	case ed25519.PrivateKeySize:
		return &PartyKey{privateKey: ed25519.PrivateKey(raw)}, nil
	default:
		return nil, errorsmod.Wrapf(ErrInvalidKeyMaterial, "expected %d or %d bytes, got %d",
			ed25519.SeedSize, ed25519.PrivateKeySize, len(raw))
	}
}

func decodeKeyBytes(s string) ([]byte, error) {
	if b, err := hex.DecodeString(s); err == nil {
		return b, nil
	}
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	if b, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return nil, errorsmod.Wrap(ErrInvalidKeyMaterial, "key is neither hex nor base64")
}

// PublicKey returns the ed25519 public key.
func (k *PartyKey) PublicKey() ed25519.PublicKey {
	return k.privateKey.Public().(ed25519.PublicKey)
}

// Fingerprint returns the namespace fingerprint of the public key.
func (k *PartyKey) Fingerprint() string {
	var purpose [4]byte
	binary.BigEndian.PutUint32(purpose[:], publicKeyFingerprintPurpose)

	h := sha256.New()
	h.Write(purpose[:])
	h.Write(k.PublicKey())
	return multihashSHA256Prefix + hex.EncodeToString(h.Sum(nil))
}

// PartyID returns "hint::fingerprint".
func (k *PartyKey) PartyID(hint string) Party {
	return Party(hint + "::" + k.Fingerprint())
}

// Sign signs msg with the private key.
func (k *PartyKey) Sign(msg []byte) []byte {
	return ed25519.Sign(k.privateKey, msg)
}
