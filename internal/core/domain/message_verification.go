package domain

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/google/uuid"
	"github.com/tdex-network/coinjoin/pkg/wallet"
)

const (
	// FieldEncryptedSecretKeys is the field validation errors of a message
	// verification refer to.
	FieldEncryptedSecretKeys = "encrypted_secret_keys"

	MsgCannotBeDecrypted         = "cannot be decrypted"
	MsgAddressNotAnInput         = "contains address not an input"
	MsgParticipantsCountMismatch = "does not match number of participants"
)

// DecryptionContext maps the addresses owned by the caller to their private
// keys.
type DecryptionContext map[string]*btcec.PrivateKey

// MessageVerification proves that the sender of a coin join message can be
// trusted to receive the shared secret key: the message identifier is sealed
// with the secret key, which is in turn encrypted to the public key of every
// input address of the coin join.
type MessageVerification struct {
	CoinJoin                   *CoinJoin
	EncryptedMessageIdentifier string
	EncryptedSecretKeys        map[string]string

	decryptionContext DecryptionContext
	secretKey         []byte
}

type messageVerificationPayload struct {
	EncryptedMessageIdentifier *string            `json:"encrypted_message_identifier"`
	EncryptedSecretKeys        *map[string]string `json:"encrypted_secret_keys"`
}

// BuildMessageVerification generates a fresh message identifier and secret
// key for the given coin join and encrypts the secret key for every input
// address. Every participant must contribute from exactly one address, since
// inputs carry no participant identity to group addresses by.
func BuildMessageVerification(
	coinJoin *CoinJoin, ctx DecryptionContext,
) (*MessageVerification, error) {
	if coinJoin == nil {
		return nil, ErrNullCoinJoin
	}
	addresses := coinJoin.InputAddresses()
	if len(addresses) != coinJoin.Participants {
		return nil, ErrParticipantsMismatch
	}

	secretKey, err := wallet.NewSecretKey()
	if err != nil {
		return nil, err
	}
	encryptedIdentifier, err := wallet.Seal(wallet.SealOpts{
		PlainText: []byte(uuid.New().String()),
		SecretKey: secretKey,
	})
	if err != nil {
		return nil, err
	}

	encryptedSecretKeys := make(map[string]string)
	for _, addr := range addresses {
		in, _ := coinJoin.InputByAddress(addr)
		pubkey, err := in.ParsedPublicKey()
		if err != nil {
			return nil, err
		}
		cypher, err := wallet.Encrypt(wallet.EncryptOpts{
			PlainText: secretKey,
			PublicKey: pubkey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt secret key for %s: %w", addr, err)
		}
		encryptedSecretKeys[addr] = cypher
	}

	return &MessageVerification{
		CoinJoin:                   coinJoin,
		EncryptedMessageIdentifier: encryptedIdentifier,
		EncryptedSecretKeys:        encryptedSecretKeys,
		decryptionContext:          ctx,
		secretKey:                  secretKey,
	}, nil
}

// NewMessageVerificationFromJSON parses a transport payload and binds it to
// the given coin join and decryption context.
func NewMessageVerificationFromJSON(
	payload []byte, ctx DecryptionContext, coinJoin *CoinJoin,
) (*MessageVerification, error) {
	if coinJoin == nil {
		return nil, ErrNullCoinJoin
	}

	p := messageVerificationPayload{}
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedPayload, err)
	}
	if p.EncryptedMessageIdentifier == nil || len(*p.EncryptedMessageIdentifier) <= 0 {
		return nil, fmt.Errorf("%w: missing encrypted_message_identifier", ErrMalformedPayload)
	}
	if p.EncryptedSecretKeys == nil {
		return nil, fmt.Errorf("%w: missing encrypted_secret_keys", ErrMalformedPayload)
	}

	return &MessageVerification{
		CoinJoin:                   coinJoin,
		EncryptedMessageIdentifier: *p.EncryptedMessageIdentifier,
		EncryptedSecretKeys:        *p.EncryptedSecretKeys,
		decryptionContext:          ctx,
	}, nil
}

// ToJSON returns the transport payload of the message verification.
func (m *MessageVerification) ToJSON() ([]byte, error) {
	keys := m.EncryptedSecretKeys
	if keys == nil {
		keys = make(map[string]string)
	}
	return json.Marshal(messageVerificationPayload{
		EncryptedMessageIdentifier: &m.EncryptedMessageIdentifier,
		EncryptedSecretKeys:        &keys,
	})
}

// Validate evaluates every rule and returns all the violations found.
func (m *MessageVerification) Validate() ValidationErrors {
	errs := ValidationErrors{}

	for addr, cypher := range m.EncryptedSecretKeys {
		if _, ok := m.decryptionContext[addr]; ok {
			if _, err := m.decryptSecretKey(addr, cypher); err != nil {
				errs.Add(FieldEncryptedSecretKeys, MsgCannotBeDecrypted)
			}
		}
		if !m.CoinJoin.HasInputAddress(addr) {
			errs.Add(FieldEncryptedSecretKeys, MsgAddressNotAnInput)
		}
	}

	if len(m.EncryptedSecretKeys) != m.CoinJoin.Participants {
		errs.Add(FieldEncryptedSecretKeys, MsgParticipantsCountMismatch)
	}

	return errs
}

// IsValid returns whether Validate reports no violations.
func (m *MessageVerification) IsValid() bool {
	return m.Validate().IsEmpty()
}

// SecretKeyForAddress decrypts the secret key encrypted for the given
// address with the private key of the decryption context.
func (m *MessageVerification) SecretKeyForAddress(address string) ([]byte, error) {
	cypher, ok := m.EncryptedSecretKeys[address]
	if !ok {
		return nil, ErrSecretKeyNotFound
	}
	return m.decryptSecretKey(address, cypher)
}

// SecretKey returns the secret key generated by BuildMessageVerification, nil
// for instances parsed from a payload.
func (m *MessageVerification) SecretKey() []byte {
	return m.secretKey
}

// MessageIdentifier reveals the message identifier with the secret key
// generated at build time or, if missing, with the one decrypted for any of
// the addresses of the decryption context.
func (m *MessageVerification) MessageIdentifier() (string, error) {
	secretKey := m.secretKey
	if secretKey == nil {
		addresses := make([]string, 0, len(m.EncryptedSecretKeys))
		for addr := range m.EncryptedSecretKeys {
			if _, ok := m.decryptionContext[addr]; ok {
				addresses = append(addresses, addr)
			}
		}
		if len(addresses) <= 0 {
			return "", ErrSecretKeyNotFound
		}
		sort.Strings(addresses)

		sk, err := m.SecretKeyForAddress(addresses[0])
		if err != nil {
			return "", err
		}
		secretKey = sk
	}

	identifier, err := wallet.Open(wallet.OpenOpts{
		CypherText: m.EncryptedMessageIdentifier,
		SecretKey:  secretKey,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrSecretKeyDecryptionFailed, err)
	}
	return string(identifier), nil
}

// decryptSecretKey returns the secret key encrypted in cypher if it is well
// formed, meaning that it is long enough and it reveals the message
// identifier.
func (m *MessageVerification) decryptSecretKey(address, cypher string) ([]byte, error) {
	prvkey, ok := m.decryptionContext[address]
	if !ok || prvkey == nil {
		return nil, fmt.Errorf(
			"%w: missing private key for address %s", ErrSecretKeyDecryptionFailed, address,
		)
	}

	secretKey, err := wallet.Decrypt(wallet.DecryptOpts{
		CypherText: cypher,
		PrivateKey: prvkey,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSecretKeyDecryptionFailed, err)
	}
	if len(secretKey) != wallet.SecretKeyLength {
		return nil, fmt.Errorf(
			"%w: %s", ErrSecretKeyDecryptionFailed, wallet.ErrInvalidSecretKeyLength,
		)
	}
	if _, err := wallet.Open(wallet.OpenOpts{
		CypherText: m.EncryptedMessageIdentifier,
		SecretKey:  secretKey,
	}); err != nil {
		return nil, fmt.Errorf(
			"%w: secret key does not reveal message identifier", ErrSecretKeyDecryptionFailed,
		)
	}
	return secretKey, nil
}
