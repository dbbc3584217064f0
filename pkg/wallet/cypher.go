package wallet

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"io"

	"github.com/btcsuite/btcd/btcec/v2"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	// SecretKeyLength is the length of the symmetric keys used to seal
	// messages.
	SecretKeyLength = 32
	// NonceLength is the length of the secretbox nonce.
	NonceLength = 24

	ephemeralPubKeyLength = 33
)

// Salt is the static salt used by the hkdf when deriving encryption keys
// from ECDH shared secrets.
var Salt = []byte("CoinJoin Secret Key Encryption")

// NewSecretKey returns a fresh random symmetric key.
func NewSecretKey() ([]byte, error) {
	key := make([]byte, SecretKeyLength)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}

// EncryptOpts is the struct given to Encrypt method
type EncryptOpts struct {
	PlainText []byte
	PublicKey *btcec.PublicKey
}

func (o EncryptOpts) validate() error {
	if len(o.PlainText) <= 0 {
		return ErrNullPlainText
	}
	if o.PublicKey == nil {
		return ErrNullPublicKey
	}
	return nil
}

// Encrypt encrypts a plaintext so that only the owner of the private key
// behind the given public key can reveal it. An ephemeral key pair is
// generated for every call and its public key is prepended to the cypher
// together with the nonce.
func Encrypt(opts EncryptOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}

	ephemeral, err := btcec.NewPrivateKey()
	if err != nil {
		return "", err
	}
	ephemeralPubkey := ephemeral.PubKey().SerializeCompressed()

	key, err := deriveKey(
		btcec.GenerateSharedSecret(ephemeral, opts.PublicKey), ephemeralPubkey,
	)
	if err != nil {
		return "", err
	}

	sealed, err := seal(opts.PlainText, key)
	if err != nil {
		return "", err
	}

	cyphertext := append(ephemeralPubkey, sealed...)
	return base64.StdEncoding.EncodeToString(cyphertext), nil
}

// DecryptOpts is the struct given to Decrypt method
type DecryptOpts struct {
	CypherText string
	PrivateKey *btcec.PrivateKey
}

func (o DecryptOpts) validate() error {
	if len(o.CypherText) <= 0 {
		return ErrNullCypherText
	}
	if _, err := base64.StdEncoding.DecodeString(o.CypherText); err != nil {
		return ErrInvalidCypherText
	}
	if o.PrivateKey == nil {
		return ErrNullPrivateKey
	}
	return nil
}

// Decrypt reveals a cypher produced by Encrypt with the private key matching
// the public key it was encrypted for.
func Decrypt(opts DecryptOpts) ([]byte, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	data, _ := base64.StdEncoding.DecodeString(opts.CypherText)
	if len(data) < ephemeralPubKeyLength+NonceLength+secretbox.Overhead {
		return nil, ErrMalformedCypherText
	}
	ephemeralPubkey, sealed := data[:ephemeralPubKeyLength], data[ephemeralPubKeyLength:]

	pubkey, err := btcec.ParsePubKey(ephemeralPubkey)
	if err != nil {
		return nil, ErrMalformedCypherText
	}

	key, err := deriveKey(
		btcec.GenerateSharedSecret(opts.PrivateKey, pubkey), ephemeralPubkey,
	)
	if err != nil {
		return nil, err
	}

	return open(sealed, key)
}

// SealOpts is the struct given to Seal method
type SealOpts struct {
	PlainText []byte
	SecretKey []byte
}

func (o SealOpts) validate() error {
	if len(o.PlainText) <= 0 {
		return ErrNullPlainText
	}
	if len(o.SecretKey) != SecretKeyLength {
		return ErrInvalidSecretKeyLength
	}
	return nil
}

// Seal encrypts a plaintext with a symmetric secret key.
func Seal(opts SealOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}

	var key [SecretKeyLength]byte
	copy(key[:], opts.SecretKey)

	sealed, err := seal(opts.PlainText, key)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// OpenOpts is the struct given to Open method
type OpenOpts struct {
	CypherText string
	SecretKey  []byte
}

func (o OpenOpts) validate() error {
	if len(o.CypherText) <= 0 {
		return ErrNullCypherText
	}
	if _, err := base64.StdEncoding.DecodeString(o.CypherText); err != nil {
		return ErrInvalidCypherText
	}
	if len(o.SecretKey) != SecretKeyLength {
		return ErrInvalidSecretKeyLength
	}
	return nil
}

// Open reveals a cypher produced by Seal with the same secret key.
func Open(opts OpenOpts) ([]byte, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	var key [SecretKeyLength]byte
	copy(key[:], opts.SecretKey)

	data, _ := base64.StdEncoding.DecodeString(opts.CypherText)
	return open(data, key)
}

func deriveKey(sharedSecret, info []byte) ([SecretKeyLength]byte, error) {
	var key [SecretKeyLength]byte
	kdf := hkdf.New(sha256.New, sharedSecret, Salt, info)
	if _, err := io.ReadFull(kdf, key[:]); err != nil {
		return key, err
	}
	return key, nil
}

func seal(plaintext []byte, key [SecretKeyLength]byte) ([]byte, error) {
	var nonce [NonceLength]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, err
	}
	return secretbox.Seal(nonce[:], plaintext, &nonce, &key), nil
}

func open(data []byte, key [SecretKeyLength]byte) ([]byte, error) {
	if len(data) < NonceLength+secretbox.Overhead {
		return nil, ErrMalformedCypherText
	}

	var nonce [NonceLength]byte
	copy(nonce[:], data[:NonceLength])

	plaintext, ok := secretbox.Open(nil, data[NonceLength:], &nonce, &key)
	if !ok {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}
