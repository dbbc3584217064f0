package wallet

import (
	"errors"
	"fmt"
)

var (
	// ErrNullPrivateKey ...
	ErrNullPrivateKey = errors.New("private key must not be null")
	// ErrNullPublicKey ...
	ErrNullPublicKey = errors.New("public key must not be null")
	// ErrNullKeyPair ...
	ErrNullKeyPair = errors.New("key pair must not be null")
	// ErrNullNetwork ...
	ErrNullNetwork = errors.New("network params are null")
	// ErrNullTx ...
	ErrNullTx = errors.New("transaction must not be null")
	// ErrNullPrevOutScript ...
	ErrNullPrevOutScript = errors.New("previous output script must not be null")
	// ErrNullPlainText ...
	ErrNullPlainText = errors.New("text to encrypt must not be null")
	// ErrNullCypherText ...
	ErrNullCypherText = errors.New("cypher to decrypt must not be null")

	// ErrInvalidPrivateKey ...
	ErrInvalidPrivateKey = errors.New(
		"private key must be either in WIF format or a 32 byte array in hex format",
	)
	// ErrInvalidCypherText ...
	ErrInvalidCypherText = errors.New("cypher must be in base64 format")
	// ErrMalformedCypherText ...
	ErrMalformedCypherText = errors.New("cypher is too short or malformed")
	// ErrInvalidSecretKeyLength ...
	ErrInvalidSecretKeyLength = fmt.Errorf(
		"secret key must be a %d byte array", SecretKeyLength,
	)
	// ErrDecryptionFailed ...
	ErrDecryptionFailed = errors.New("failed to decrypt cypher with the given key")

	// ErrUnsupportedScript ...
	ErrUnsupportedScript = errors.New(
		"previous output script must be a standard pay-to-pubkey-hash script",
	)
	// ErrKeyScriptMismatch ...
	ErrKeyScriptMismatch = errors.New(
		"private key does not match the previous output script",
	)
)
