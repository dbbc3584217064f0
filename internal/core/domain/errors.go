package domain

import "errors"

var (
	// ErrInvalidTxID ...
	ErrInvalidTxID = errors.New("transaction id must be a 32 byte hash in hex format")
	// ErrInvalidAddress ...
	ErrInvalidAddress = errors.New("address is not valid for the current network")
	// ErrInvalidAmount ...
	ErrInvalidAmount = errors.New("amount must be a positive number of satoshis")
	// ErrNullNetwork ...
	ErrNullNetwork = errors.New("network params are null")
	// ErrInputIndexOutOfRange ...
	ErrInputIndexOutOfRange = errors.New("input index is out of range")
	// ErrNullPrevOutput ...
	ErrNullPrevOutput = errors.New("previous output must not be null")

	// ErrNullCoinJoin ...
	ErrNullCoinJoin = errors.New("coin join must not be null")
	// ErrInvalidParticipants ...
	ErrInvalidParticipants = errors.New("number of participants must be greater than zero")
	// ErrMissingInputs ...
	ErrMissingInputs = errors.New("coin join must have at least one input")
	// ErrParticipantsMismatch is returned when building a message verification
	// for a coin join whose distinct input addresses are not one per
	// participant.
	ErrParticipantsMismatch = errors.New("number of input addresses does not match number of participants")
	// ErrInvalidInputPublicKey ...
	ErrInvalidInputPublicKey = errors.New("input public key must be a valid secp256k1 point")
	// ErrMalformedPayload ...
	ErrMalformedPayload = errors.New("message verification payload is malformed")
	// ErrSecretKeyNotFound is returned when the message verification has no
	// encrypted secret key for the requested address.
	ErrSecretKeyNotFound = errors.New("no secret key for the given address")
	// ErrSecretKeyDecryptionFailed is returned when the encrypted secret key
	// for the requested address exists but can not be turned into a valid
	// secret key.
	ErrSecretKeyDecryptionFailed = errors.New("secret key can not be decrypted")
)
