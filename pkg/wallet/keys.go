package wallet

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

const privateKeyLength = 32

// KeyPair wraps a secp256k1 private key together with the public key
// serialization format used to derive its pay-to-pubkey-hash address.
type KeyPair struct {
	PrivateKey *btcec.PrivateKey
	Compressed bool
}

// NewKeyPair returns a key pair for a raw private key using the compressed
// public key format.
func NewKeyPair(prvkey *btcec.PrivateKey) *KeyPair {
	return &KeyPair{PrivateKey: prvkey, Compressed: true}
}

// ParsePrivateKey accepts either a WIF encoded key or a 32-byte key in hex
// format. WIF keys carry their own compression flag, hex keys are always
// treated as compressed.
func ParsePrivateKey(key string) (*KeyPair, error) {
	if len(key) <= 0 {
		return nil, ErrNullPrivateKey
	}

	if wif, err := btcutil.DecodeWIF(key); err == nil {
		return &KeyPair{
			PrivateKey: wif.PrivKey,
			Compressed: wif.CompressPubKey,
		}, nil
	}

	buf, err := hex.DecodeString(key)
	if err != nil || len(buf) != privateKeyLength {
		return nil, ErrInvalidPrivateKey
	}
	prvkey, _ := btcec.PrivKeyFromBytes(buf)
	return NewKeyPair(prvkey), nil
}

// PublicKey returns the serialized public key.
func (k *KeyPair) PublicKey() []byte {
	if k.Compressed {
		return k.PrivateKey.PubKey().SerializeCompressed()
	}
	return k.PrivateKey.PubKey().SerializeUncompressed()
}

// InputScriptType returns the type, as expected by EstimateTxSize, of the
// inputs signed with this key pair.
func (k *KeyPair) InputScriptType() int {
	if k.Compressed {
		return P2PKH
	}
	return P2PKHUncompressed
}

// Address returns the pay-to-pubkey-hash address of the key pair for the
// given network.
func (k *KeyPair) Address(net *chaincfg.Params) (string, error) {
	addr, err := k.address(net)
	if err != nil {
		return "", err
	}
	return addr.EncodeAddress(), nil
}

// Script returns the pay-to-pubkey-hash locking script of the key pair.
func (k *KeyPair) Script(net *chaincfg.Params) ([]byte, error) {
	addr, err := k.address(net)
	if err != nil {
		return nil, err
	}
	return txscript.PayToAddrScript(addr)
}

// WIF returns the key encoded in wallet import format for the given network.
func (k *KeyPair) WIF(net *chaincfg.Params) (string, error) {
	if net == nil {
		return "", ErrNullNetwork
	}
	wif, err := btcutil.NewWIF(k.PrivateKey, net, k.Compressed)
	if err != nil {
		return "", err
	}
	return wif.String(), nil
}

func (k *KeyPair) address(net *chaincfg.Params) (*btcutil.AddressPubKeyHash, error) {
	if net == nil {
		return nil, ErrNullNetwork
	}
	return btcutil.NewAddressPubKeyHash(btcutil.Hash160(k.PublicKey()), net)
}

// AddressFromPublicKey returns the pay-to-pubkey-hash address of a serialized
// public key.
func AddressFromPublicKey(pubkey []byte, net *chaincfg.Params) (string, error) {
	if len(pubkey) <= 0 {
		return "", ErrNullPublicKey
	}
	if net == nil {
		return "", ErrNullNetwork
	}
	if _, err := btcec.ParsePubKey(pubkey); err != nil {
		return "", err
	}
	addr, err := btcutil.NewAddressPubKeyHash(btcutil.Hash160(pubkey), net)
	if err != nil {
		return "", err
	}
	return addr.EncodeAddress(), nil
}

// AddressFromScript returns the address a standard locking script pays to.
// Non standard scripts or scripts paying to multiple addresses are rejected.
func AddressFromScript(script []byte, net *chaincfg.Params) (string, error) {
	if len(script) <= 0 {
		return "", ErrNullPrevOutScript
	}
	if net == nil {
		return "", ErrNullNetwork
	}
	_, addrs, _, err := txscript.ExtractPkScriptAddrs(script, net)
	if err != nil {
		return "", err
	}
	if len(addrs) != 1 {
		return "", ErrUnsupportedScript
	}
	return addrs[0].EncodeAddress(), nil
}
