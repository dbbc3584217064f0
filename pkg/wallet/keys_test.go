package wallet

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCompressedWIF   = "KwDiBf89QgGbjEhKnhXJuH7LrciVrZi3qYjgd9M7rFU73sVHnoWn"
	testUncompressedWIF = "5HpHagT65TZzG1PH3CSu63k8DbpvD8s5ip4nEB3kEsreAnchuDf"
	testHexKey          = "0000000000000000000000000000000000000000000000000000000000000001"
)

func TestParsePrivateKey(t *testing.T) {
	tests := []struct {
		key             string
		compressed      bool
		expectedAddress string
		expectedPubkey  string
	}{
		{
			key:             testCompressedWIF,
			compressed:      true,
			expectedAddress: "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH",
			expectedPubkey:  "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798",
		},
		{
			key:             testUncompressedWIF,
			compressed:      false,
			expectedAddress: "1EHNa6Q4Jz2uvNExL497mE43ikXhwF6kZm",
		},
		{
			key:             testHexKey,
			compressed:      true,
			expectedAddress: "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH",
			expectedPubkey:  "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798",
		},
	}

	for _, tt := range tests {
		keyPair, err := ParsePrivateKey(tt.key)
		require.NoError(t, err)
		assert.Equal(t, tt.compressed, keyPair.Compressed)

		addr, err := keyPair.Address(&chaincfg.MainNetParams)
		require.NoError(t, err)
		assert.Equal(t, tt.expectedAddress, addr)

		if tt.expectedPubkey != "" {
			assert.Equal(t, tt.expectedPubkey, hex.EncodeToString(keyPair.PublicKey()))
		}
	}
}

func TestFailingParsePrivateKey(t *testing.T) {
	tests := []struct {
		key string
		err error
	}{
		{"", ErrNullPrivateKey},
		{"not a key", ErrInvalidPrivateKey},
		{"0001", ErrInvalidPrivateKey},
		{strings.Repeat("zz", 32), ErrInvalidPrivateKey},
	}

	for _, tt := range tests {
		_, err := ParsePrivateKey(tt.key)
		assert.Equal(t, tt.err, err)
	}
}

func TestKeyPairWIF(t *testing.T) {
	keyPair, err := ParsePrivateKey(testHexKey)
	require.NoError(t, err)

	wif, err := keyPair.WIF(&chaincfg.MainNetParams)
	require.NoError(t, err)
	require.Equal(t, testCompressedWIF, wif)

	_, err = keyPair.WIF(nil)
	require.Equal(t, ErrNullNetwork, err)
}

func TestAddressFromPublicKeyAndScript(t *testing.T) {
	keyPair, err := ParsePrivateKey(testCompressedWIF)
	require.NoError(t, err)

	net := &chaincfg.RegressionNetParams
	expected, err := keyPair.Address(net)
	require.NoError(t, err)

	addr, err := AddressFromPublicKey(keyPair.PublicKey(), net)
	require.NoError(t, err)
	require.Equal(t, expected, addr)

	script, err := keyPair.Script(net)
	require.NoError(t, err)
	addr, err = AddressFromScript(script, net)
	require.NoError(t, err)
	require.Equal(t, expected, addr)

	_, err = AddressFromPublicKey([]byte{0x02, 0x01}, net)
	require.Error(t, err)

	_, err = AddressFromScript(nil, net)
	require.Equal(t, ErrNullPrevOutScript, err)
}
