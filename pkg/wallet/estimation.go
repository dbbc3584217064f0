package wallet

import (
	"math"

	"github.com/btcsuite/btcd/txscript"
)

const (
	P2PK = iota
	P2PKH
	P2SH
	P2WPKH
	P2WSH
	P2TR
	NullData
	NonStandard
	// P2PKHUncompressed is a P2PKH input signed with an uncompressed public
	// key. Locking scripts do not tell the key format apart, so ScriptType
	// never returns it.
	P2PKHUncompressed
)

var (
	scriptSigSizeByScriptType = map[int]int{
		P2PK:              74,  // len + opcode + sig
		P2PKH:             108, // len + opcode + sig + opcode + compressed pubkey
		P2PKHUncompressed: 140, // len + opcode + sig + opcode + uncompressed pubkey
	}
	scriptPubKeySizeByScriptType = map[int]int{
		P2PK:   36, // len + opcode + compressed pubkey + opcode
		P2PKH:  26, // len + opcodes (3) + hash(pubkey) + opcodes (2)
		P2SH:   24, // len + opcode + hash(script) + opcode
		P2WPKH: 23, // len + opcodes (2) + hash(pubkey)
		P2WSH:  35, // len + opcodes (2) + hash(script)
		P2TR:   35, // len + opcodes (2) + output key
	}
)

// ScriptType returns the type of the given locking script as expected by
// EstimateTxSize.
func ScriptType(script []byte) int {
	switch txscript.GetScriptClass(script) {
	case txscript.PubKeyTy:
		return P2PK
	case txscript.PubKeyHashTy:
		return P2PKH
	case txscript.ScriptHashTy:
		return P2SH
	case txscript.WitnessV0PubKeyHashTy:
		return P2WPKH
	case txscript.WitnessV0ScriptHashTy:
		return P2WSH
	case txscript.WitnessV1TaprootTy:
		return P2TR
	case txscript.NullDataTy:
		return NullData
	default:
		return NonStandard
	}
}

// EstimateTxSize makes an estimation of the size in bytes of a fully signed
// legacy transaction spending inputs of the given types into the given
// outputs. Only P2PK and P2PKH inputs can be signed by this package, any
// other input type is counted as if it was P2PKH. P2PKH inputs are counted
// with a compressed public key unless P2PKHUncompressed is given. The size
// of outputs with a non standard or null-data script must be passed in
// outAuxiliaryScriptSize in the order they appear.
func EstimateTxSize(
	inScriptTypes, outScriptTypes, outAuxiliaryScriptSize []int,
) int {
	// hash + index + sequence
	inBaseSize := 40
	insSize := 0
	for _, scriptType := range inScriptTypes {
		scriptSize, ok := scriptSigSizeByScriptType[scriptType]
		if !ok {
			scriptSize = scriptSigSizeByScriptType[P2PKH]
		}
		insSize += inBaseSize + scriptSize
	}

	// value
	outBaseSize := 8
	outsSize := 0
	auxCount := 0
	for _, scriptType := range outScriptTypes {
		scriptSize, ok := scriptPubKeySizeByScriptType[scriptType]
		if !ok {
			if auxCount < len(outAuxiliaryScriptSize) {
				scriptSize = outAuxiliaryScriptSize[auxCount]
			}
			auxCount++
		}
		outsSize += outBaseSize + scriptSize
	}

	// version + locktime
	return 8 +
		varIntSerializeSize(uint64(len(inScriptTypes))) +
		varIntSerializeSize(uint64(len(outScriptTypes))) +
		insSize + outsSize
}

// EstimateFee returns the fee in satoshi for a transaction of the given size
// paying the given amount of millisatoshi per byte.
func EstimateFee(txSize, milliSatsPerByte int) int64 {
	return int64(math.Ceil(float64(txSize) * float64(milliSatsPerByte) / 1000))
}

func varIntSerializeSize(val uint64) int {
	// The value is small enough to be represented by itself, so it's
	// just 1 byte.
	if val < 0xfd {
		return 1
	}

	// Discriminant 1 byte plus 2 bytes for the uint16.
	if val <= math.MaxUint16 {
		return 3
	}

	// Discriminant 1 byte plus 4 bytes for the uint32.
	if val <= math.MaxUint32 {
		return 5
	}

	// Discriminant 1 byte plus 8 bytes for the uint64.
	return 9
}
