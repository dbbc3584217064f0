package domain

import (
	"encoding/hex"
	"encoding/json"

	"github.com/btcsuite/btcd/btcec/v2"
)

// Input is an unspent contributed to a coin join by one of the participants.
// PublicKey is the serialized key the Address is derived from, used to
// encrypt the secret material destined to the owner of the input.
type Input struct {
	Address   string
	Amount    int64
	PublicKey []byte
}

// ParsedPublicKey returns the public key of the input.
func (i Input) ParsedPublicKey() (*btcec.PublicKey, error) {
	pubkey, err := btcec.ParsePubKey(i.PublicKey)
	if err != nil {
		return nil, ErrInvalidInputPublicKey
	}
	return pubkey, nil
}

type jsonInput struct {
	Address   string `json:"address"`
	Amount    int64  `json:"amount"`
	PublicKey string `json:"public_key"`
}

func (i Input) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonInput{
		i.Address, i.Amount, hex.EncodeToString(i.PublicKey),
	})
}

func (i *Input) UnmarshalJSON(data []byte) error {
	v := jsonInput{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	pubkey, err := hex.DecodeString(v.PublicKey)
	if err != nil {
		return err
	}
	i.Address = v.Address
	i.Amount = v.Amount
	i.PublicKey = pubkey
	return nil
}

// CoinJoin is the agreed shape of a joint transaction. Participants is the
// authoritative number of parties, independent from the number of inputs
// since a participant can contribute more than one.
type CoinJoin struct {
	Participants int            `json:"participants"`
	Inputs       []Input        `json:"inputs"`
	Outputs      []TxOutputSpec `json:"outputs"`
}

// NewCoinJoin returns a new CoinJoin after making sure every input carries a
// valid public key.
func NewCoinJoin(
	participants int, inputs []Input, outputs []TxOutputSpec,
) (*CoinJoin, error) {
	if participants <= 0 {
		return nil, ErrInvalidParticipants
	}
	if len(inputs) <= 0 {
		return nil, ErrMissingInputs
	}
	for _, in := range inputs {
		if _, err := in.ParsedPublicKey(); err != nil {
			return nil, err
		}
		if in.Amount <= 0 {
			return nil, ErrInvalidAmount
		}
	}
	return &CoinJoin{participants, inputs, outputs}, nil
}

// InputAddresses returns the distinct addresses of the inputs in order of
// appearance.
func (c *CoinJoin) InputAddresses() []string {
	addresses := make([]string, 0, len(c.Inputs))
	seen := make(map[string]bool)
	for _, in := range c.Inputs {
		if seen[in.Address] {
			continue
		}
		seen[in.Address] = true
		addresses = append(addresses, in.Address)
	}
	return addresses
}

// HasInputAddress returns whether any input belongs to the given address.
func (c *CoinJoin) HasInputAddress(address string) bool {
	_, ok := c.InputByAddress(address)
	return ok
}

// InputByAddress returns the first input belonging to the given address.
func (c *CoinJoin) InputByAddress(address string) (Input, bool) {
	for _, in := range c.Inputs {
		if in.Address == address {
			return in, true
		}
	}
	return Input{}, false
}

// TotalInputAmount returns the sum of the amounts of the inputs.
func (c *CoinJoin) TotalInputAmount() int64 {
	var total int64
	for _, in := range c.Inputs {
		total += in.Amount
	}
	return total
}

// TotalOutputAmount returns the sum of the amounts of the outputs.
func (c *CoinJoin) TotalOutputAmount() int64 {
	var total int64
	for _, out := range c.Outputs {
		total += out.Amount
	}
	return total
}
