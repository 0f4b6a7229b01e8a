package model

import (
	"encoding/json"
	"fmt"
)

// TxnID is the purchase correlation reference. The backend emits it as
// a JSON number on some routes and a string on others; both decode to
// the same opaque string form, and it is always re-emitted as a string.
type TxnID string

func (t TxnID) String() string { return string(t) }

func (t TxnID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *TxnID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = TxnID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("transaction id: expected string or number, got %s", data)
	}
	*t = TxnID(n.String())
	return nil
}
