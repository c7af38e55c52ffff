package compliance

// TransactionType tags a ledger entry. Issuance, transfer-in and
// carry-forward add to the balance; transfer-out, retirement and reduction
// subtract from it.
type TransactionType string

const (
	TxIssuance     TransactionType = "issuance"
	TxTransferIn   TransactionType = "transfer_in"
	TxTransferOut  TransactionType = "transfer_out"
	TxRetirement   TransactionType = "retirement"
	TxReduction    TransactionType = "reduction"
	TxCarryForward TransactionType = "carry_forward"
)

// Sign returns +1 for additive types, -1 for subtractive types, and
// ok=false for anything outside the enumerated set.
func (t TransactionType) Sign() (int, bool) {
	switch t {
	case TxIssuance, TxTransferIn, TxCarryForward:
		return 1, true
	case TxTransferOut, TxRetirement, TxReduction:
		return -1, true
	}
	return 0, false
}

func (t TransactionType) Valid() bool {
	_, ok := t.Sign()
	return ok
}

func (t TransactionType) String() string {
	return string(t)
}
