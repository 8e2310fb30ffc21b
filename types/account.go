package types

// AccountID identifies a ledger account. It is opaque: the ledger only
// compares account identifiers for equality and never inspects their
// structure. Authenticating the holder of an AccountID is the host's job.
type AccountID string

// NoAccount is the empty AccountID.
const NoAccount AccountID = ""

// String implements fmt.Stringer.
func (a AccountID) String() string { return string(a) }

// IsEmpty reports whether the identifier is the empty string.
func (a AccountID) IsEmpty() bool { return a == NoAccount }
