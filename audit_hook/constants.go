package audithook

// Action constants for audit events.
const (
	// Account actions
	ActionAccountCreated = "account.created"
	ActionAccountKilled  = "account.killed"

	// Issuance actions
	ActionMinted   = "coin.minted"
	ActionBurned   = "coin.burned"
	ActionRejected = "coin.rejected"
)

// Resource constants for audit events.
const (
	ResourceAccount  = "account"
	ResourceIssuance = "issuance"
)

// Category constants for audit events.
const (
	CategoryAccount  = "account"
	CategoryIssuance = "issuance"
	CategoryAccess   = "access"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
