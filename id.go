package coin

import "github.com/xraph/coin/id"

// ID is the primary identifier type for generated coin identifiers.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
