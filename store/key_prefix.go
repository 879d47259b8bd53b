package store

// Declare database key prefix for objects
const (
	PrefixAccount = "account:"

	PrefixStateMeta         = "state_meta:"
	StateMetaKeyBlockNumber = PrefixStateMeta + "block_number"
)
