package compliance

// ConfigurationError indicates statute tables are malformed or incomplete
// for a required lookup (e.g. a compliance model year without enough
// predecessors). Fatal and non-retryable: it means a deployment or data
// bug, not a transient fault.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// DataIntegrityError indicates the ledger encountered corrupted input, such
// as an unrecognized transaction type or a negative volume where none is
// allowed. Should be unreachable given validated inputs; presence indicates
// upstream corruption.
type DataIntegrityError struct {
	Reason string
}

func (e *DataIntegrityError) Error() string {
	return "data integrity error: " + e.Reason
}
