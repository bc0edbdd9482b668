package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Source adapters and the normalizer
// return these (optionally wrapped) so the aggregator can classify a failure
// without knowing which driver produced it.
//
// These represent factual states about a backing store or a record:
// - ErrNotFound: the store (or the selected key/document) holds no record
// - ErrUnavailable: connection or query against the store failed
// - ErrMalformed: a record exists but cannot be turned into a question
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
	ErrMalformed   = errors.New("malformed record")
)
