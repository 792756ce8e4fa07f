package coordinator

// Fingerprint totally orders concurrent requests: by Lamport timestamp
// first, then by requester id. No two fingerprints in the system ever
// compare equal, since ids are unique.
type Fingerprint struct {
	Timestamp int64
	ID        int32
}

// Less reports whether f strictly precedes other in request order.
func (f Fingerprint) Less(other Fingerprint) bool {
	if f.Timestamp != other.Timestamp {
		return f.Timestamp < other.Timestamp
	}
	return f.ID < other.ID
}
