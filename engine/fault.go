package engine

// Fault locates one 8-byte unit that did not match the stream.
type Fault struct {
	Name  string `json:"name"`
	Index uint32 `json:"index"`
	Phase Phase  `json:"phase"`
	// Block is the index of the block the unit was read in, and Offset the
	// unit's byte offset inside that block.
	Block     int64 `json:"block"`
	Offset    int64 `json:"offset"`
	BlockSize int   `json:"blockSize"`
	// Position is the absolute byte offset in the file.
	Position int64  `json:"position"`
	Expected uint64 `json:"expected"`
	Actual   uint64 `json:"actual"`
}

// DefaultFaultRecordLimit bounds the fault records a Run keeps in memory.
// The fault counter and the observer see every fault regardless.
const DefaultFaultRecordLimit = 10000
