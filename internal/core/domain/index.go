package domain

// IndexState is the lifecycle state of the live vector index.
type IndexState int32

// Index lifecycle states.
const (
	// IndexUnbuilt means no index has ever been published.
	IndexUnbuilt IndexState = iota

	// IndexBuilding means a build is in progress. A previously
	// published index remains readable until it is replaced.
	IndexBuilding

	// IndexReady means an index is published.
	IndexReady
)

// String returns the string representation.
func (s IndexState) String() string {
	switch s {
	case IndexUnbuilt:
		return "UNBUILT"
	case IndexBuilding:
		return "BUILDING"
	case IndexReady:
		return "READY"
	default:
		return unknownDescription
	}
}

// RebuildStatus is the status reported after a successful rebuild.
const RebuildStatus = "rebuilt"

// RebuildResult reports a completed rebuild.
type RebuildResult struct {
	Status    string  `json:"status"`
	Chunks    int     `json:"chunks"`
	LatencyMS float64 `json:"latency_ms"`
}

// IndexStats reports the index without triggering a build.
type IndexStats struct {
	Built  bool `json:"built"`
	Chunks int  `json:"chunks"`
}

// UploadResult reports a saved upload and the rebuild it triggered.
type UploadResult struct {
	Saved string `json:"saved"`
	RebuildResult
}
