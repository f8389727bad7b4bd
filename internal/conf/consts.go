package conf

// RotationType defines the log rotation type
type RotationType string

const (
	RotationDaily  RotationType = "daily"
	RotationWeekly RotationType = "weekly"
	RotationSize   RotationType = "size"
)

// Default capacity of the resolution diagnostic log.
const DefaultDiagnosticsCapacity = 100
