package entities

// AutomationState is the controller's view of whether clicking is wanted
type AutomationState string

const (
	AutomationInactive AutomationState = "inactive"
	AutomationActive   AutomationState = "active"
)

// ConfigMode is the on-page configuration mode of a page agent
type ConfigMode string

const (
	ConfigModeIdle        ConfigMode = "idle"
	ConfigModeConfiguring ConfigMode = "configuring"
)

// LoopState reports whether a click loop has an active timer
type LoopState string

const (
	LoopStopped LoopState = "stopped"
	LoopRunning LoopState = "running"
)
