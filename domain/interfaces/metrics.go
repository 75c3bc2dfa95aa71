package interfaces

// ClickMetrics records click loop activity
type ClickMetrics interface {
	ClickDispatched()
	ClickMissed()
	LoopStarted()
	LoopStopped()
}
