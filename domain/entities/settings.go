package entities

// Keys of the persisted settings
const (
	SettingClickConfig = "clickConfig"
	SettingSavedDelay  = "savedDelay"
)

// PersistedSettings is a snapshot of everything kept across sessions
type PersistedSettings struct {
	ClickConfig *ClickConfiguration `json:"clickConfig,omitempty"`
	SavedDelay  *int                `json:"savedDelay,omitempty"`
}
