package messaging

type ChangeTopic string

const (
	FilterChanged  ChangeTopic = "filter_changed"
	SessionStarted ChangeTopic = "session_started"
)
