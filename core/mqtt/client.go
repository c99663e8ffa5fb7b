package mqtt

// SessionNotice describes a schedule change for a single session. Notices
// are published after a run so agenda displays can refresh themselves.
type SessionNotice struct {
	Session  int    `json:"session"`
	Title    string `json:"title"`
	Room     string `json:"room"`
	Day      string `json:"day"`
	Slot     string `json:"slot"`
	Meetings string `json:"meetings"`
	Canceled bool   `json:"canceled"`
	RunID    string `json:"run_id"`
}

// Publisher sends session change notices to interested subscribers.
type Publisher interface {
	// PublishSessionChange publishes the notice on the session's topic.
	PublishSessionChange(n SessionNotice) error
}
