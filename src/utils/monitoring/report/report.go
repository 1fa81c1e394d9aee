package report

type Report struct {
	Run            *RunReport            `json:"run,omitempty"`
	Matching       *MatchingReport       `json:"matching,omitempty"`
	Escrow         *EscrowReport         `json:"escrow,omitempty"`
	Watcher        *WatcherReport        `json:"watcher,omitempty"`
	Notifier       *NotifierReport       `json:"notifier,omitempty"`
	EventPublisher *EventPublisherReport `json:"event_publisher,omitempty"`
}
