package services

// Notification kinds.
const (
	NotifySuccess = "success"
	NotifyError   = "error"
	NotifyInfo    = "info"
)

// Events carried by notifications.
const (
	EventLinkMode           = "link_mode"
	EventSelectionChanged   = "selection_changed"
	EventTablesLinked       = "tables_linked"
	EventTablesUnlinked     = "tables_unlinked"
	EventTablesRefreshed    = "tables_refreshed"
	EventReservationUpdated = "reservation_updated"
	EventReservationCreated = "reservation_created"
	EventReservationFailed  = "reservation_failed"
	EventBillCaptureOpened  = "bill_capture_opened"
	EventBillCaptureClosed  = "bill_capture_closed"
	EventValidationFailed   = "validation_failed"
)

// Notification is a user-facing message for the view.
type Notification struct {
	Kind    string      `json:"kind"`
	Event   string      `json:"event"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Notifier delivers notifications to the view.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

type discardNotifier struct{}

func (discardNotifier) Notify(Notification) {}

func orDiscard(n Notifier) Notifier {
	if n == nil {
		return discardNotifier{}
	}
	return n
}
