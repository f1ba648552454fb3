package realtime

// EventKind discriminates outbound live events.
type EventKind string

const (
	EventNew      EventKind = "new"       // post created
	EventUpdate   EventKind = "update"    // partial post field patch
	EventRemove   EventKind = "remove"    // reshare wrapper removed
	EventBalance  EventKind = "balance"   // coin change + human message
	EventError    EventKind = "error"     // rejected action
	EventSuccess  EventKind = "success"   // accepted action with no feed change
	EventMessage  EventKind = "message"   // direct message delivered
	EventDMActive EventKind = "dm_active" // direct-message access granted
	EventProgress EventKind = "progress"  // transfer tick
)

// Event is the discriminated envelope sent over the live surface.
type Event struct {
	T EventKind   `json:"t"`
	D interface{} `json:"d"`
}

func NewEvent(kind EventKind, data interface{}) Event {
	return Event{T: kind, D: data}
}

func ErrorEvent(msg string) Event {
	return Event{T: EventError, D: map[string]string{"msg": msg}}
}

func SuccessEvent(msg string) Event {
	return Event{T: EventSuccess, D: map[string]string{"msg": msg}}
}

// BalanceEvent carries a user's fresh coin total and a human-readable note.
func BalanceEvent(coins int, msg string) Event {
	return Event{T: EventBalance, D: map[string]interface{}{"coins": coins, "msg": msg}}
}
