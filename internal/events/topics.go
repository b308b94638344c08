package events

// Topic constants for domain events emitted by the terminal utilities.
const (
	TopicReceiptIssued  = "receipt.issued"
	TopicLeaveApplied   = "leave.applied"
	TopicLeaveRollover  = "leave.rollover"
	TopicEmployeeAdded  = "employee.added"
	TopicParkingEntered = "parking.entered"
	TopicParkingExited  = "parking.exited"
)

// DefaultTopics returns the canonical list of topics.
func DefaultTopics() []string {
	return []string{
		TopicReceiptIssued,
		TopicLeaveApplied,
		TopicLeaveRollover,
		TopicEmployeeAdded,
		TopicParkingEntered,
		TopicParkingExited,
	}
}
