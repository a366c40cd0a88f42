package handler

// Status is the canonical claim workflow state. Every write goes through the
// transition graph below; there is no other path between states.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusSubmitted  Status = "Submitted"
	StatusVerified   Status = "Verified"
	StatusRejected   Status = "Rejected"
	StatusPMApproved Status = "PM Approved"
	StatusPMRejected Status = "PM Rejected"
	StatusCMApproved Status = "CM Approved"
	StatusCMRejected Status = "CM Rejected"
	StatusPaid       Status = "Paid"
)

// transitions is the directed graph of allowed status moves. CM and Paid
// states appear in reporting but have no transition-producing operation here,
// so they are terminal from this engine's point of view.
var transitions = map[Status][]Status{
	StatusPending:   {StatusSubmitted},
	StatusSubmitted: {StatusVerified, StatusRejected},
	StatusVerified:  {StatusPMApproved, StatusPMRejected},
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
