package domain

// validTransitions is the exhaustive lifecycle table. Terminal statuses have no
// outgoing edges.
var validTransitions = map[CDTStatus][]CDTStatus{
	StatusDraft:   {StatusPending, StatusCancelled},
	StatusPending: {StatusActive, StatusRejected, StatusCancelled},
	StatusActive:  {StatusCompleted, StatusCancelled},
}

// ValidateTransition reports whether the lifecycle table allows moving a
// certificate from one status to another. Dedicated business operations layer
// additional role and field rules on top of this table.
func ValidateTransition(from, to CDTStatus) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
