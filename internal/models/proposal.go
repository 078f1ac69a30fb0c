package models

// ProposedBlock is one schedule entry suggested by the AI collaborator.
type ProposedBlock struct {
	StartTime string `json:"startTime"`
	Title     string `json:"title"`
	Duration  int    `json:"duration"`
	Category  string `json:"category"`
	Reasoning string `json:"reasoning,omitempty"`
}

// Proposal is the AI collaborator's suggested priorities and schedule. A nil
// Schedule means the collaborator did not return one.
type Proposal struct {
	Priorities []string        `json:"priorities"`
	Schedule   []ProposedBlock `json:"schedule"`
}
