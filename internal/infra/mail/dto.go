package mail

import "time"

type LeadWonData struct {
	OwnerName string
	LeadName  string
	Value     string
}

type ProposalSentData struct {
	OwnerName     string
	LeadName      string
	ProposalTitle string
	Total         string
}

type FollowUpDueData struct {
	OwnerName    string
	LeadName     string
	FollowUpType string
	ScheduledAt  time.Time
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	dialer   Dialer
}
