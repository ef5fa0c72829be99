package types

import "time"

// Vote holds a user's single live vote on a session. The toggle semantics live
// in the vote service; the unique index keeps a racing duplicate from becoming
// a second live vote.
type Vote struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	SessionID      uint      `gorm:"not null;index:idx_vote_session_user,unique,priority:1" json:"sessionId"`
	UserIdentifier string    `gorm:"not null;index:idx_vote_session_user,unique,priority:2" json:"userIdentifier"`
	Value          int       `gorm:"not null" json:"value"`
	CreatedAt      time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"not null" json:"updatedAt"`
}

func (Vote) TableName() string { return "vote" }

// VoteCounts is the aggregate tally for one session.
type VoteCounts struct {
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
	NetVotes  int `json:"netVotes"`
}
