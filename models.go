package main

// User represents a registered account plus its meetup profile.
type User struct {
	UserID      int
	Username    string
	PwHash      string
	Name        string
	Age         string
	City        string
	Description string

	ActiveSports bool
	Technology   bool
	Nature       bool
	Food         bool
	Travel       bool
	Pets         bool
}

// Meeting pairs a creator (username1) with an optional joiner (username2).
// An empty username2 means the meetup is still open.
type Meeting struct {
	MeetingID   int64
	Type        string
	Username1   string
	Username2   string
	Date        string
	Description string
}

// Message is one entry in the global chat.
type Message struct {
	MessageID int64
	Author    string
	Text      string
	PubDate   int64
}

// Match is the outcome of the interest matching engine. Candidate may
// equal Requester; the engine does not exclude the requesting user.
type Match struct {
	Interest  string
	Requester *User
	Candidate *User
}
