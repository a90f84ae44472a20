package core

import "context"

type MemoryStore interface {
	Get(userID UserID) []Turn
	Put(userID UserID, turns []Turn)
	AppendAndGet(userID UserID, turn Turn) []Turn
	Trim(userID UserID, maxLen int)
	Users() int
}

// UserLocker serializes the read-modify-write cycle on a single user's history.
type UserLocker interface {
	Lock(ctx context.Context, userID UserID) (unlock func(), err error)
}

type HistoryRenderer interface {
	Render(turns []Turn) string
}
