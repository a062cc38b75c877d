package domain

import "context"

type VoteAction int8

const (
	VoteHot  VoteAction = 1
	VoteCold VoteAction = -1
)

// HeatSyncWorker drains buffered temperature deltas into persistent storage.
type HeatSyncWorker interface {
	Start(ctx context.Context)
}
