package usecase

import "time"

const (
	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// ReportCacheTTL bounds how long a monthly report stays cached. Entries
	// are keyed by book revision, so stale reads cannot happen; the TTL only
	// caps memory in the cache backend.
	ReportCacheTTL = time.Hour

	// saverQueueDepth is the pending-save buffer per owner. Depth one with
	// latest-wins replacement: intermediate states are safe to skip because
	// every snapshot is complete.
	saverQueueDepth = 1
)
