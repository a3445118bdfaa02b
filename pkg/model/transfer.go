package model

import "time"

// Transfer is one upload attempt. Records are created right before an
// upload begins and marked completed only after the collector confirmed
// the upload and the local prune succeeded. They are never deleted: the
// table is the audit trail and the source of the high-water-mark.
type Transfer struct {
	ID        int64
	Completed bool
	StartTime time.Time
	DeviceID  string
}
