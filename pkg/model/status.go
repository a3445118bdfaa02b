package model

// Status is the singleton flags row gating the one-time backfill of the
// contact and calendar mirrors. Both flags start false and flip to true
// exactly once, by the respective backfill.
type Status struct {
	ContactsFilled bool
	CalendarFilled bool
}
