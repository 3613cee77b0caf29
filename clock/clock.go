// Package clock implements the simulator's monotonic month counter (spec §3,
// §4.1). The Clock is the only time source the rest of the engine consults;
// nothing else may read the wall clock when deciding simulation outcomes.
package clock

// Clock is a monotonically increasing count of months since epoch. Only the
// simulator's tick engine (sim.Simulator) calls Advance; every other
// component treats a Clock as read-only.
type Clock struct {
	months int
}

// New returns a Clock initialized to the given month count (0 for a fresh
// world, or a restored value when loading a save).
func New(months int) *Clock {
	return &Clock{months: months}
}

// Now returns the current month count.
func (c *Clock) Now() int {
	return c.months
}

// Year returns the 1-based year for the current month count.
func (c *Clock) Year() int {
	return c.months/12 + 1
}

// Month returns the 1-based month-of-year (1..12) for the current month count.
func (c *Clock) Month() int {
	return c.months%12 + 1
}

// AdvanceOneMonth is the only mutator on Clock. It is called exactly once per
// tick, after every other tick phase has run (spec §4.7 step 10).
func (c *Clock) AdvanceOneMonth() {
	c.months++
}

// YearMonth decomposes an arbitrary month count the same way Year/Month do,
// for use when agents or actions need to interpret a stored start_month
// without holding a reference to the live Clock (e.g. during save/restore).
func YearMonth(months int) (year, month int) {
	return months/12 + 1, months%12 + 1
}
