package balance

import (
	balancedm "github.com/hosana-alex/leave-management/internal/core/datamodel/balance"
)

// TypeBalance is the read view of one leave type's allotment for a year.
// Remaining is always derived from the stored totals, never stored itself.
type TypeBalance struct {
	LeaveType string `json:"leave_type"`
	TotalDays int    `json:"total_days"`
	UsedDays  int    `json:"used_days"`
	Remaining int    `json:"remaining"`
	Exceeded  bool   `json:"exceeded"`
}

// YearBalance groups an employee's balances for one calendar year.
// Initialized distinguishes a ledger with zero usage from a year that has no
// rows yet; uninitialized reads carry the default allocations.
type YearBalance struct {
	UserID      int64         `json:"user_id"`
	Year        int           `json:"year"`
	Initialized bool          `json:"initialized"`
	Balances    []TypeBalance `json:"balances"`
}

func typeBalanceFromDataModel(dm *balancedm.Balance) TypeBalance {
	return TypeBalance{
		LeaveType: dm.LeaveType,
		TotalDays: dm.TotalDays,
		UsedDays:  dm.UsedDays,
		Remaining: dm.Remaining(),
		Exceeded:  dm.Exceeded(),
	}
}
