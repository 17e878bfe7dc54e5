package report

// CycleSummaryRow aggregates one employee's attendance inside a pay cycle.
type CycleSummaryRow struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeCode string `json:"employee_code"`
	EmployeeName string `json:"employee_name"`
	PresentDays  int    `json:"present_days"`
	LateDays     int    `json:"late_days"`
	HalfDays     int    `json:"half_days"`
	AbsentDays   int    `json:"absent_days"`
	WFHDays      int    `json:"wfh_days"`
	PunctualDays int    `json:"punctual_days"`
	WorkMinutes  int    `json:"work_minutes"`
}

type CycleSummaryResponse struct {
	CycleStart string            `json:"cycle_start"`
	CycleEnd   string            `json:"cycle_end"`
	Rows       []CycleSummaryRow `json:"rows"`
}

// LeaderboardRow is one employee's standing for a currency within a cycle.
type LeaderboardRow struct {
	Rank         int    `json:"rank"`
	EmployeeID   string `json:"employee_id"`
	EmployeeCode string `json:"employee_code"`
	EmployeeName string `json:"employee_name"`
	Earned       int    `json:"earned"`
}

type LeaderboardResponse struct {
	Currency   string           `json:"currency"`
	CycleStart string           `json:"cycle_start"`
	CycleEnd   string           `json:"cycle_end"`
	Rows       []LeaderboardRow `json:"rows"`
}
