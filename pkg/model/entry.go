package model

// ScheduledEntry is one committed (day, slot) cell of a pass. Entries are append-only
type ScheduledEntry struct {
	Department  string      `csv:"department"`
	Half        Half        `csv:"half"`
	Day         string      `csv:"day"`
	Slot        string      `csv:"slot"`
	Code        string      `csv:"course_code"`
	Display     string      `csv:"display"`
	Faculty     string      `csv:"faculty"`
	Room        string      `csv:"room"`
	SessionType SessionType `csv:"session_type"`
	OwnerKey    string      `csv:"owner_key"`
	Elective    bool        `csv:"elective"`
	Combined    bool        `csv:"combined"`
}

// Deficit is an unmet requirement left after the attempt cap
type Deficit struct {
	Department     string      `csv:"department"`
	Half           Half        `csv:"half"`
	Code           string      `csv:"course_code"`
	Title          string      `csv:"course_title"`
	Faculty        string      `csv:"faculty"`
	SessionType    SessionType `csv:"type"`
	RemainingHours float64     `csv:"remaining_hours"`
	Membership     Membership  `csv:"semester_half"`
}

// MalformedRow records a course whose credit string could not be parsed and was zeroed
type MalformedRow struct {
	Department string `csv:"department"`
	Row        int    `csv:"row"`
	Code       string `csv:"course_code"`
	Credits    string `csv:"ltpsc"`
	Reason     string `csv:"reason"`
}
