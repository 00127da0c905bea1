package engine

import (
	"github.com/limaJavier/campus-timetabling/pkg/coordinator"
	"github.com/limaJavier/campus-timetabling/pkg/model"
	"github.com/samber/lo"
)

type Timetabler interface {
	Build(
		modelInput model.ModelInput,
	) (Report, error)

	Verify(
		report Report,
		modelInput model.ModelInput,
	) []Violation
}

// Session is one committed chunk together with the hours it credited
type Session struct {
	Department  string            `csv:"department"`
	Half        model.Half        `csv:"half"`
	Code        string            `csv:"course_code"`
	SessionType model.SessionType `csv:"session_type"`
	Day         string            `csv:"day"`
	Slots       []int             `csv:"-"`
	Room        string            `csv:"room"`
	Hours       float64           `csv:"hours"`
	OwnerKey    string            `csv:"owner_key"`
}

type CourseRoom struct {
	Department string     `csv:"department"`
	Half       model.Half `csv:"half"`
	Code       string     `csv:"course_code"`
	Room       string     `csv:"room"`
}

// ElectiveRoom is the room text of one basket alternative: a single room or "R1 (Mon,Wed), R2 (Tue)"
type ElectiveRoom struct {
	Department string     `csv:"department"`
	Half       model.Half `csv:"half"`
	Basket     int        `csv:"basket"`
	Key        string     `csv:"key"`
	Code       string     `csv:"course_code"`
	Title      string     `csv:"course_title"`
	Rooms      string     `csv:"rooms"`
}

// ChosenElective records which alternative represents a basket in a pass
type ChosenElective struct {
	Department     string     `csv:"department"`
	Half           model.Half `csv:"half"`
	Basket         int        `csv:"basket"`
	Placeholder    string     `csv:"placeholder"`
	Representative string     `csv:"representative_code"`
	Title          string     `csv:"representative_title"`
	Alternatives   int        `csv:"alternatives"`
}

type Report struct {
	RunID     string
	Seed      int64
	Entries   []model.ScheduledEntry
	Sessions  []Session
	Deficits  []model.Deficit
	Malformed []model.MalformedRow
	Electives []ChosenElective

	CourseRooms   []CourseRoom
	ElectiveRooms []ElectiveRoom

	ElectiveTemplates        []coordinator.TemplateRecord[coordinator.ElectiveKey]
	CombinedTemplates        []coordinator.TemplateRecord[coordinator.CombinedKey]
	ElectiveRoomTemplates    []lo.Entry[coordinator.ElectiveRoomKey, string]
	CombinedRoomReservations []coordinator.ReservedSlot
}

// DeficitHours sums every unmet requirement of the run
func (report Report) DeficitHours() float64 {
	return lo.SumBy(report.Deficits, func(deficit model.Deficit) float64 { return deficit.RemainingHours })
}
