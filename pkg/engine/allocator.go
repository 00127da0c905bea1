package engine

import (
	"math"
	"slices"
	"strings"

	"github.com/limaJavier/campus-timetabling/pkg/coordinator"
	"github.com/limaJavier/campus-timetabling/pkg/model"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const epsilon = 1e-9

// Request describes one session chunk to place. Days are tried in order; Forced replays a template window
// instead of searching. Rooms held under BasketRoomPrefix belong to the basket itself and still count as
// headroom for it. RequireRoom rejects the window when PreferredRoom cannot be used
type Request struct {
	Days               []string
	Faculty            []string
	Code               string
	Duration           float64
	SessionType        model.SessionType
	Elective           bool
	Combined           bool
	Forced             []int
	MinRooms           int
	BasketRoomPrefix   string
	RelaxCrossSemester bool
	OwnerKey           string
	PreferredRoom      string
	RequireRoom        bool
	MinCapacity        int
}

type Allocation struct {
	Day   string
	Slots []int
	Room  string
}

type candidate struct {
	slots []int
	waste float64
}

// Pass is one (department, half) scheduling pass. It exclusively owns its Grid and reads and writes the
// shared Coordinator
type Pass struct {
	department  model.Department
	half        model.Half
	input       model.ModelInput
	grid        *model.Grid
	coordinator *coordinator.Coordinator
	options     Options
	logger      *zap.Logger
	rooms       map[string]model.Room

	labDays     map[string]bool
	committed   map[string]bool
	courseRooms map[string]string
	roomOrder   []string

	entries   []model.ScheduledEntry
	sessions  []Session
	deficits  []model.Deficit
	electives []chosenElective
}

func NewPass(department model.Department, half model.Half, input model.ModelInput, coordinator *coordinator.Coordinator, options Options) *Pass {
	options = options.withDefaults()
	return &Pass{
		department:  department,
		half:        half,
		input:       input,
		grid:        model.NewGrid(department.Name, half, input.Days, input.Slots),
		coordinator: coordinator,
		options:     options,
		logger:      options.Logger.With(zap.String("department", department.Name), zap.String("half", string(half))),
		rooms:       lo.KeyBy(input.Rooms, func(room model.Room) string { return strings.ToUpper(room.Id) }),
		labDays:     make(map[string]bool),
		committed:   make(map[string]bool),
		courseRooms: make(map[string]string),
	}
}

func (pass *Pass) Grid() *model.Grid { return pass.grid }

func (pass *Pass) Entries() []model.ScheduledEntry { return pass.entries }

func (pass *Pass) Deficits() []model.Deficit { return pass.deficits }

func (pass *Pass) Sessions() []Session { return pass.sessions }

// Allocate places one chunk on the first day of request.Days that admits it and commits it
func (pass *Pass) Allocate(request Request) (Allocation, bool) {
	for _, day := range request.Days {
		if allocation, ok := pass.allocateOn(day, request); ok {
			pass.commit(allocation, request)
			return allocation, true
		}
	}
	return Allocation{}, false
}

func (pass *Pass) allocateOn(day string, request Request) (Allocation, bool) {
	// A course component is placed at most once per day
	if pass.committed[committedKey(day, request.Code)] {
		return Allocation{}, false
	}
	// One lab per day per pass
	if request.SessionType == model.Practical && pass.labDays[day] {
		return Allocation{}, false
	}

	//** Forced mode
	if len(request.Forced) > 0 {
		if !pass.windowFree(day, request.Forced) {
			return Allocation{}, false
		}
		return pass.tryWindow(day, request.Forced, request)
	}

	//** Search mode
	for _, candidate := range pass.candidates(day, request.Duration) {
		if allocation, ok := pass.tryWindow(day, candidate.slots, request); ok {
			return allocation, true
		}
	}
	return Allocation{}, false
}

// candidates enumerates every minimal window reaching duration inside the free blocks of day, tightest first
func (pass *Pass) candidates(day string, duration float64) []candidate {
	slots := pass.input.Slots
	candidates := make([]candidate, 0)
	for _, block := range pass.grid.FreeBlocks(day) {
		for i := range block {
			accumulated := 0.0
			for j := i; j < len(block); j++ {
				accumulated += slots.At(block[j]).Duration
				if accumulated+epsilon >= duration {
					candidates = append(candidates, candidate{
						slots: slices.Clone(block[i : j+1]),
						waste: math.Max(0, accumulated-duration),
					})
					break
				}
			}
		}
	}

	slices.SortStableFunc(candidates, func(a, b candidate) int {
		if math.Abs(a.waste-b.waste) < epsilon {
			return 0
		} else if a.waste < b.waste {
			return -1
		}
		return 1
	})
	return candidates
}

func (pass *Pass) windowFree(day string, slots []int) bool {
	return lo.EveryBy(slots, func(slot int) bool {
		return slot >= 0 && slot < pass.input.Slots.Len() && !pass.input.Slots.Excluded(slot) && pass.grid.IsEmpty(day, slot)
	})
}

// tryWindow applies the faculty, headroom and cross-semester checks and resolves a room
func (pass *Pass) tryWindow(day string, slots []int, request Request) (Allocation, bool) {
	if !pass.coordinator.FacultyFree(pass.half, day, slots, request.Faculty, request.OwnerKey) {
		return Allocation{}, false
	}

	if request.Elective && request.MinRooms > 1 {
		for _, slot := range slots {
			if len(pass.input.Rooms)-pass.coordinator.RoomsInUseExcept(pass.half, day, slot, request.BasketRoomPrefix) < request.MinRooms {
				return Allocation{}, false
			}
		}
	}

	if request.Elective && !request.RelaxCrossSemester {
		if lo.SomeBy(slots, func(slot int) bool {
			return pass.coordinator.CrossSemesterBlocked(pass.department.SemesterGroup, day, slot)
		}) {
			return Allocation{}, false
		}
	}

	// Elective placeholders get their rooms once both halves are scheduled
	room := ""
	if !request.Elective {
		var ok bool
		if room, ok = pass.pickRoom(day, slots, request); !ok {
			return Allocation{}, false
		}
	}

	return Allocation{Day: day, Slots: slots, Room: room}, true
}

func (pass *Pass) commit(allocation Allocation, request Request) {
	day, slots, room := allocation.Day, allocation.Slots, allocation.Room
	display := DisplayText(request.Code, request.SessionType, room)
	faculty := strings.Join(request.Faculty, "/")

	for _, slot := range slots {
		pass.grid.Occupy(day, slot, display)
		pass.entries = append(pass.entries, model.ScheduledEntry{
			Department:  pass.department.Name,
			Half:        pass.half,
			Day:         day,
			Slot:        pass.input.Slots.At(slot).Label,
			Code:        request.Code,
			Display:     display,
			Faculty:     faculty,
			Room:        room,
			SessionType: request.SessionType,
			OwnerKey:    request.OwnerKey,
			Elective:    request.Elective,
			Combined:    request.Combined,
		})
	}

	pass.coordinator.OccupyFaculty(pass.half, day, slots, request.Faculty, request.OwnerKey)

	if room != "" {
		pass.coordinator.OccupyRoom(pass.half, day, slots, room, request.OwnerKey)
		if _, ok := pass.courseRooms[request.Code]; !ok {
			pass.courseRooms[request.Code] = room
			pass.roomOrder = append(pass.roomOrder, request.Code)
		}
		if pass.rooms[strings.ToUpper(room)].Usage == model.CombinedOnly {
			pass.coordinator.ReserveCombinedRoom(pass.department.SemesterGroup, pass.half, day, slots)
		}
	}

	if request.Elective {
		pass.coordinator.ReserveElectiveSlots(pass.department.SemesterGroup, day, slots)
	}
	if request.SessionType == model.Practical {
		pass.labDays[day] = true
	}
	pass.committed[committedKey(day, request.Code)] = true

	// Breaks pace this pass only; rooms and faculty are not reserved
	last := slots[len(slots)-1]
	for extra := 1; extra <= pass.options.BreakLength; extra++ {
		if last+extra < pass.input.Slots.Len() {
			pass.grid.MarkBreak(day, last+extra)
		}
	}
}

// DisplayText composes the grid cell text of a session
func DisplayText(code string, sessionType model.SessionType, room string) string {
	switch sessionType {
	case model.Tutorial:
		if room == "" {
			return code + "T"
		}
		return code + "T (" + room + ")"
	case model.Practical:
		if room == "" {
			return code + " (Lab)"
		}
		return code + " (Lab-" + room + ")"
	default:
		if room == "" {
			return code
		}
		return code + " (" + room + ")"
	}
}

func committedKey(day, code string) string {
	return day + "|" + code
}
