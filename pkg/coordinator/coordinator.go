package coordinator

import (
	"slices"
	"strings"

	"github.com/limaJavier/campus-timetabling/pkg/model"
	"github.com/samber/lo"
)

// Pin is the saved choice of an elective basket representative
type Pin struct {
	Code    string
	Title   string
	Credits string
}

type ReservedSlot struct {
	Semester string     `csv:"semester_group"`
	Half     model.Half `csv:"half"`
	Day      string     `csv:"day"`
	Slot     int        `csv:"slot"`
}

type daySlot struct {
	Day  string
	Slot int
}

// Coordinator is the state shared by every department pass of a run. Passes must run one at a time:
// it is not safe for concurrent use
type Coordinator struct {
	rooms   *ledger
	faculty *ledger

	electiveTemplates *templateStore[ElectiveKey]
	combinedTemplates *templateStore[CombinedKey]

	crossSemester   map[string]map[daySlot]bool
	representatives map[RepresentativeKey]Pin
	strength        map[StrengthKey]int

	electiveRooms      map[ElectiveRoomKey]string
	electiveRoomsOrder []ElectiveRoomKey

	reserved     []ReservedSlot
	reservedSeen map[ReservedSlot]bool
}

func New() *Coordinator {
	return &Coordinator{
		rooms:             newLedger(),
		faculty:           newLedger(),
		electiveTemplates: newTemplateStore[ElectiveKey](),
		combinedTemplates: newTemplateStore[CombinedKey](),
		crossSemester:     make(map[string]map[daySlot]bool),
		representatives:   make(map[RepresentativeKey]Pin),
		strength:          make(map[StrengthKey]int),
		electiveRooms:     make(map[ElectiveRoomKey]string),
		reservedSeen:      make(map[ReservedSlot]bool),
	}
}

//** Room ledger

// RoomFree reports whether room is unoccupied at every slot or occupied only under ownerKey
func (coordinator *Coordinator) RoomFree(half model.Half, day string, slots []int, room, ownerKey string) bool {
	return coordinator.rooms.free(half, day, slots, normalizeRoom(room), ownerKey)
}

func (coordinator *Coordinator) OccupyRoom(half model.Half, day string, slots []int, room, ownerKey string) {
	coordinator.rooms.occupy(half, day, slots, normalizeRoom(room), ownerKey)
}

// RoomsInUse counts the distinct rooms occupied at a slot
func (coordinator *Coordinator) RoomsInUse(half model.Half, day string, slot int) int {
	return coordinator.rooms.count(half, day, slot)
}

// RoomsInUseExcept counts the rooms occupied at a slot, leaving out those held under an owner key starting
// with ownerPrefix
func (coordinator *Coordinator) RoomsInUseExcept(half model.Half, day string, slot int, ownerPrefix string) int {
	return coordinator.rooms.countExcept(half, day, slot, ownerPrefix)
}

// RoomOwner returns the owner key under which room is held at a slot
func (coordinator *Coordinator) RoomOwner(half model.Half, day string, slot int, room string) (string, bool) {
	return coordinator.rooms.owner(half, day, slot, normalizeRoom(room))
}

//** Faculty ledger

// FacultyFree reports whether none of the faculty tokens is busy at the slots, sharing under ownerKey aside
func (coordinator *Coordinator) FacultyFree(half model.Half, day string, slots []int, faculty []string, ownerKey string) bool {
	return lo.EveryBy(faculty, func(name string) bool {
		return coordinator.faculty.free(half, day, slots, name, ownerKey)
	})
}

func (coordinator *Coordinator) OccupyFaculty(half model.Half, day string, slots []int, faculty []string, ownerKey string) {
	for _, name := range faculty {
		coordinator.faculty.occupy(half, day, slots, name, ownerKey)
	}
}

//** Templates

func (coordinator *Coordinator) ElectiveTemplate(key ElectiveKey) ([]Placement, bool) {
	return coordinator.electiveTemplates.get(key)
}

// RecordElective appends a placement to the template of key; it is a no-op returning false when
// another department created the template
func (coordinator *Coordinator) RecordElective(key ElectiveKey, department string, placement Placement) bool {
	return coordinator.electiveTemplates.append(key, department, placement)
}

func (coordinator *Coordinator) ElectiveTemplateOwner(key ElectiveKey) (string, bool) {
	return coordinator.electiveTemplates.owner(key)
}

func (coordinator *Coordinator) CombinedTemplate(key CombinedKey) ([]Placement, bool) {
	return coordinator.combinedTemplates.get(key)
}

func (coordinator *Coordinator) RecordCombined(key CombinedKey, department string, placement Placement) bool {
	return coordinator.combinedTemplates.append(key, department, placement)
}

func (coordinator *Coordinator) CombinedTemplateOwner(key CombinedKey) (string, bool) {
	return coordinator.combinedTemplates.owner(key)
}

func (coordinator *Coordinator) ElectiveTemplates() []TemplateRecord[ElectiveKey] {
	return coordinator.electiveTemplates.snapshot()
}

func (coordinator *Coordinator) CombinedTemplates() []TemplateRecord[CombinedKey] {
	return coordinator.combinedTemplates.snapshot()
}

//** Cross-semester elective reservations

func (coordinator *Coordinator) ReserveElectiveSlots(semester, day string, slots []int) {
	reserved, ok := coordinator.crossSemester[semester]
	if !ok {
		reserved = make(map[daySlot]bool)
		coordinator.crossSemester[semester] = reserved
	}
	for _, slot := range slots {
		reserved[daySlot{day, slot}] = true
	}
}

// CrossSemesterBlocked reports whether a semester other than semester reserved the slot for its electives
func (coordinator *Coordinator) CrossSemesterBlocked(semester, day string, slot int) bool {
	for other, reserved := range coordinator.crossSemester {
		if other != semester && reserved[daySlot{day, slot}] {
			return true
		}
	}
	return false
}

//** Representatives

// PickRepresentative resolves the representative of a basket. A saved pin is matched by code, then by
// title (and credits), then by credits alone; without a usable pin the lexicographically-first
// alternative is chosen and pinned
func (coordinator *Coordinator) PickRepresentative(key RepresentativeKey, alternatives []model.Course) (model.Course, bool) {
	if len(alternatives) == 0 {
		return model.Course{}, false
	}

	ordered := slices.Clone(alternatives)
	slices.SortStableFunc(ordered, func(a, b model.Course) int {
		if c := strings.Compare(a.Code, b.Code); c != 0 {
			return c
		}
		if c := strings.Compare(a.Title, b.Title); c != 0 {
			return c
		}
		return strings.Compare(a.FacultyString(), b.FacultyString())
	})

	if pin, ok := coordinator.representatives[key]; ok {
		code := strings.ToUpper(strings.TrimSpace(pin.Code))
		title := strings.ToLower(strings.TrimSpace(pin.Title))
		credits := strings.TrimSpace(pin.Credits)

		if course, found := lo.Find(ordered, func(course model.Course) bool {
			return code != "" && strings.ToUpper(course.Code) == code
		}); found {
			return course, true
		}
		if course, found := lo.Find(ordered, func(course model.Course) bool {
			return title != "" && strings.ToLower(course.Title) == title && (credits == "" || course.Credits.Raw == credits)
		}); found {
			return course, true
		}
		if course, found := lo.Find(ordered, func(course model.Course) bool {
			return credits != "" && course.Credits.Raw == credits
		}); found {
			return course, true
		}
	}

	chosen := ordered[0]
	if _, ok := coordinator.representatives[key]; !ok {
		coordinator.representatives[key] = Pin{Code: chosen.Code, Title: chosen.Title, Credits: chosen.Credits.Raw}
	}
	return chosen, true
}

func (coordinator *Coordinator) Representative(key RepresentativeKey) (Pin, bool) {
	pin, ok := coordinator.representatives[key]
	return pin, ok
}

//** Combined strength

// BuildCombinedStrength sums the enrolment of every non-elective combined course across its cluster.
// It must run before any department is scheduled
func (coordinator *Coordinator) BuildCombinedStrength(departments []model.Department) {
	for _, department := range departments {
		for _, course := range department.Courses {
			if !course.Combined || course.Elective || course.Code == "" {
				continue
			}
			key := NewStrengthKey(department.SemesterGroup, department.Cluster, course.Code)
			coordinator.strength[key] += course.Students
		}
	}
}

func (coordinator *Coordinator) CombinedStrength(semester, cluster, code string) int {
	return coordinator.strength[NewStrengthKey(semester, cluster, code)]
}

//** Elective room templates

func (coordinator *Coordinator) ElectiveRoom(key ElectiveRoomKey) (string, bool) {
	room, ok := coordinator.electiveRooms[key]
	return room, ok
}

// SaveElectiveRoom records the stable room of an alternative unless one is already saved
func (coordinator *Coordinator) SaveElectiveRoom(key ElectiveRoomKey, room string) bool {
	if _, ok := coordinator.electiveRooms[key]; ok {
		return false
	}
	coordinator.electiveRooms[key] = room
	coordinator.electiveRoomsOrder = append(coordinator.electiveRoomsOrder, key)
	return true
}

func (coordinator *Coordinator) ElectiveRooms() []lo.Entry[ElectiveRoomKey, string] {
	return lo.Map(coordinator.electiveRoomsOrder, func(key ElectiveRoomKey, _ int) lo.Entry[ElectiveRoomKey, string] {
		return lo.Entry[ElectiveRoomKey, string]{Key: key, Value: coordinator.electiveRooms[key]}
	})
}

//** Reserved-room ledger

// ReserveCombinedRoom records the slots at which a combined-only room was committed
func (coordinator *Coordinator) ReserveCombinedRoom(semester string, half model.Half, day string, slots []int) {
	for _, slot := range slots {
		reserved := ReservedSlot{Semester: semester, Half: half, Day: day, Slot: slot}
		if coordinator.reservedSeen[reserved] {
			continue
		}
		coordinator.reservedSeen[reserved] = true
		coordinator.reserved = append(coordinator.reserved, reserved)
	}
}

func (coordinator *Coordinator) CombinedRoomReservations() []ReservedSlot {
	return slices.Clone(coordinator.reserved)
}

func normalizeRoom(room string) string {
	return strings.ToUpper(strings.TrimSpace(room))
}
