package engine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/limaJavier/campus-timetabling/pkg/model"
	"github.com/samber/lo"
)

type ViolationKind string

const (
	RoomDoubleBooked    ViolationKind = "room_double_booked"
	FacultyDoubleBooked ViolationKind = "faculty_double_booked"
	ReservedRoomMisuse  ViolationKind = "reserved_room_misuse"
	ElectiveMisaligned  ViolationKind = "elective_misaligned"
	RequirementMismatch ViolationKind = "requirement_mismatch"
)

type Violation struct {
	Kind       ViolationKind `csv:"kind"`
	Department string        `csv:"department"`
	Half       model.Half    `csv:"half"`
	Day        string        `csv:"day"`
	Slot       string        `csv:"slot"`
	Detail     string        `csv:"detail"`
}

type cellResource struct {
	half     model.Half
	day      string
	slot     string
	resource string
}

type componentKey struct {
	department  string
	half        model.Half
	code        string
	sessionType model.SessionType
}

// Verify checks the committed logs against the allocation invariants and returns every violation found
func Verify(report Report, modelInput model.ModelInput) []Violation {
	violations := make([]Violation, 0)
	violations = append(violations, verifyDoubleBooking(report)...)
	violations = append(violations, verifyReservedRooms(report, modelInput)...)
	violations = append(violations, verifyElectiveAlignment(report, modelInput)...)
	violations = append(violations, verifyRequirements(report, modelInput)...)
	return violations
}

func verifyDoubleBooking(report Report) []Violation {
	violations := make([]Violation, 0)

	//** Collect occupants per room and per faculty token
	roomOccupants := make(map[cellResource][]model.ScheduledEntry)
	facultyOccupants := make(map[cellResource][]model.ScheduledEntry)
	cells := make([]cellResource, 0)
	tokens := make([]cellResource, 0)
	for _, entry := range report.Entries {
		if entry.Room != "" {
			key := cellResource{entry.Half, entry.Day, entry.Slot, strings.ToUpper(entry.Room)}
			if _, ok := roomOccupants[key]; !ok {
				cells = append(cells, key)
			}
			roomOccupants[key] = append(roomOccupants[key], entry)
		}
		for _, name := range model.SplitFaculty(entry.Faculty) {
			key := cellResource{entry.Half, entry.Day, entry.Slot, name}
			if _, ok := facultyOccupants[key]; !ok {
				tokens = append(tokens, key)
			}
			facultyOccupants[key] = append(facultyOccupants[key], entry)
		}
	}

	// Occupants may share a cell only when all of them carry the same non-empty owner key
	shared := func(entries []model.ScheduledEntry) bool {
		return entries[0].OwnerKey != "" && lo.EveryBy(entries, func(entry model.ScheduledEntry) bool {
			return entry.OwnerKey == entries[0].OwnerKey
		})
	}
	describe := func(entries []model.ScheduledEntry) string {
		return strings.Join(lo.Map(entries, func(entry model.ScheduledEntry, _ int) string {
			return fmt.Sprintf("%v:%v", entry.Department, entry.Code)
		}), ", ")
	}

	for _, key := range cells {
		if entries := roomOccupants[key]; len(entries) > 1 && !shared(entries) {
			violations = append(violations, Violation{
				Kind:       RoomDoubleBooked,
				Department: entries[0].Department,
				Half:       key.half,
				Day:        key.day,
				Slot:       key.slot,
				Detail:     fmt.Sprintf("room %v hosts %v", key.resource, describe(entries)),
			})
		}
	}
	for _, key := range tokens {
		if entries := facultyOccupants[key]; len(entries) > 1 && !shared(entries) {
			violations = append(violations, Violation{
				Kind:       FacultyDoubleBooked,
				Department: entries[0].Department,
				Half:       key.half,
				Day:        key.day,
				Slot:       key.slot,
				Detail:     fmt.Sprintf("faculty %v teaches %v", key.resource, describe(entries)),
			})
		}
	}
	return violations
}

func verifyReservedRooms(report Report, modelInput model.ModelInput) []Violation {
	rooms := lo.KeyBy(modelInput.Rooms, func(room model.Room) string { return strings.ToUpper(room.Id) })
	violations := make([]Violation, 0)
	for _, entry := range report.Entries {
		room, ok := rooms[strings.ToUpper(entry.Room)]
		if !ok || room.Admits(!entry.Elective, entry.Combined) {
			continue
		}
		violations = append(violations, Violation{
			Kind:       ReservedRoomMisuse,
			Department: entry.Department,
			Half:       entry.Half,
			Day:        entry.Day,
			Slot:       entry.Slot,
			Detail:     fmt.Sprintf("%v room %v hosts %v", room.Usage, room.Id, entry.Code),
		})
	}
	return violations
}

// verifyElectiveAlignment checks that every department of a semester holds a basket at the same cells
func verifyElectiveAlignment(report Report, modelInput model.ModelInput) []Violation {
	semesters := lo.SliceToMap(modelInput.Departments, func(department model.Department) (string, string) {
		return department.Name, department.SemesterGroup
	})

	type basketKey struct {
		semester string
		half     model.Half
		code     string
	}
	cells := make(map[basketKey]map[string][]string)
	baskets := make([]basketKey, 0)
	departments := make(map[basketKey][]string)
	for _, entry := range report.Entries {
		if !entry.Elective {
			continue
		}
		key := basketKey{semesters[entry.Department], entry.Half, entry.Code}
		if _, ok := cells[key]; !ok {
			cells[key] = make(map[string][]string)
			baskets = append(baskets, key)
		}
		if _, ok := cells[key][entry.Department]; !ok {
			departments[key] = append(departments[key], entry.Department)
		}
		cells[key][entry.Department] = append(cells[key][entry.Department], entry.Day+" "+entry.Slot)
	}

	violations := make([]Violation, 0)
	for _, key := range baskets {
		reference := departments[key][0]
		expected := slices.Sorted(slices.Values(cells[key][reference]))
		for _, department := range departments[key][1:] {
			actual := slices.Sorted(slices.Values(cells[key][department]))
			if slices.Equal(expected, actual) {
				continue
			}
			violations = append(violations, Violation{
				Kind:       ElectiveMisaligned,
				Department: department,
				Half:       key.half,
				Detail:     fmt.Sprintf("%v differs from %v: %v vs %v", key.code, reference, actual, expected),
			})
		}
	}
	return violations
}

// verifyRequirements checks that credited hours never exceed a requirement and that credited hours plus
// recorded deficits cover it
func verifyRequirements(report Report, modelInput model.ModelInput) []Violation {
	required := make(map[componentKey]float64)
	order := make([]componentKey, 0)
	add := func(key componentKey, hours float64) {
		if hours <= 0 {
			return
		}
		if _, ok := required[key]; !ok {
			order = append(order, key)
		}
		required[key] += hours
	}

	electives := lo.GroupBy(report.Electives, func(elective ChosenElective) string { return elective.Department })
	for _, department := range modelInput.Departments {
		for _, half := range model.Halves {
			for _, course := range department.Courses {
				if course.Elective || !course.Membership.In(half) {
					continue
				}
				for _, sessionType := range sessionTypes {
					add(componentKey{department.Name, half, course.Code, sessionType}, course.Credits.Hours(sessionType))
				}
			}
		}

		for _, elective := range electives[department.Name] {
			representative, ok := lo.Find(department.Courses, func(course model.Course) bool {
				return course.Elective && course.Basket == elective.Basket && course.Code == elective.Representative
			})
			if !ok {
				continue
			}
			for _, sessionType := range sessionTypes {
				add(componentKey{department.Name, elective.Half, elective.Placeholder, sessionType}, representative.Credits.Hours(sessionType))
			}
		}
	}

	placed := make(map[componentKey]float64)
	for _, session := range report.Sessions {
		placed[componentKey{session.Department, session.Half, session.Code, session.SessionType}] += session.Hours
	}
	missing := make(map[componentKey]float64)
	for _, deficit := range report.Deficits {
		missing[componentKey{deficit.Department, deficit.Half, deficit.Code, deficit.SessionType}] += deficit.RemainingHours
	}

	violations := make([]Violation, 0)
	for _, key := range order {
		requirement := required[key]
		switch {
		case placed[key] > requirement+epsilon:
			violations = append(violations, Violation{
				Kind:       RequirementMismatch,
				Department: key.department,
				Half:       key.half,
				Detail:     fmt.Sprintf("%v %v credited %v of %v hours", key.code, key.sessionType, placed[key], requirement),
			})
		case placed[key]+missing[key]+epsilon < requirement:
			violations = append(violations, Violation{
				Kind:       RequirementMismatch,
				Department: key.department,
				Half:       key.half,
				Detail:     fmt.Sprintf("%v %v credited %v and owes %v of %v hours", key.code, key.sessionType, placed[key], missing[key], requirement),
			})
		}
	}
	return violations
}
