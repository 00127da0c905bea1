package model

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

type RawSlot struct {
	Start string `csv:"Start_Time" validate:"required"`
	End   string `csv:"End_Time" validate:"required"`
}

type RawRoom struct {
	Id       string `csv:"Room_ID" validate:"required"`
	Capacity string `csv:"Capacity"`
}

type RawCourse struct {
	Code       string `csv:"Course_Code" validate:"required"`
	Title      string `csv:"Course_Title"`
	Faculty    string `csv:"Faculty"`
	Credits    string `csv:"L-T-P-S-C"`
	Half       string `csv:"Semester_Half"`
	Elective   string `csv:"Elective"`
	Basket     string `csv:"basket"`
	Combined   string `csv:"is_combined"`
	Students   string `csv:"Students"`
}

type RawDepartment struct {
	Name    string `validate:"required"`
	Courses []RawCourse
}

type RawModelInput struct {
	Slots       []RawSlot
	Rooms       []RawRoom
	Departments []RawDepartment
}

// Department is one course table together with its alignment groupings
type Department struct {
	Name          string
	SemesterGroup string
	Cluster       string
	Courses       []Course
}

type ModelInput struct {
	Days        []string
	Slots       *SlotTable
	Rooms       []Room
	Departments []Department
	Malformed   []MalformedRow
}

type InputOptions struct {
	Days           []string
	ExcludedSlots  []string
	Policy         RoomPolicy
	Clusters       [][]string
	LenientCredits bool
}

var (
	DefaultDays          = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
	DefaultExcludedSlots = []string{"07:30-09:00", "13:15-14:00"}
	DefaultClusters      = [][]string{{"CSE"}, {"DSAI", "ECE"}}

	semesterPattern = regexp.MustCompile(`\d+`)
	validate        = validator.New()
)

func ProcessRawInput(rawInput RawModelInput, options InputOptions) (ModelInput, error) {
	if len(options.Days) == 0 {
		options.Days = DefaultDays
	}

	//** Manage slots
	slots := make([]TimeSlot, 0, len(rawInput.Slots))
	for i, rawSlot := range rawInput.Slots {
		if err := validate.Struct(rawSlot); err != nil {
			return ModelInput{}, fmt.Errorf("slot row %d: %w", i+1, err)
		}
		slot, err := NewTimeSlot(rawSlot.Start, rawSlot.End)
		if err != nil {
			return ModelInput{}, fmt.Errorf("slot row %d: %w", i+1, err)
		}
		slots = append(slots, slot)
	}
	slotTable, err := NewSlotTable(slots, options.ExcludedSlots)
	if err != nil {
		return ModelInput{}, err
	}

	//** Manage rooms
	rooms := make([]Room, 0, len(rawInput.Rooms))
	for i, rawRoom := range rawInput.Rooms {
		if err := validate.Struct(rawRoom); err != nil {
			return ModelInput{}, fmt.Errorf("room row %d: %w", i+1, err)
		}
		if lo.ContainsBy(rooms, func(room Room) bool { return strings.EqualFold(room.Id, strings.TrimSpace(rawRoom.Id)) }) {
			return ModelInput{}, fmt.Errorf("room row %d: duplicate room %v", i+1, rawRoom.Id)
		}
		// Rooms outside the naming convention are not schedulable
		if room, ok := ClassifyRoom(rawRoom.Id, parseCount(rawRoom.Capacity), options.Policy); ok {
			rooms = append(rooms, room)
		}
	}

	//** Manage departments
	input := ModelInput{
		Days:  options.Days,
		Slots: slotTable,
		Rooms: rooms,
	}
	var malformedErrs []error
	for _, rawDepartment := range rawInput.Departments {
		if err := validate.Struct(rawDepartment); err != nil {
			return ModelInput{}, fmt.Errorf("department: %w", err)
		}
		department := Department{
			Name:          strings.TrimSpace(rawDepartment.Name),
			SemesterGroup: SemesterGroup(rawDepartment.Name),
			Cluster:       ResolveCluster(rawDepartment.Name, options.Clusters),
			Courses:       make([]Course, 0, len(rawDepartment.Courses)),
		}

		for i, rawCourse := range rawDepartment.Courses {
			if err := validate.Struct(rawCourse); err != nil {
				return ModelInput{}, fmt.Errorf("department %v, course row %d: %w", department.Name, i+1, err)
			}
			course, err := processRawCourse(rawCourse)
			if errors.Is(err, ErrMalformedCredits) {
				if !options.LenientCredits {
					malformedErrs = append(malformedErrs, fmt.Errorf("department %v, course row %d (%v): %w", department.Name, i+1, rawCourse.Code, err))
					continue
				}
				input.Malformed = append(input.Malformed, MalformedRow{
					Department: department.Name,
					Row:        i + 1,
					Code:       course.Code,
					Credits:    rawCourse.Credits,
					Reason:     err.Error(),
				})
			} else if err != nil {
				return ModelInput{}, err
			}
			department.Courses = append(department.Courses, course)
		}
		input.Departments = append(input.Departments, department)
	}

	if len(malformedErrs) > 0 {
		return ModelInput{}, errors.Join(malformedErrs...)
	}
	return input, nil
}

// processRawCourse always returns a usable course; on malformed credits all components are zero
func processRawCourse(rawCourse RawCourse) (Course, error) {
	code := strings.TrimSpace(rawCourse.Code)
	title := strings.TrimSpace(rawCourse.Title)
	if title == "" {
		title = code
	}
	basket := parseCount(rawCourse.Basket)

	course := Course{
		Code:       code,
		Title:      title,
		Faculty:    SplitFaculty(rawCourse.Faculty),
		Membership: ParseMembership(rawCourse.Half),
		Elective:   parseElectiveFlag(rawCourse.Elective) || basket > 0,
		Basket:     basket,
		Combined:   parseTruthy(rawCourse.Combined),
		Students:   parseCount(rawCourse.Students),
	}

	credits, err := ParseCredits(rawCourse.Credits)
	course.Credits = credits
	return course, err
}

// SemesterGroup is the first numeric token of a department name
func SemesterGroup(departmentName string) string {
	if match := semesterPattern.FindString(departmentName); match != "" {
		return match
	}
	return "UNKNOWN"
}

// ResolveCluster maps a department to the group of departments that share combined courses
func ResolveCluster(departmentName string, clusters [][]string) string {
	departmentName = strings.TrimSpace(departmentName)
	prefix, _, _ := strings.Cut(departmentName, "-")
	prefix = strings.ToUpper(strings.TrimSpace(prefix))

	for _, cluster := range clusters {
		members := lo.Map(cluster, func(member string, _ int) string { return strings.ToUpper(strings.TrimSpace(member)) })
		if slices.Contains(members, prefix) {
			slices.Sort(members)
			return strings.Join(members, "+")
		}
	}
	if prefix != "" {
		return prefix
	}
	return strings.ToUpper(departmentName)
}

func parseCount(raw string) int {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || value < 0 {
		return 0
	}
	return int(value)
}

func parseTruthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

func parseElectiveFlag(raw string) bool {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return false
	}
	if value, err := strconv.ParseFloat(raw, 64); err == nil {
		return value > 0
	}
	return raw == "true" || raw == "yes" || raw == "y"
}
