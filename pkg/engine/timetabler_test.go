package engine

import (
	"testing"

	"github.com/limaJavier/campus-timetabling/pkg/model"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cellsOf(entries []model.ScheduledEntry, department, code string) []string {
	return lo.FilterMap(entries, func(entry model.ScheduledEntry, _ int) (string, bool) {
		return entry.Day + " " + entry.Slot + " " + entry.Room, entry.Department == department && entry.Code == code
	})
}

func TestSingleCourseIsFullyPlaced(t *testing.T) {
	//** Arrange
	input := buildInput(t, campusSlots(), []model.RawRoom{room("C101", 60), room("C102", 60)},
		singleDepartment(course("CS101", "Dr. A", "3-1-0-0-4", "1")),
	)
	timetabler := NewGreedyTimetabler(Options{Seed: 42})

	//** Act
	report, err := timetabler.Build(input)

	//** Assert
	require.NoError(t, err)
	assert.Empty(t, report.Deficits)

	lectures := lo.Filter(report.Sessions, func(session Session, _ int) bool { return session.SessionType == model.Lecture })
	tutorials := lo.Filter(report.Sessions, func(session Session, _ int) bool { return session.SessionType == model.Tutorial })
	assert.Len(t, lectures, 2)
	assert.Len(t, tutorials, 1)
	for _, lecture := range lectures {
		assert.Equal(t, 1.5, lecture.Hours)
		assert.Len(t, lecture.Slots, 3)
	}
	assert.Equal(t, 1.0, tutorials[0].Hours)

	days := lo.Uniq(lo.Map(report.Sessions, func(session Session, _ int) string { return session.Day }))
	assert.Len(t, days, 3)
	assert.True(t, lo.EveryBy(report.Sessions, func(session Session) bool { return session.Half == model.FirstHalf }))
	assert.Empty(t, timetabler.Verify(report, input))
}

func TestCombinedCourseIsAlignedAndSized(t *testing.T) {
	//** Arrange
	input := buildInput(t, campusSlots(),
		[]model.RawRoom{room("C004", 30), room("C101", 45), room("C102", 100)},
		model.RawDepartment{Name: "DSAI-3", Courses: []model.RawCourse{combinedCourse("MA201", "Dr. M", "3-1-0-0-4", "1", 40)}},
		model.RawDepartment{Name: "ECE-3", Courses: []model.RawCourse{combinedCourse("MA201", "Dr. M", "3-1-0-0-4", "1", 50)}},
	)

	//** Act
	report, err := NewGreedyTimetabler(Options{Seed: 3}).Build(input)

	//** Assert
	require.NoError(t, err)
	assert.Empty(t, report.Deficits)

	dsai, ece := cellsOf(report.Entries, "DSAI-3", "MA201"), cellsOf(report.Entries, "ECE-3", "MA201")
	assert.NotEmpty(t, dsai)
	assert.Equal(t, dsai, ece)
	assert.True(t, lo.EveryBy(report.Entries, func(entry model.ScheduledEntry) bool { return entry.Room == "C102" }))
	assert.Len(t, report.CombinedTemplates, 2)
	assert.Empty(t, Verify(report, input))
}

func TestElectiveBasketIsAligned(t *testing.T) {
	//** Arrange
	basket := func() []model.RawCourse {
		return []model.RawCourse{
			electiveCourse("CS512", "Compilers", "Dr. C", "3-0-0-0-3", "1", 1),
			electiveCourse("CS510", "Robotics", "Dr. A", "3-0-0-0-3", "1", 1),
			electiveCourse("CS511", "Graphics", "Dr. B", "3-0-0-0-3", "1", 1),
		}
	}
	rooms := []model.RawRoom{room("C101", 60), room("C102", 60), room("C103", 60), room("C104", 60), room("C105", 60)}
	input := buildInput(t, campusSlots(), rooms,
		model.RawDepartment{Name: "CSE-5-A", Courses: basket()},
		model.RawDepartment{Name: "CSE-5-B", Courses: basket()},
	)

	//** Act
	report, err := NewGreedyTimetabler(Options{Seed: 11}).Build(input)

	//** Assert
	require.NoError(t, err)
	assert.Empty(t, report.Deficits)

	codes := lo.Uniq(lo.Map(report.Entries, func(entry model.ScheduledEntry, _ int) string { return entry.Code }))
	assert.Equal(t, []string{"Elective_1"}, codes)
	first, second := cellsOf(report.Entries, "CSE-5-A", "Elective_1"), cellsOf(report.Entries, "CSE-5-B", "Elective_1")
	assert.NotEmpty(t, first)
	assert.Equal(t, first, second)

	require.Len(t, report.Electives, 2)
	assert.True(t, lo.EveryBy(report.Electives, func(elective ChosenElective) bool {
		return elective.Representative == "CS510" && elective.Alternatives == 3
	}))

	//** Every alternative gets its own room and keeps it across departments
	require.Len(t, report.ElectiveRooms, 6)
	byDepartment := lo.GroupBy(report.ElectiveRooms, func(room ElectiveRoom) string { return room.Department })
	for _, assignments := range byDepartment {
		rooms := lo.Map(assignments, func(room ElectiveRoom, _ int) string { return room.Rooms })
		assert.NotContains(t, rooms, "")
		assert.Len(t, lo.Uniq(rooms), 3)
	}
	roomOf := func(department, title string) string {
		assignment, _ := lo.Find(report.ElectiveRooms, func(room ElectiveRoom) bool {
			return room.Department == department && room.Title == title
		})
		return assignment.Rooms
	}
	for _, title := range []string{"Compilers", "Robotics", "Graphics"} {
		assert.Equal(t, roomOf("CSE-5-A", title), roomOf("CSE-5-B", title))
	}
	assert.Equal(t, "Elective_1||Robotics", lo.Must(lo.Find(report.ElectiveRooms, func(room ElectiveRoom) bool {
		return room.Code == "CS510"
	})).Key)
	assert.Empty(t, Verify(report, input))
}

func TestMissingRoomCategoryBecomesDeficit(t *testing.T) {
	//** Arrange
	input := buildInput(t, campusSlots(), []model.RawRoom{room("C101", 60)},
		singleDepartment(course("CS201", "Dr. A", "3-0-2-0-4", "1")),
	)

	//** Act
	report, err := NewGreedyTimetabler(Options{Seed: 1}).Build(input)

	//** Assert
	require.NoError(t, err)
	require.Len(t, report.Deficits, 1)
	deficit := report.Deficits[0]
	assert.Equal(t, model.Practical, deficit.SessionType)
	assert.Equal(t, 2.0, deficit.RemainingHours)
	assert.Equal(t, "CS201", deficit.Code)
	assert.False(t, lo.SomeBy(report.Entries, func(entry model.ScheduledEntry) bool { return entry.SessionType == model.Practical }))
	assert.Equal(t, 2.0, report.DeficitHours())
	assert.Empty(t, Verify(report, input))
}

func TestBothHalvesMembership(t *testing.T) {
	//** Arrange
	input := buildInput(t, campusSlots(), []model.RawRoom{room("C101", 60)},
		singleDepartment(
			course("CS101", "Dr. A", "1-0-0-0-1", "0"),
			course("CS102", "Dr. B", "1-0-0-0-1", "2"),
		),
	)

	//** Act
	report, err := NewGreedyTimetabler(Options{Seed: 5}).Build(input)

	//** Assert
	require.NoError(t, err)
	halvesOf := func(code string) []model.Half {
		return lo.Uniq(lo.FilterMap(report.Sessions, func(session Session, _ int) (model.Half, bool) {
			return session.Half, session.Code == code
		}))
	}
	assert.ElementsMatch(t, model.Halves, halvesOf("CS101"))
	assert.Equal(t, []model.Half{model.SecondHalf}, halvesOf("CS102"))
}

func TestCampusRun(t *testing.T) {
	input := campusInput(t)

	t.Run("Same seed yields identical logs", func(t *testing.T) {
		//** Act
		first, err := NewGreedyTimetabler(Options{Seed: 7}).Build(input)
		require.NoError(t, err)
		second, err := NewGreedyTimetabler(Options{Seed: 7}).Build(input)
		require.NoError(t, err)

		//** Assert
		assert.Equal(t, first.Entries, second.Entries)
		assert.Equal(t, first.Deficits, second.Deficits)
		assert.Equal(t, first.ElectiveRooms, second.ElectiveRooms)
		assert.NotEqual(t, first.RunID, second.RunID)
	})

	t.Run("Invariants hold", func(t *testing.T) {
		//** Act
		report, err := NewGreedyTimetabler(Options{Seed: 13}).Build(input)

		//** Assert
		require.NoError(t, err)
		assert.NotEmpty(t, report.Entries)
		assert.Empty(t, Verify(report, input))

		for _, entry := range report.Entries {
			if entry.Room == "C004" {
				assert.True(t, entry.Combined, entry.Code)
			}
		}
		assert.NotEmpty(t, report.CombinedRoomReservations)
		assert.Len(t, report.ElectiveTemplates, 8)
	})

	t.Run("Combined course of another cluster is independent", func(t *testing.T) {
		//** Act
		report, err := NewGreedyTimetabler(Options{Seed: 21}).Build(input)

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, cellsOf(report.Entries, "CSE-3-A", "MA301"), cellsOf(report.Entries, "CSE-3-B", "MA301"))
		assert.Equal(t, cellsOf(report.Entries, "DSAI-3", "MA302"), cellsOf(report.Entries, "ECE-3", "MA302"))
	})
}

func TestBuildRejectsEmptyInput(t *testing.T) {
	_, err := NewGreedyTimetabler(Options{}).Build(model.ModelInput{})
	assert.Error(t, err)
}
