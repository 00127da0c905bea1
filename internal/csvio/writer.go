package csvio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/limaJavier/campus-timetabling/pkg/coordinator"
	"github.com/limaJavier/campus-timetabling/pkg/engine"
	"github.com/samber/lo"
)

const (
	EntriesFile       = "timetable_entries.csv"
	SessionsFile      = "sessions.csv"
	DeficitsFile      = "deficits.csv"
	MalformedFile     = "malformed_credits.csv"
	ElectivesFile     = "electives.csv"
	CourseRoomsFile   = "course_rooms.csv"
	ElectiveRoomsFile = "elective_rooms.csv"
	TemplatesFile     = "templates.csv"
	RoomTemplatesFile = "elective_room_templates.csv"
	ReservationsFile  = "combined_room_reservations.csv"
	ViolationsFile    = "violations.csv"
)

// TemplateRow flattens one placement of an elective or combined slot template
type TemplateRow struct {
	Kind  string  `csv:"kind"`
	Key   string  `csv:"key"`
	Owner string  `csv:"owner"`
	Day   string  `csv:"day"`
	Slots string  `csv:"slots"`
	Room  string  `csv:"room"`
	Hours float64 `csv:"hours"`
}

// ElectiveRoomTemplateRow is one saved room of a basket alternative
type ElectiveRoomTemplateRow struct {
	Key  string `csv:"key"`
	Room string `csv:"room"`
}

// WriteRows writes rows to path, header included, replacing any existing file
func WriteRows[T any](path string, rows []T) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %v: %w", path, err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("cannot write %v: %w", path, err)
	}
	return nil
}

// WriteReport exports every log of a run into dir and returns the written paths
func WriteReport(dir string, report engine.Report, violations []engine.Violation) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create output directory %v: %w", dir, err)
	}

	written := make([]string, 0)
	write := func(name string, export func(path string) error) error {
		path := filepath.Join(dir, name)
		if err := export(path); err != nil {
			return err
		}
		written = append(written, path)
		return nil
	}

	exports := []lo.Tuple2[string, func(string) error]{
		lo.T2(EntriesFile, func(path string) error { return WriteRows(path, report.Entries) }),
		lo.T2(SessionsFile, func(path string) error { return WriteRows(path, report.Sessions) }),
		lo.T2(DeficitsFile, func(path string) error { return WriteRows(path, report.Deficits) }),
		lo.T2(MalformedFile, func(path string) error { return WriteRows(path, report.Malformed) }),
		lo.T2(ElectivesFile, func(path string) error { return WriteRows(path, report.Electives) }),
		lo.T2(CourseRoomsFile, func(path string) error { return WriteRows(path, report.CourseRooms) }),
		lo.T2(ElectiveRoomsFile, func(path string) error { return WriteRows(path, report.ElectiveRooms) }),
		lo.T2(TemplatesFile, func(path string) error { return WriteRows(path, TemplateRows(report)) }),
		lo.T2(ReservationsFile, func(path string) error { return WriteRows(path, report.CombinedRoomReservations) }),
		lo.T2(ViolationsFile, func(path string) error { return WriteRows(path, violations) }),
		lo.T2(RoomTemplatesFile, func(path string) error {
			return WriteRows(path, lo.Map(report.ElectiveRoomTemplates, func(entry lo.Entry[coordinator.ElectiveRoomKey, string], _ int) ElectiveRoomTemplateRow {
				return ElectiveRoomTemplateRow{Key: entry.Key.String(), Room: entry.Value}
			}))
		}),
	}
	for _, export := range exports {
		if err := write(export.A, export.B); err != nil {
			return written, err
		}
	}
	return written, nil
}

// TemplateRows lists elective templates first, then combined ones, each in creation order
func TemplateRows(report engine.Report) []TemplateRow {
	rows := make([]TemplateRow, 0)
	flatten := func(kind, key, owner string, placements []coordinator.Placement) {
		for _, placement := range placements {
			rows = append(rows, TemplateRow{
				Kind:  kind,
				Key:   key,
				Owner: owner,
				Day:   placement.Day,
				Slots: strings.Join(lo.Map(placement.Slots, func(slot int, _ int) string { return fmt.Sprint(slot) }), " "),
				Room:  placement.Room,
				Hours: placement.Hours,
			})
		}
	}
	for _, record := range report.ElectiveTemplates {
		flatten("elective", record.Key.String(), record.Owner, record.Placements)
	}
	for _, record := range report.CombinedTemplates {
		flatten("combined", record.Key.String(), record.Owner, record.Placements)
	}
	return rows
}
