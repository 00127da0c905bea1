package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/limaJavier/campus-timetabling/pkg/model"
)

// DepartmentFile names the course table of one department
type DepartmentFile struct {
	Name        string
	CoursesFile string
}

func init() {
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		reader := csv.NewReader(in)
		reader.LazyQuotes = true
		reader.TrimLeadingSpace = true
		reader.FieldsPerRecord = -1
		return reader
	})
}

func LoadSlots(path string) ([]model.RawSlot, error) {
	return load[model.RawSlot](path)
}

func LoadRooms(path string) ([]model.RawRoom, error) {
	return load[model.RawRoom](path)
}

func LoadCourses(path string) ([]model.RawCourse, error) {
	return load[model.RawCourse](path)
}

// LoadInput reads every table of a run. Departments keep the given order
func LoadInput(slotsFile, roomsFile string, departments []DepartmentFile) (model.RawModelInput, error) {
	slots, err := LoadSlots(slotsFile)
	if err != nil {
		return model.RawModelInput{}, err
	}
	rooms, err := LoadRooms(roomsFile)
	if err != nil {
		return model.RawModelInput{}, err
	}

	input := model.RawModelInput{
		Slots:       slots,
		Rooms:       rooms,
		Departments: make([]model.RawDepartment, 0, len(departments)),
	}
	for _, department := range departments {
		courses, err := LoadCourses(department.CoursesFile)
		if err != nil {
			return model.RawModelInput{}, fmt.Errorf("department %v: %w", department.Name, err)
		}
		input.Departments = append(input.Departments, model.RawDepartment{Name: department.Name, Courses: courses})
	}
	return input, nil
}

func load[T any](path string) ([]T, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %v: %w", path, err)
	}
	defer file.Close()

	rows := make([]T, 0)
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("cannot parse %v: %w", path, err)
	}
	return rows, nil
}
