package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/limaJavier/campus-timetabling/pkg/coordinator"
	"github.com/limaJavier/campus-timetabling/pkg/model"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type greedyTimetabler struct {
	options Options
}

func NewGreedyTimetabler(options Options) Timetabler {
	return &greedyTimetabler{options: options}
}

// Build runs every department pass sequentially against one shared Coordinator. Departments are
// scheduled in input order; each department runs its first half, then its second half, then assigns
// elective rooms for both
func (timetabler *greedyTimetabler) Build(modelInput model.ModelInput) (Report, error) {
	if modelInput.Slots == nil || modelInput.Slots.Len() == 0 {
		return Report{}, errors.New("model input has no time slots")
	} else if len(modelInput.Days) == 0 {
		return Report{}, errors.New("model input has no days")
	}

	options := timetabler.options.withDefaults()
	logger := options.Logger

	shared := coordinator.New()
	shared.BuildCombinedStrength(modelInput.Departments)

	report := Report{
		RunID:     uuid.NewString(),
		Seed:      options.Seed,
		Malformed: modelInput.Malformed,
	}
	for _, malformed := range modelInput.Malformed {
		logger.Warn("credit string zeroed",
			zap.String("department", malformed.Department),
			zap.String("course", malformed.Code),
			zap.String("credits", malformed.Credits),
		)
	}

	for _, department := range modelInput.Departments {
		passes := make([]*Pass, 0, len(model.Halves))
		for _, half := range model.Halves {
			start := time.Now()
			pass := NewPass(department, half, modelInput, shared, options)
			pass.Run()
			passes = append(passes, pass)

			report.Entries = append(report.Entries, pass.entries...)
			report.Sessions = append(report.Sessions, pass.sessions...)
			report.Deficits = append(report.Deficits, pass.deficits...)
			report.Electives = append(report.Electives, lo.Map(pass.electives, func(elective chosenElective, _ int) ChosenElective {
				return ChosenElective{
					Department:     department.Name,
					Half:           half,
					Basket:         elective.basket,
					Placeholder:    elective.placeholder.Code,
					Representative: elective.representative.Code,
					Title:          elective.representative.Title,
					Alternatives:   len(elective.alternatives),
				}
			})...)
			report.CourseRooms = append(report.CourseRooms, lo.Map(pass.roomOrder, func(code string, _ int) CourseRoom {
				return CourseRoom{Department: department.Name, Half: half, Code: code, Room: pass.courseRooms[code]}
			})...)

			elapsed := time.Since(start)
			options.Recorder.PassCompleted(department.Name, half, elapsed)
			logger.Info("pass completed",
				zap.String("department", department.Name),
				zap.String("half", string(half)),
				zap.Int("entries", len(pass.entries)),
				zap.Int("deficits", len(pass.deficits)),
				zap.Duration("elapsed", elapsed),
			)
		}

		for _, pass := range passes {
			assignments, err := pass.AssignElectiveRooms()
			if err != nil {
				return Report{}, fmt.Errorf("department %v: %w", department.Name, err)
			}
			report.ElectiveRooms = append(report.ElectiveRooms, assignments...)
		}
	}

	report.ElectiveTemplates = shared.ElectiveTemplates()
	report.CombinedTemplates = shared.CombinedTemplates()
	report.ElectiveRoomTemplates = shared.ElectiveRooms()
	report.CombinedRoomReservations = shared.CombinedRoomReservations()

	logger.Info("run completed",
		zap.String("run_id", report.RunID),
		zap.Int64("seed", report.Seed),
		zap.Int("entries", len(report.Entries)),
		zap.Int("deficits", len(report.Deficits)),
		zap.Float64("deficit_hours", report.DeficitHours()),
	)
	return report, nil
}

func (timetabler *greedyTimetabler) Verify(report Report, modelInput model.ModelInput) []Violation {
	return Verify(report, modelInput)
}
