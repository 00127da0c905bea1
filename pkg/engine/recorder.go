package engine

import (
	"time"

	"github.com/limaJavier/campus-timetabling/pkg/model"
)

// Recorder observes allocation outcomes
type Recorder interface {
	SessionPlaced(department string, sessionType model.SessionType, hours float64)
	DeficitRecorded(department string, sessionType model.SessionType, hours float64)
	ReplayFailed(department string, sessionType model.SessionType)
	PassCompleted(department string, half model.Half, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) SessionPlaced(string, model.SessionType, float64)   {}
func (nopRecorder) DeficitRecorded(string, model.SessionType, float64) {}
func (nopRecorder) ReplayFailed(string, model.SessionType)             {}
func (nopRecorder) PassCompleted(string, model.Half, time.Duration)    {}
