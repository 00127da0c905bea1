package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/limaJavier/campus-timetabling/pkg/model"
)

// Recorder counts allocation outcomes per department and session type
type Recorder struct {
	registry       *prometheus.Registry
	sessions       *prometheus.CounterVec
	placedHours    *prometheus.CounterVec
	deficits       *prometheus.CounterVec
	deficitHours   *prometheus.CounterVec
	replayFailures *prometheus.CounterVec
	passDuration   *prometheus.HistogramVec
}

func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	sessions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_sessions_total",
		Help: "Committed session chunks",
	}, []string{"department", "type"})

	placedHours := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_placed_hours_total",
		Help: "Hours credited by committed sessions",
	}, []string{"department", "type"})

	deficits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_deficits_total",
		Help: "Requirements left unmet",
	}, []string{"department", "type"})

	deficitHours := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_deficit_hours_total",
		Help: "Hours left unmet",
	}, []string{"department", "type"})

	replayFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_template_replay_failures_total",
		Help: "Template placements that could not be replayed",
	}, []string{"department", "type"})

	passDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "timetable_pass_duration_seconds",
		Help:    "Duration of a department pass",
		Buckets: prometheus.DefBuckets,
	}, []string{"half"})

	registry.MustRegister(sessions, placedHours, deficits, deficitHours, replayFailures, passDuration)

	return &Recorder{
		registry:       registry,
		sessions:       sessions,
		placedHours:    placedHours,
		deficits:       deficits,
		deficitHours:   deficitHours,
		replayFailures: replayFailures,
		passDuration:   passDuration,
	}
}

func (recorder *Recorder) Registry() *prometheus.Registry {
	return recorder.registry
}

func (recorder *Recorder) SessionPlaced(department string, sessionType model.SessionType, hours float64) {
	recorder.sessions.WithLabelValues(department, sessionType.String()).Inc()
	recorder.placedHours.WithLabelValues(department, sessionType.String()).Add(hours)
}

func (recorder *Recorder) DeficitRecorded(department string, sessionType model.SessionType, hours float64) {
	recorder.deficits.WithLabelValues(department, sessionType.String()).Inc()
	recorder.deficitHours.WithLabelValues(department, sessionType.String()).Add(hours)
}

func (recorder *Recorder) ReplayFailed(department string, sessionType model.SessionType) {
	recorder.replayFailures.WithLabelValues(department, sessionType.String()).Inc()
}

func (recorder *Recorder) PassCompleted(_ string, half model.Half, elapsed time.Duration) {
	recorder.passDuration.WithLabelValues(string(half)).Observe(elapsed.Seconds())
}

// WriteTextfile dumps every collected metric in the text exposition format, for node exporter style collection
func (recorder *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, recorder.registry); err != nil {
		return fmt.Errorf("cannot write metrics to %v: %w", path, err)
	}
	return nil
}
