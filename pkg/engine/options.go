package engine

import (
	"math/rand"

	"go.uber.org/zap"
)

const (
	DefaultMaxAttempts = 2000
	DefaultBreakLength = 1
)

// Shuffler is the order source of every randomized choice (day order, room tie-break). *rand.Rand satisfies it
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type Options struct {
	Seed        int64
	MaxAttempts int
	// BreakLength is the count of free slots marked as break after a session. Zero means
	// DefaultBreakLength and a negative value disables breaks
	BreakLength int
	Logger      *zap.Logger
	Recorder    Recorder
	// Shuffler overrides the seeded source; mostly useful in tests
	Shuffler Shuffler
}

func (options Options) withDefaults() Options {
	if options.MaxAttempts <= 0 {
		options.MaxAttempts = DefaultMaxAttempts
	}
	if options.BreakLength == 0 {
		options.BreakLength = DefaultBreakLength
	} else if options.BreakLength < 0 {
		options.BreakLength = 0
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	if options.Recorder == nil {
		options.Recorder = nopRecorder{}
	}
	if options.Shuffler == nil {
		options.Shuffler = rand.New(rand.NewSource(options.Seed))
	}
	return options
}
