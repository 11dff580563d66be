package runner

import (
	"github.com/rs/zerolog"

	"github.com/sarchlab/leorelay/config"
	"github.com/sarchlab/leorelay/sim/id"
	"github.com/sarchlab/leorelay/tracing"
)

// Builder can be used to build a Controller.
type Builder struct {
	scenario      config.Scenario
	logger        zerolog.Logger
	logEvents     bool
	traceWriter   tracing.TraceWriter
	idGenerator   id.IDGenerator
	collectHopLog bool
}

// MakeBuilder creates a builder with the default scenario and no logging.
func MakeBuilder() Builder {
	return Builder{
		scenario:      config.Default(),
		logger:        zerolog.Nop(),
		collectHopLog: true,
	}
}

// WithScenario sets the scenario constants shared by every run.
func (b Builder) WithScenario(s config.Scenario) Builder {
	b.scenario = s
	return b
}

// WithLogger sets the logger.
func (b Builder) WithLogger(logger zerolog.Logger) Builder {
	b.logger = logger
	return b
}

// WithEventLogging logs every dispatched event at debug level.
func (b Builder) WithEventLogging() Builder {
	b.logEvents = true
	return b
}

// WithTraceWriter writes the tasks of every run to w.
func (b Builder) WithTraceWriter(w tracing.TraceWriter) Builder {
	b.traceWriter = w
	return b
}

// WithIDGenerator sets where run ids come from.
func (b Builder) WithIDGenerator(g id.IDGenerator) Builder {
	b.idGenerator = g
	return b
}

// WithoutHopLog skips collecting the hop log of each run.
func (b Builder) WithoutHopLog() Builder {
	b.collectHopLog = false
	return b
}

func (b Builder) parametersMustBeValid() {
	if err := b.scenario.Validate(); err != nil {
		panic(err)
	}
}

// Build creates the Controller. It panics if the scenario is invalid.
func (b Builder) Build() *Controller {
	b.parametersMustBeValid()

	c := &Controller{
		scenario:      b.scenario,
		logger:        b.logger,
		logEvents:     b.logEvents,
		traceWriter:   b.traceWriter,
		idGenerator:   b.idGenerator,
		collectHopLog: b.collectHopLog,
	}

	if c.idGenerator == nil {
		c.idGenerator = id.NewPrefixedIDGenerator("run-")
	}

	return c
}
