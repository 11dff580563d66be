package runner

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sarchlab/leorelay/config"
	"github.com/sarchlab/leorelay/relay"
	"github.com/sarchlab/leorelay/sim/id"
	"github.com/sarchlab/leorelay/sim/timing"
	"github.com/sarchlab/leorelay/topology"
	"github.com/sarchlab/leorelay/tracing"
)

// A Controller executes runs. Each run gets its own topology, engine and
// stages, so a Controller can serve several goroutines at once.
type Controller struct {
	scenario      config.Scenario
	logger        zerolog.Logger
	logEvents     bool
	traceWriter   tracing.TraceWriter
	idGenerator   id.IDGenerator
	collectHopLog bool
}

// Scenario returns the constants shared by every run.
func (c *Controller) Scenario() config.Scenario {
	return c.scenario
}

// Run executes one run with a fresh id.
func (c *Controller) Run(ctx context.Context, p Params) (RunRecord, error) {
	return c.RunWithID(ctx, c.idGenerator.Generate(), p)
}

// RunWithID executes one run. A dropped payload is not an error; it is
// reported in the record. Errors mean the run could not be completed.
func (c *Controller) RunWithID(
	ctx context.Context,
	runID string,
	p Params,
) (RunRecord, error) {
	if err := p.Validate(); err != nil {
		return RunRecord{}, err
	}

	if err := ctx.Err(); err != nil {
		return RunRecord{}, err
	}

	logger := c.logger.With().Str("run", runID).Logger()

	topo := c.buildTopology(p)
	engine := timing.NewSerialEngine()
	if c.logEvents {
		engine.AcceptHook(timing.NewEventLogger(logger))
	}

	rc := relay.NewRunContext(engine, topo, logger)
	source := relay.Wire(rc, p.PacketSizeBytes, p.Ratio)
	if source == nil {
		return RunRecord{}, fmt.Errorf("run %s: source %d has no position",
			runID, topo.SourceID())
	}

	hopTracer := c.attachTracers(rc, engine, runID)

	if _, err := source.ScheduleSend(c.scenario.SendTime()); err != nil {
		return RunRecord{}, fmt.Errorf("run %s: %w", runID, err)
	}

	if err := engine.RunUntil(c.scenario.StopTime); err != nil {
		return RunRecord{}, fmt.Errorf("run %s: %w", runID, err)
	}

	p.Path = topo.Path()
	record := RunRecord{
		ID:      runID,
		Params:  p,
		EndTime: engine.Now(),
		Cutoff:  engine.Pending() > 0,
	}
	computeMetrics(&record, rc.Observations, p.Ratio)

	sent := source.Sent()
	if sent != nil {
		record.State = sent.State
		record.Hops = sent.Hops
	}

	if hopTracer != nil {
		record.HopLog = hopTracer.Hops()
		record.InFlightHops = hopTracer.InFlight()
		if sent != nil {
			record.Steps = hopTracer.Steps(sent.ID)
		}
	}

	c.logOutcome(logger, record)

	return record, nil
}

func (c *Controller) buildTopology(p Params) *topology.Topology {
	return topology.MakeBuilder().
		WithPositions(c.scenario.Vectors()).
		WithRate(c.scenario.DataRate).
		WithSourceID(c.scenario.SourceID).
		WithSinkID(c.scenario.SinkID).
		WithDelayMode(p.DelayMode).
		WithFixedDelay(c.scenario.FixedDelay).
		Build(p.Path)
}

func (c *Controller) attachTracers(
	rc *relay.RunContext,
	engine timing.TimeTeller,
	runID string,
) *tracing.HopTracer {
	var tracers []tracing.Tracer

	var hopTracer *tracing.HopTracer
	if c.collectHopLog {
		hopTracer = tracing.NewHopTracer(engine)
		tracers = append(tracers, hopTracer)
	}

	if c.traceWriter != nil {
		tracers = append(tracers,
			tracing.NewWriterTracer(engine, c.traceWriter, nil).
				WithIDPrefix(runID+"/"))
	}

	for _, s := range rc.Stages() {
		for _, t := range tracers {
			tracing.CollectTrace(s, t)
		}
	}

	return hopTracer
}

func (c *Controller) logOutcome(logger zerolog.Logger, r RunRecord) {
	switch {
	case r.State == relay.StateDropped:
		logger.Warn().
			Int("node", r.DropNode).
			Err(r.DropErr).
			Msg("run finished without delivery")
	case !r.Delivered:
		logger.Warn().
			Float64("stop_time", c.scenario.StopTime).
			Int("hops_in_flight", r.InFlightHops).
			Msg("payload still in flight at stop time")
	default:
		logger.Debug().
			Float64("total_time", r.TotalTime).
			Int("hops", r.Hops).
			Msg("run finished")
	}
}
