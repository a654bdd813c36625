// Package session runs the per-connection event loop between the audio
// pipeline and the tool layer. All session state is owned by the loop
// goroutine; workers report back over channels.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/vango-go/assistant-core/pkg/assistant/metrics"
	"github.com/vango-go/assistant-core/pkg/assistant/session/protocol"
	"github.com/vango-go/assistant-core/pkg/core"
	"github.com/vango-go/assistant-core/pkg/core/types"
)

const (
	greetingInstructions = "Greet the user warmly and offer to help with their email and calendar."
	resumeInstructions   = "Continue speaking from where you were interrupted. Do not start over."
)

// Conn is the subset of *websocket.Conn the controller needs. Tests
// substitute an in-memory fake.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Dispatcher executes one tool invocation. Satisfied by *tools.Dispatcher.
type Dispatcher interface {
	Execute(ctx context.Context, inv types.ToolInvocation) types.ToolResult
}

type Config struct {
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	MaxSessionDuration time.Duration
}

type Dependencies struct {
	Conn       Conn
	Logger     *slog.Logger
	Dispatcher Dispatcher
	Usage      *metrics.UsageCollector
	Config     Config
	SessionID  string
	Now        func() time.Time
}

type Controller struct {
	conn       Conn
	logger     *slog.Logger
	dispatcher Dispatcher
	usage      *metrics.UsageCollector
	cfg        Config
	sessionID  string
	now        func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	// Owned by the Run goroutine. Never touched by workers.
	state        *types.SessionState
	activeCancel context.CancelFunc

	summaryLogged bool
}

type inboundFrame struct {
	data []byte
	err  error
}

type toolOutcome struct {
	invocationID string
	turnID       string
	toolName     string
	result       types.ToolResult
}

func New(deps Dependencies) (*Controller, error) {
	if deps.Conn == nil {
		return nil, fmt.Errorf("connection is required")
	}
	if deps.Dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Usage == nil {
		deps.Usage = metrics.NewUsageCollector()
	}
	if deps.SessionID == "" {
		deps.SessionID = uuid.NewString()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		conn:       deps.Conn,
		logger:     deps.Logger.With("session_id", deps.SessionID),
		dispatcher: deps.Dispatcher,
		usage:      deps.Usage,
		cfg:        deps.Config,
		sessionID:  deps.SessionID,
		now:        deps.Now,
		ctx:        ctx,
		cancel:     cancel,
		state:      &types.SessionState{Phase: types.PhaseIdle},
	}, nil
}

// Run drives the session until shutdown or a transport failure. The usage
// summary is logged exactly once on the way out.
func (c *Controller) Run() error {
	defer c.cancel()
	defer c.finish("teardown")

	if c.cfg.ReadTimeout > 0 {
		_ = c.conn.SetReadDeadline(c.now().Add(c.cfg.ReadTimeout))
	}

	if err := c.send(protocol.GenerateReply{Type: "generate_reply", Instructions: greetingInstructions}); err != nil {
		return err
	}

	readCh := make(chan inboundFrame, 64)
	go c.readLoop(readCh)

	resultCh := make(chan toolOutcome, 4)

	var sessionDeadline <-chan time.Time
	if c.cfg.MaxSessionDuration > 0 {
		timer := time.NewTimer(c.cfg.MaxSessionDuration)
		defer timer.Stop()
		sessionDeadline = timer.C
	}

	for {
		select {
		case frame, ok := <-readCh:
			if !ok {
				c.close("read channel closed")
				return nil
			}
			if frame.err != nil {
				c.close("transport error")
				if websocket.IsCloseError(frame.err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					return nil
				}
				return core.NewPipelineError(frame.err.Error())
			}
			if c.cfg.ReadTimeout > 0 {
				_ = c.conn.SetReadDeadline(c.now().Add(c.cfg.ReadTimeout))
			}
			if done := c.handleFrame(frame.data, resultCh); done {
				return nil
			}
		case outcome := <-resultCh:
			c.handleToolOutcome(outcome)
		case <-sessionDeadline:
			c.logger.Info("session duration limit reached")
			c.close("max_session_duration")
			return nil
		case <-c.ctx.Done():
			c.close("canceled")
			return c.ctx.Err()
		}
	}
}

// Close aborts the session from outside the loop, e.g. on SIGTERM.
func (c *Controller) Close() {
	c.cancel()
}

func (c *Controller) readLoop(out chan<- inboundFrame) {
	defer close(out)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case out <- inboundFrame{err: err}:
			case <-c.ctx.Done():
			}
			return
		}
		select {
		case out <- inboundFrame{data: data}:
		case <-c.ctx.Done():
			return
		}
	}
}

// handleFrame decodes and applies one inbound frame. Returns true when the
// session should end.
func (c *Controller) handleFrame(data []byte, resultCh chan<- toolOutcome) bool {
	msg, err := protocol.DecodePipelineMessage(data)
	if err != nil {
		c.logger.Warn("dropping undecodable frame", "error", err)
		return false
	}
	return c.handleEvent(msg, resultCh)
}

func (c *Controller) handleEvent(msg any, resultCh chan<- toolOutcome) bool {
	switch event := msg.(type) {
	case protocol.TurnStart:
		c.state.Phase = types.PhaseListening
	case protocol.TurnEnd:
		// Phase advances on agent_speech_started or tool dispatch.
	case protocol.AgentSpeechStarted:
		c.state.Phase = types.PhaseSpeaking
	case protocol.AgentSpeechFinished:
		if c.state.Phase == types.PhaseSpeaking {
			c.state.Phase = types.PhaseIdle
		}
	case protocol.FalseInterruption:
		c.handleFalseInterruption(event)
	case protocol.ToolInvocationRequested:
		c.startInvocation(event, resultCh)
	case protocol.MetricsCollected:
		c.state.Samples = append(c.state.Samples, types.MetricSample{
			Kind:        event.Kind,
			Value:       event.Value,
			TimestampMS: event.TimestampMS,
		})
	case protocol.Shutdown:
		reason := event.Reason
		if reason == "" {
			reason = "pipeline shutdown"
		}
		c.close(reason)
		return true
	}
	return false
}

// handleFalseInterruption asks the pipeline to pick the utterance back up.
// Outside of active speech there is nothing to resume, so the signal is
// dropped.
func (c *Controller) handleFalseInterruption(event protocol.FalseInterruption) {
	if c.state.Phase != types.PhaseSpeaking {
		c.logger.Debug("ignoring false interruption outside speech", "phase", string(c.state.Phase))
		return
	}
	instructions := event.ExtraInstructions
	if instructions == "" {
		instructions = resumeInstructions
	}
	if err := c.send(protocol.ResumeSpeech{Type: "resume_speech", Instructions: instructions}); err != nil {
		c.logger.Warn("resume_speech send failed", "error", err)
	}
}

// startInvocation supersedes any in-flight tool and runs the new one in a
// worker. Results come back over resultCh tagged with the invocation ID so
// the loop can discard anything stale.
func (c *Controller) startInvocation(event protocol.ToolInvocationRequested, resultCh chan<- toolOutcome) {
	if c.state.Closed() {
		return
	}
	inv := types.ToolInvocation{
		ID:        event.ID,
		TurnID:    event.TurnID,
		Name:      event.ToolName,
		Arguments: event.Arguments,
		Confirmed: event.Confirmed,
	}
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}

	if c.activeCancel != nil {
		c.activeCancel()
		c.logger.Info("superseding active tool", "tool", c.state.ActiveTool.Name, "invocation_id", c.state.ActiveTool.ID)
	}
	c.state.Supersede(inv)
	c.state.Phase = types.PhaseToolPending

	workerCtx, workerCancel := context.WithCancel(c.ctx)
	c.activeCancel = workerCancel

	go func() {
		defer workerCancel()
		result := c.dispatcher.Execute(workerCtx, inv)
		select {
		case resultCh <- toolOutcome{invocationID: inv.ID, turnID: inv.TurnID, toolName: inv.Name, result: result}:
		case <-c.ctx.Done():
		}
	}()
}

func (c *Controller) handleToolOutcome(outcome toolOutcome) {
	if c.state.Closed() {
		return
	}
	if !c.state.ResolveTool(outcome.invocationID) {
		c.logger.Info("discarding stale tool result", "invocation_id", outcome.invocationID, "tool", outcome.toolName)
		return
	}
	c.activeCancel = nil
	c.state.Phase = types.PhaseListening

	frame := protocol.ToolResultAvailable{
		Type:         "tool_result",
		TurnID:       outcome.turnID,
		ToolName:     outcome.toolName,
		Status:       string(outcome.result.Status),
		ErrorMessage: outcome.result.ErrorMessage,
	}
	switch payload := outcome.result.Payload.(type) {
	case nil:
	case json.RawMessage:
		frame.Payload = payload
	default:
		encoded, err := json.Marshal(payload)
		if err != nil {
			c.logger.Warn("tool payload encode failed", "tool", outcome.toolName, "error", err)
		} else {
			frame.Payload = encoded
		}
	}
	if err := c.send(frame); err != nil {
		c.logger.Warn("tool_result send failed", "error", err)
	}
}

func (c *Controller) close(reason string) {
	if c.state.Closed() {
		return
	}
	if c.activeCancel != nil {
		c.activeCancel()
		c.activeCancel = nil
	}
	c.state.Phase = types.PhaseClosed
	c.state.ActiveTool = nil
	c.finish(reason)
}

// finish hands the session's samples to the collector and logs the summary.
// Safe to call more than once; only the first call reports.
func (c *Controller) finish(reason string) {
	if c.summaryLogged {
		return
	}
	c.summaryLogged = true
	c.usage.Collect(c.state.Samples)
	c.state.Samples = nil
	summary := c.usage.Summary()
	c.logger.Info("session finished",
		"reason", reason,
		"sample_count", summary.SampleCount,
		"usage", summary.String(),
	)
}

func (c *Controller) send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode outbound frame: %w", err)
	}
	if c.cfg.WriteTimeout > 0 {
		_ = c.conn.SetWriteDeadline(c.now().Add(c.cfg.WriteTimeout))
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}
