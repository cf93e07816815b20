// Package form ties the video form together: it holds the values, re-runs
// the visibility resolver after every change, gates submission behind the
// ratio step when needed and hands the filtered payload to the task sink.
package form

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/goliatone/go-vgenform/pkg/model"
	"github.com/goliatone/go-vgenform/pkg/render"
	"github.com/goliatone/go-vgenform/pkg/task"
	"github.com/goliatone/go-vgenform/pkg/validation"
	"github.com/goliatone/go-vgenform/pkg/visibility"
)

// Mode is the submission path derived from the resolution.
type Mode int

const (
	// ModeDirect validates and enqueues right away.
	ModeDirect Mode = iota
	// ModeRatioGate runs the crop widget before validating.
	ModeRatioGate
)

func (m Mode) String() string {
	if m == ModeRatioGate {
		return "ratio-gate"
	}
	return "direct"
}

// Resolver computes visibility for a record.
type Resolver interface {
	Resolve(values model.FormValues) visibility.Resolution
}

// Validator checks the values about to be submitted: the visible fields plus
// what the crop step wrote.
type Validator interface {
	Validate(ctx context.Context, values model.FormValues) (validation.Result, error)
}

// Option customises a Controller.
type Option func(*Controller)

// WithResolver replaces the built-in rule table.
func WithResolver(resolver Resolver) Option {
	return func(c *Controller) {
		if resolver != nil {
			c.resolver = resolver
		}
	}
}

// WithValidator sets the schema validator. Without one every record passes.
func WithValidator(validator Validator) Option {
	return func(c *Controller) {
		c.validator = validator
	}
}

// WithSink sets where valid submissions are enqueued.
func WithSink(sink task.Sink) Option {
	return func(c *Controller) {
		c.sink = sink
	}
}

// WithCropWidget sets the widget that runs the ratio step.
func WithCropWidget(widget CropWidget) Option {
	return func(c *Controller) {
		c.crop = widget
	}
}

// WithDisabled sets the initial external disabled flag.
func WithDisabled(disabled bool) Option {
	return func(c *Controller) {
		c.disabled = disabled
	}
}

// WithLogger attaches a logger for submission events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithValues seeds the initial record before any draft is applied.
func WithValues(values model.FormValues) Option {
	return func(c *Controller) {
		c.state = NewState(values)
	}
}

// SubmitResult reports what a submit attempt did. A blocked or invalid submit
// is not an error: Submitted stays false and Errors explains validation
// failures.
type SubmitResult struct {
	Submitted bool
	Task      task.Task
	Payload   render.Payload
	Errors    render.ErrorMapping
}

// Controller owns the form state and the submission flow.
type Controller struct {
	mu         sync.Mutex
	state      *State
	resolver   Resolver
	validator  Validator
	sink       task.Sink
	crop       CropWidget
	disabled   bool
	mounted    bool
	resolution visibility.Resolution
	logger     *slog.Logger
}

// New builds a controller and computes the initial resolution.
func New(options ...Option) *Controller {
	c := &Controller{
		state:    NewState(model.FormValues{}),
		resolver: visibility.New(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	c.recomputeLocked()
	return c
}

// Mount seeds the form from store, applying every draft key through Set
// semantics, then recomputes once. Unknown keys are skipped.
func (c *Controller) Mount(ctx context.Context, store DraftStore) error {
	c.mu.Lock()
	if c.mounted {
		c.mu.Unlock()
		return ErrMounted
	}
	c.mounted = true
	c.mu.Unlock()

	if store == nil {
		return nil
	}
	draft, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("form: load draft: %w", err)
	}

	applied := 0
	_ = c.update(func(state *State) error {
		for _, name := range model.AllFields {
			raw, ok := draft[string(name)]
			if !ok {
				continue
			}
			value, err := draftValue(name, raw)
			if err == nil {
				err = state.Set(name, value)
			}
			if err != nil {
				c.logger.WarnContext(ctx, "draft value skipped", "field", string(name), "error", err)
				continue
			}
			applied++
		}
		return nil
	})
	for key := range draft {
		if _, ok := model.ParseFieldName(key); !ok {
			c.logger.DebugContext(ctx, "draft key ignored", "key", key)
		}
	}

	c.logger.DebugContext(ctx, "draft applied", "fields", applied)
	return nil
}

// Set writes one field and re-runs the resolver.
func (c *Controller) Set(name model.FieldName, value any) error {
	return c.update(func(state *State) error {
		return state.Set(name, value)
	})
}

// SetDisabled toggles the external disabled flag.
func (c *Controller) SetDisabled(disabled bool) {
	c.mu.Lock()
	c.disabled = disabled
	c.mu.Unlock()
}

// State exposes the underlying state holder. Writes through it bypass the
// resolver until the next Set.
func (c *Controller) State() *State { return c.state }

// Resolution returns the latest resolution.
func (c *Controller) Resolution() visibility.Resolution {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolution
}

// Mode reports the submission path for the current resolution.
func (c *Controller) Mode() Mode {
	return modeFor(c.Resolution())
}

// CanSubmit reports whether Submit would do anything.
func (c *Controller) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.disabled && c.resolution.Ready
}

// View assembles the render view for the current state.
func (c *Controller) View() render.View {
	c.mu.Lock()
	res, disabled := c.resolution, c.disabled
	c.mu.Unlock()
	errs := render.ErrorMapping{Fields: c.state.Errors(), Form: c.state.FormErrors()}
	return render.NewView(res, errs, disabled)
}

// Submit runs the submission flow. In ratio-gate mode the crop widget runs
// first and its result goes through ConfirmCrop.
func (c *Controller) Submit(ctx context.Context) (SubmitResult, error) {
	if !c.CanSubmit() {
		c.logger.DebugContext(ctx, "submit ignored", "ready", c.Resolution().Ready)
		return SubmitResult{}, nil
	}

	res := c.Resolution()
	if modeFor(res) == ModeDirect {
		return c.finish(ctx, false)
	}

	if c.crop == nil {
		return SubmitResult{}, ErrNoCropWidget
	}
	cropped, err := c.crop.Crop(ctx, CropRequest{
		FirstFile: res.Values.FirstFile,
		LastFile:  res.Values.LastFile,
		Options:   model.CloneOptions(res.State.RatioOptions),
		Resize:    res.State.NeedsResize,
	})
	if err != nil {
		return SubmitResult{}, fmt.Errorf("form: crop: %w", err)
	}
	return c.ConfirmCrop(ctx, cropped)
}

// ConfirmCrop merges the crop result (frames and ratio, overwriting) and
// continues with validation and enqueue. Frames whose source file is absent
// are cleared by the following resolution. Outside the ratio step it returns
// ErrNoRatioStep and leaves the values untouched.
func (c *Controller) ConfirmCrop(ctx context.Context, result CropResult) (SubmitResult, error) {
	if !c.CanSubmit() {
		return SubmitResult{}, nil
	}

	err := c.update(func(state *State) error {
		if modeFor(c.resolution) != ModeRatioGate {
			return ErrNoRatioStep
		}
		values := state.Values()
		values.FirstFrame = result.FirstFrame
		values.LastFrame = result.LastFrame
		values.Ratio = result.Ratio
		state.Replace(values)
		return nil
	})
	if err != nil {
		return SubmitResult{}, err
	}

	return c.finish(ctx, true)
}

func (c *Controller) finish(ctx context.Context, cropped bool) (SubmitResult, error) {
	res := c.Resolution()

	if c.validator != nil {
		checked, err := c.validator.Validate(ctx, submittable(res, cropped))
		if err != nil {
			return SubmitResult{}, fmt.Errorf("form: validate: %w", err)
		}
		if !checked.Valid() {
			mapping := placeErrors(checked.Mapping(), res.State)
			c.state.SetErrors(mapping.Fields)
			c.state.SetFormErrors(mapping.Form)
			c.logger.InfoContext(ctx, "submit blocked by validation", "issues", len(checked.Issues))
			return SubmitResult{Errors: mapping}, nil
		}
	}
	c.state.ClearErrors()

	if c.sink == nil {
		return SubmitResult{}, ErrNoSink
	}
	payload := render.FilterSubmission(res.Values, res.State.Fields)
	queued, err := c.sink.Enqueue(ctx, payload, task.KindVideoGeneration)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("form: enqueue: %w", err)
	}

	c.logger.InfoContext(ctx, "video generation submitted",
		"task_id", queued.ID.String(),
		"model", string(res.Values.Model),
		"fields", len(payload),
	)
	return SubmitResult{Submitted: true, Task: queued, Payload: payload}, nil
}

// update applies fn and re-runs the resolver under one lock, so a concurrent
// setter cannot be overwritten by a stale resolution.
func (c *Controller) update(fn func(*State) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := fn(c.state); err != nil {
		return err
	}
	c.recomputeLocked()
	return nil
}

func (c *Controller) recomputeLocked() {
	res := c.resolver.Resolve(c.state.Values())
	c.state.Replace(res.Values)
	c.resolution = res
}

// submittable keeps the visible fields of res, plus the values the crop step
// just wrote. Values left behind by an earlier model choice are not checked.
func submittable(res visibility.Resolution, cropped bool) model.FormValues {
	var out model.FormValues
	for _, name := range res.State.Fields {
		if value, ok := res.Values.Get(name); ok {
			_ = out.Set(name, value)
		}
	}
	if cropped {
		out.Ratio = res.Values.Ratio
		out.FirstFrame = res.Values.FirstFrame
		out.LastFrame = res.Values.LastFrame
	}
	return out
}

// placeErrors moves messages for fields the user cannot see to the form
// level, prefixed with the field name.
func placeErrors(mapping render.ErrorMapping, state visibility.State) render.ErrorMapping {
	out := render.ErrorMapping{Form: append([]string(nil), mapping.Form...)}
	for name, messages := range mapping.Fields {
		if state.Visible(name) {
			if out.Fields == nil {
				out.Fields = make(map[model.FieldName][]string)
			}
			out.Fields[name] = messages
			continue
		}
		for _, message := range messages {
			out.Form = append(out.Form, string(name)+": "+message)
		}
	}
	sort.Strings(out.Form[len(mapping.Form):])
	out.Form = render.MergeFormErrors(out.Form)
	return out
}

func modeFor(res visibility.Resolution) Mode {
	if res.State.NeedsRatio {
		return ModeRatioGate
	}
	return ModeDirect
}
