package model

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/infitab/infitab/internal/logging"
	"github.com/infitab/infitab/internal/model1"
)

const (
	// DefaultCloseDelay keeps the success banner up before the form closes.
	DefaultCloseDelay = 1200 * time.Millisecond

	MsgAccepted = "Server accepted the data"
	MsgRejected = "Server rejected the data. Please check and try again."
)

// FormState tracks the add row form lifecycle.
type FormState int

const (
	FormEditing FormState = iota
	FormValidating
	FormSubmitting
	FormSuccess
	FormClosed
)

func (s FormState) String() string {
	switch s {
	case FormEditing:
		return "editing"
	case FormValidating:
		return "validating"
	case FormSubmitting:
		return "submitting"
	case FormSuccess:
		return "success"
	case FormClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// SubmitFunc sends a validated record to the backend.
type SubmitFunc func(ctx context.Context, fields map[string]string) error

// Stopper cancels a scheduled call.
type Stopper interface {
	Stop() bool
}

// AfterFunc schedules f after d.
type AfterFunc func(d time.Duration, f func()) Stopper

func afterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// FormSnapshot is a point in time copy of the form.
type FormSnapshot struct {
	State     FormState
	Fields    model1.Columns
	Values    map[string]string
	Errors    FieldErrors
	ServerErr string
	Success   string
}

// Busy returns true while inputs and buttons should be disabled.
func (s FormSnapshot) Busy() bool {
	return s.State == FormValidating || s.State == FormSubmitting
}

// AddRowForm captures, validates and submits a new row.
type AddRowForm struct {
	fields     model1.Columns
	values     map[string]string
	errors     FieldErrors
	serverErr  string
	success    string
	state      FormState
	submit     SubmitFunc
	onSuccess  func()
	onClose    func()
	closeDelay time.Duration
	afterFn    AfterFunc
	timer      Stopper
	listeners  []FormListener
	logger     zerolog.Logger
	mx         sync.RWMutex
}

// NewAddRowForm creates a form with one field per non id column.
func NewAddRowForm(cc model1.Columns, submit SubmitFunc) *AddRowForm {
	fields := cc.Editable()
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[f.Key] = ""
	}

	return &AddRowForm{
		fields:     fields,
		values:     values,
		errors:     make(FieldErrors),
		submit:     submit,
		closeDelay: DefaultCloseDelay,
		afterFn:    afterFunc,
		logger:     logging.NewLogger("form"),
	}
}

// SetCloseDelay overrides how long the success banner stays up.
func (f *AddRowForm) SetCloseDelay(d time.Duration) {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.closeDelay = d
}

// SetAfterFunc overrides the close scheduler.
func (f *AddRowForm) SetAfterFunc(fn AfterFunc) {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.afterFn = fn
}

// SetOnSuccess registers the callback run once after an accepted submission.
func (f *AddRowForm) SetOnSuccess(fn func()) {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.onSuccess = fn
}

// SetOnClose registers the callback run when the form closes.
func (f *AddRowForm) SetOnClose(fn func()) {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.onClose = fn
}

// AddListener registers a form listener.
func (f *AddRowForm) AddListener(l FormListener) {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.listeners = append(f.listeners, l)
}

// Fields returns the editable columns.
func (f *AddRowForm) Fields() model1.Columns {
	return f.fields.Clone()
}

// State returns the form state.
func (f *AddRowForm) State() FormState {
	f.mx.RLock()
	defer f.mx.RUnlock()
	return f.state
}

// Snapshot returns a copy of the form.
func (f *AddRowForm) Snapshot() FormSnapshot {
	f.mx.RLock()
	defer f.mx.RUnlock()
	return f.snapshotLocked()
}

// SetValue records an input change. It clears that field's error and the
// server banner. Changes are ignored unless the form is being edited.
func (f *AddRowForm) SetValue(key, value string) bool {
	f.mx.Lock()
	if f.state != FormEditing {
		f.mx.Unlock()
		return false
	}
	if _, ok := f.values[key]; !ok {
		f.mx.Unlock()
		return false
	}
	f.values[key] = value
	delete(f.errors, key)
	f.serverErr = ""
	snap := f.snapshotLocked()
	f.mx.Unlock()

	f.fire(snap)
	return true
}

// Submit validates the values and, when valid, sends them.
// It blocks for the duration of the backend call and returns true on success.
func (f *AddRowForm) Submit(ctx context.Context) bool {
	f.mx.Lock()
	if f.state != FormEditing {
		f.mx.Unlock()
		return false
	}
	f.state = FormValidating
	errs := Validate(f.fields, f.values)
	if len(errs) > 0 {
		f.errors = errs
		f.state = FormEditing
		snap := f.snapshotLocked()
		f.mx.Unlock()

		submissions.WithLabelValues("invalid").Inc()
		f.logger.Debug().Int("errors", len(errs)).Msg("validation failed")
		f.fire(snap)
		return false
	}
	f.errors = make(FieldErrors)
	f.serverErr = ""
	f.state = FormSubmitting
	payload := make(map[string]string, len(f.values))
	for k, v := range f.values {
		payload[k] = strings.TrimSpace(v)
	}
	submit := f.submit
	snap := f.snapshotLocked()
	f.mx.Unlock()
	f.fire(snap)

	err := submit(ctx, payload)

	f.mx.Lock()
	if err != nil {
		f.serverErr = MsgRejected
		f.state = FormEditing
		snap = f.snapshotLocked()
		f.mx.Unlock()

		submissions.WithLabelValues("rejected").Inc()
		f.logger.Warn().Err(err).Msg("submission rejected")
		f.fire(snap)
		return false
	}
	f.success = MsgAccepted
	f.state = FormSuccess
	onSuccess, delay, after := f.onSuccess, f.closeDelay, f.afterFn
	snap = f.snapshotLocked()
	f.mx.Unlock()

	submissions.WithLabelValues("accepted").Inc()
	f.logger.Info().Msg("submission accepted")
	f.fire(snap)
	if onSuccess != nil {
		onSuccess()
	}

	t := after(delay, func() { f.close() })
	f.mx.Lock()
	f.timer = t
	f.mx.Unlock()

	return true
}

// Cancel closes the form unless a submission is in flight.
func (f *AddRowForm) Cancel() bool {
	f.mx.RLock()
	busy := f.state == FormValidating || f.state == FormSubmitting
	f.mx.RUnlock()

	if busy {
		return false
	}
	return f.close()
}

func (f *AddRowForm) close() bool {
	f.mx.Lock()
	if f.state == FormClosed {
		f.mx.Unlock()
		return false
	}
	f.state = FormClosed
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	onClose := f.onClose
	snap := f.snapshotLocked()
	f.mx.Unlock()

	f.fire(snap)
	if onClose != nil {
		onClose()
	}

	return true
}

func (f *AddRowForm) snapshotLocked() FormSnapshot {
	values := make(map[string]string, len(f.values))
	for k, v := range f.values {
		values[k] = v
	}
	errs := make(FieldErrors, len(f.errors))
	for k, v := range f.errors {
		errs[k] = v
	}

	return FormSnapshot{
		State:     f.state,
		Fields:    f.fields.Clone(),
		Values:    values,
		Errors:    errs,
		ServerErr: f.serverErr,
		Success:   f.success,
	}
}

func (f *AddRowForm) fire(s FormSnapshot) {
	f.mx.RLock()
	ll := make([]FormListener, len(f.listeners))
	copy(ll, f.listeners)
	f.mx.RUnlock()

	for _, l := range ll {
		l.FormChanged(s)
	}
}
