package model

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeTimer struct {
	mx      sync.Mutex
	delay   time.Duration
	fn      func()
	stopped bool
}

func (f *fakeTimer) after(d time.Duration, fn func()) Stopper {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.delay, f.fn = d, fn
	return f
}

func (f *fakeTimer) Stop() bool {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.stopped = true
	return true
}

func (f *fakeTimer) fire() {
	f.mx.Lock()
	fn := f.fn
	f.mx.Unlock()
	if fn != nil {
		fn()
	}
}

type formRecorder struct {
	mx    sync.Mutex
	snaps []FormSnapshot
}

func (r *formRecorder) FormChanged(s FormSnapshot) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.snaps = append(r.snaps, s)
}

func fill(f *AddRowForm, values map[string]string) {
	for k, v := range values {
		f.SetValue(k, v)
	}
}

func TestAddRowForm_Fields(t *testing.T) {
	f := NewAddRowForm(testColumns, nil)

	ff := f.Fields()
	if len(ff) != 3 {
		t.Fatalf("Expected 3 fields, got %d", len(ff))
	}
	if ff[0].Key != "name" || ff[2].Key != "age" {
		t.Errorf("Expected column order without id, got %v", ff)
	}
	if f.SetValue("id", "9") {
		t.Error("Expected id not to be editable")
	}
}

func TestAddRowForm_InvalidNeverSubmits(t *testing.T) {
	var calls int
	f := NewAddRowForm(testColumns, func(context.Context, map[string]string) error {
		calls++
		return nil
	})
	fill(f, map[string]string{"name": "A", "email": "a@yahoo.com", "age": "5"})

	if f.Submit(context.Background()) {
		t.Fatal("Expected invalid submission to fail")
	}
	if calls != 0 {
		t.Errorf("Expected no network call, got %d", calls)
	}

	snap := f.Snapshot()
	if snap.State != FormEditing {
		t.Errorf("Expected editing state, got %s", snap.State)
	}
	if snap.Errors["email"] != MsgEmail {
		t.Errorf("Expected email error, got %v", snap.Errors)
	}
}

func TestAddRowForm_ChangeClearsErrors(t *testing.T) {
	f := NewAddRowForm(testColumns, func(context.Context, map[string]string) error {
		return errBoom
	})
	fill(f, map[string]string{"name": "", "email": "bad", "age": "5"})
	f.Submit(context.Background())

	f.SetValue("name", "A")
	snap := f.Snapshot()
	if snap.Errors.Has("name") {
		t.Error("Expected name error to be cleared")
	}
	if !snap.Errors.Has("email") {
		t.Error("Expected email error to stay")
	}

	f.SetValue("email", "a@gmail.com")
	f.Submit(context.Background())
	if got := f.Snapshot().ServerErr; got != MsgRejected {
		t.Fatalf("Expected server banner, got %q", got)
	}

	f.SetValue("age", "6")
	if got := f.Snapshot().ServerErr; got != "" {
		t.Errorf("Expected any change to clear the server banner, got %q", got)
	}
}

func TestAddRowForm_Rejected(t *testing.T) {
	f := NewAddRowForm(testColumns, func(context.Context, map[string]string) error {
		return errBoom
	})
	var closed bool
	f.SetOnClose(func() { closed = true })
	values := map[string]string{"name": "A", "email": "a@gmail.com", "age": "5"}
	fill(f, values)

	if f.Submit(context.Background()) {
		t.Fatal("Expected rejected submission to fail")
	}

	snap := f.Snapshot()
	if snap.State != FormEditing {
		t.Errorf("Expected form back in editing, got %s", snap.State)
	}
	if snap.ServerErr != MsgRejected {
		t.Errorf("Expected generic server error, got %q", snap.ServerErr)
	}
	for k, v := range values {
		if snap.Values[k] != v {
			t.Errorf("Expected %s to keep %q, got %q", k, v, snap.Values[k])
		}
	}
	if closed {
		t.Error("Expected form to stay open")
	}
}

func TestAddRowForm_Accepted(t *testing.T) {
	var got []map[string]string
	f := NewAddRowForm(testColumns, func(_ context.Context, fields map[string]string) error {
		got = append(got, fields)
		return nil
	})
	timer := &fakeTimer{}
	f.SetAfterFunc(timer.after)
	var invalidations, closes int
	f.SetOnSuccess(func() { invalidations++ })
	f.SetOnClose(func() { closes++ })
	rec := &formRecorder{}
	f.AddListener(rec)

	fill(f, map[string]string{"name": " A ", "email": "a@gmail.com", "age": "5"})
	if !f.Submit(context.Background()) {
		t.Fatal("Expected submission to succeed")
	}

	if len(got) != 1 {
		t.Fatalf("Expected exactly one submission, got %d", len(got))
	}
	if got[0]["name"] != "A" || len(got[0]) != 3 {
		t.Errorf("Unexpected payload %v", got[0])
	}
	if _, ok := got[0]["id"]; ok {
		t.Error("Expected payload without id")
	}

	snap := f.Snapshot()
	if snap.State != FormSuccess || snap.Success != MsgAccepted {
		t.Errorf("Expected success banner, got %+v", snap)
	}
	if invalidations != 1 {
		t.Errorf("Expected 1 invalidation, got %d", invalidations)
	}
	if timer.delay != DefaultCloseDelay {
		t.Errorf("Expected close after %v, got %v", DefaultCloseDelay, timer.delay)
	}
	if closes != 0 {
		t.Error("Expected form to stay open until the delay elapses")
	}
	if f.Submit(context.Background()) {
		t.Error("Expected no resubmission after success")
	}

	timer.fire()
	if f.State() != FormClosed || closes != 1 {
		t.Errorf("Expected auto close, got state %s closes %d", f.State(), closes)
	}
	timer.fire()
	if closes != 1 || invalidations != 1 {
		t.Errorf("Expected close and invalidation exactly once, got %d/%d", closes, invalidations)
	}

	var sawSubmitting bool
	for _, s := range rec.snaps {
		if s.State == FormSubmitting && s.Busy() {
			sawSubmitting = true
		}
	}
	if !sawSubmitting {
		t.Error("Expected a busy submitting snapshot")
	}
}

func TestAddRowForm_BusyIgnoresInput(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	f := NewAddRowForm(testColumns, func(context.Context, map[string]string) error {
		close(entered)
		<-release
		return nil
	})
	f.SetAfterFunc((&fakeTimer{}).after)
	fill(f, map[string]string{"name": "A", "email": "a@gmail.com", "age": "5"})

	done := make(chan bool)
	go func() { done <- f.Submit(context.Background()) }()
	<-entered

	if f.Submit(context.Background()) {
		t.Error("Expected concurrent submit to be ignored")
	}
	if f.Cancel() {
		t.Error("Expected cancel to be ignored while submitting")
	}
	if f.SetValue("name", "B") {
		t.Error("Expected edits to be ignored while submitting")
	}

	close(release)
	if !<-done {
		t.Fatal("Expected submission to succeed")
	}
}

func TestAddRowForm_CancelAfterSuccess(t *testing.T) {
	f := NewAddRowForm(testColumns, func(context.Context, map[string]string) error { return nil })
	timer := &fakeTimer{}
	f.SetAfterFunc(timer.after)
	fill(f, map[string]string{"name": "A", "email": "a@gmail.com", "age": "5"})
	f.Submit(context.Background())

	if !f.Cancel() {
		t.Fatal("Expected cancel to close the form")
	}
	if !timer.stopped {
		t.Error("Expected pending close to be stopped")
	}
	if f.Cancel() {
		t.Error("Expected second cancel to be a no-op")
	}
}

func TestAddRowForm_RealTimerCloses(t *testing.T) {
	f := NewAddRowForm(testColumns, func(context.Context, map[string]string) error { return nil })
	f.SetCloseDelay(10 * time.Millisecond)
	closed := make(chan struct{})
	f.SetOnClose(func() { close(closed) })
	fill(f, map[string]string{"name": "A", "email": "a@gmail.com", "age": "5"})
	f.Submit(context.Background())

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("Expected form to close on its own")
	}
}

func TestAddRowForm_SuccessReloadsTable(t *testing.T) {
	f := newFakeBackend(45)
	c, ctl := newTestController(f)
	ctl.Start()
	c.Wait()
	ctl.VisibilityChanged(true)
	c.Wait()

	form := NewAddRowForm(testColumns, f.CreateRow)
	form.SetAfterFunc((&fakeTimer{}).after)
	form.SetOnSuccess(func() { ctl.InvalidateRequested() })

	f.rejectOn = errBoom
	fill(form, map[string]string{"name": "A", "email": "a@gmail.com", "age": "5"})
	form.Submit(context.Background())
	c.Wait()
	if got := len(c.Rows()); got != 40 {
		t.Fatalf("Expected rejected submission to leave 40 rows, got %d", got)
	}

	f.mx.Lock()
	f.rejectOn = nil
	f.mx.Unlock()
	if !form.Submit(context.Background()) {
		t.Fatal("Expected submission to succeed")
	}
	c.Wait()

	if len(f.created) != 1 {
		t.Errorf("Expected 1 created row, got %d", len(f.created))
	}
	if got := f.pages(); len(got) != 3 || got[2] != 1 {
		t.Errorf("Expected reload from page 1, got %v", got)
	}
	if got := len(c.Rows()); got != 20 {
		t.Errorf("Expected 20 rows after reload, got %d", got)
	}
}
