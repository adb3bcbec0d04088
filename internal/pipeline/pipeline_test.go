package pipeline

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"attendance-capture/internal/email"
	"attendance-capture/internal/fieldstore"
	"attendance-capture/internal/notify"
	"attendance-capture/internal/relay"
)

type fakeUploader struct {
	url string
	err error
}

func (f *fakeUploader) Upload(ctx context.Context, filename string, photo io.Reader) (string, error) {
	return f.url, f.err
}

type fakeDispatcher struct {
	records []relay.FormRecord
	err     error
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, record relay.FormRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, record)
	return nil
}

type fakeMailer struct {
	sent []*email.Message
}

func (f *fakeMailer) Send(msg *email.Message) error {
	f.sent = append(f.sent, msg)
	return nil
}

func testSubmission() Submission {
	return Submission{
		Name:           "Alice",
		Subdivision:    "North",
		AttendanceType: "in",
		PhotoName:      "photo.jpg",
		Photo:          strings.NewReader("jpegbytes"),
		Latitude:       "62.24",
		Longitude:      "25.75",
	}
}

func newTestPipeline(uploader Uploader, dispatcher Dispatcher) (*Pipeline, *notify.Board, fieldstore.Store) {
	board := notify.NewBoard(time.Minute)
	fields := fieldstore.NewMemoryStore(30 * 24 * time.Hour)
	p := New(fields, uploader, dispatcher, board)
	p.now = func() time.Time { return time.Date(2024, 1, 1, 10, 15, 30, 0, time.UTC) }
	return p, board, fields
}

func TestSubmit_Success(t *testing.T) {
	ctx := context.Background()
	dispatcher := &fakeDispatcher{}
	p, board, fields := newTestPipeline(&fakeUploader{url: "https://res.example.com/p.jpg"}, dispatcher)

	if err := p.Submit(ctx, testSubmission()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	n := board.Current()
	if n == nil || n.Kind != notify.Success {
		t.Fatalf("expected success notice, got %+v", n)
	}
	if board.Busy() {
		t.Fatal("loading state should be cleared")
	}

	if len(dispatcher.records) != 1 {
		t.Fatalf("expected one dispatched record, got %d", len(dispatcher.records))
	}
	record := dispatcher.records[0]
	if record.Timestamp != "2024-01-01 03:45:30 PM IST" {
		t.Fatalf("unexpected timestamp: %q", record.Timestamp)
	}
	if record.InTime != "Yes" || record.OutTime != "" {
		t.Fatalf("in/out flags wrong: %+v", record)
	}
	if record.Location != "62.24,25.75" {
		t.Fatalf("unexpected location: %q", record.Location)
	}

	// The just-submitted values repopulate the form on the next load
	if v, ok := fields.Get(ctx, fieldstore.KeyName); !ok || v != "Alice" {
		t.Fatalf("name not persisted: %q %v", v, ok)
	}
	if v, ok := fields.Get(ctx, fieldstore.KeySubdivision); !ok || v != "North" {
		t.Fatalf("subdivision not persisted: %q %v", v, ok)
	}
}

func TestSubmit_UploadFailureAborts(t *testing.T) {
	ctx := context.Background()
	dispatcher := &fakeDispatcher{}
	p, board, _ := newTestPipeline(&fakeUploader{err: errors.New("upload failed: preset not found")}, dispatcher)

	if err := p.Submit(ctx, testSubmission()); err == nil {
		t.Fatal("expected error from failed upload")
	}

	n := board.Current()
	if n == nil || n.Kind != notify.Error {
		t.Fatalf("expected error notice, got %+v", n)
	}
	if board.Busy() {
		t.Fatal("loading state must be cleared on the failure path too")
	}
	if len(dispatcher.records) != 0 {
		t.Fatal("relay must not run after a failed upload")
	}
}

func TestSubmit_RelayTransportFailure(t *testing.T) {
	ctx := context.Background()
	p, board, _ := newTestPipeline(
		&fakeUploader{url: "https://res.example.com/p.jpg"},
		&fakeDispatcher{err: errors.New("relay failed: connection refused")},
	)

	if err := p.Submit(ctx, testSubmission()); err == nil {
		t.Fatal("expected error from failed relay")
	}
	if n := board.Current(); n == nil || n.Kind != notify.Error {
		t.Fatalf("expected error notice, got %+v", n)
	}
	if board.Busy() {
		t.Fatal("loading state must be cleared")
	}
}

func TestSubmit_MissingLocationIsAbsorbed(t *testing.T) {
	ctx := context.Background()
	dispatcher := &fakeDispatcher{}
	p, _, _ := newTestPipeline(&fakeUploader{url: "https://res.example.com/p.jpg"}, dispatcher)

	sub := testSubmission()
	sub.Latitude, sub.Longitude = "", ""
	if err := p.Submit(ctx, sub); err != nil {
		t.Fatalf("Submit should proceed without location: %v", err)
	}
	if dispatcher.records[0].Location != "Not available" {
		t.Fatalf("unexpected location: %q", dispatcher.records[0].Location)
	}
}

func TestSubmit_OutSetsOutTime(t *testing.T) {
	ctx := context.Background()
	dispatcher := &fakeDispatcher{}
	p, _, _ := newTestPipeline(&fakeUploader{url: "https://res.example.com/p.jpg"}, dispatcher)

	sub := testSubmission()
	sub.AttendanceType = "out"
	if err := p.Submit(ctx, sub); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	record := dispatcher.records[0]
	if record.InTime != "" || record.OutTime != "Yes" {
		t.Fatalf("in/out flags wrong: %+v", record)
	}
}

func TestSubmit_ReceiptSentWhenConfigured(t *testing.T) {
	ctx := context.Background()
	mailer := &fakeMailer{}
	p, _, _ := newTestPipeline(&fakeUploader{url: "https://res.example.com/p.jpg"}, &fakeDispatcher{})
	p.WithReceipts(mailer)

	sub := testSubmission()
	sub.Email = "alice@example.com"
	if err := p.Submit(ctx, sub); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected one receipt, got %d", len(mailer.sent))
	}
	if mailer.sent[0].To[0] != "alice@example.com" {
		t.Fatalf("receipt addressed wrong: %v", mailer.sent[0].To)
	}
}
