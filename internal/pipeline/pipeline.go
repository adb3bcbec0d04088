// Package pipeline orchestrates one attendance submission from form values
// to the relayed record. The sequence is strict: location, field
// persistence, photo upload, timestamp, relay. Only the location step may
// fail without aborting; the loading state is reverted on every exit path.
package pipeline

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"attendance-capture/internal/clock"
	"attendance-capture/internal/device"
	"attendance-capture/internal/email"
	"attendance-capture/internal/fieldstore"
	"attendance-capture/internal/geo"
	"attendance-capture/internal/notify"
	"attendance-capture/internal/relay"
	"attendance-capture/internal/storage"
)

// User-facing notices. One generic message per outcome, detail goes to the log.
const (
	MsgSuccess = "Form submitted successfully!"
	MsgError   = "Error submitting form. Please try again."
)

// Submission carries the validated form values of one submit.
type Submission struct {
	Name           string
	Subdivision    string
	AttendanceType string // "in" or "out"

	PhotoName string
	Photo     io.Reader

	// Raw optional coordinates; parsing failures are absorbed
	Latitude  string
	Longitude string

	// Optional receipt address
	Email string

	Device device.Info
}

type Uploader interface {
	Upload(ctx context.Context, filename string, photo io.Reader) (string, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, record relay.FormRecord) error
}

type Mailer interface {
	Send(msg *email.Message) error
}

type Pipeline struct {
	fields   fieldstore.Store
	uploader Uploader
	relay    Dispatcher
	notices  *notify.Board

	// Optional collaborators; nil disables the step
	records  storage.Provider
	receipts Mailer

	now    func() time.Time
	logger *slog.Logger
}

func New(fields fieldstore.Store, uploader Uploader, dispatcher Dispatcher, notices *notify.Board) *Pipeline {
	return &Pipeline{
		fields:   fields,
		uploader: uploader,
		relay:    dispatcher,
		notices:  notices,
		now:      time.Now,
		logger:   slog.With("component", "pipeline"),
	}
}

// WithRecords enables the local submission log.
func (p *Pipeline) WithRecords(records storage.Provider) *Pipeline {
	p.records = records
	return p
}

// WithReceipts enables receipt mail for submissions carrying an address.
func (p *Pipeline) WithReceipts(mailer Mailer) *Pipeline {
	p.receipts = mailer
	return p
}

// Submit runs the pipeline for one submission. The returned error is for
// the caller's log; the submitter only ever sees the generic notices.
func (p *Pipeline) Submit(ctx context.Context, sub Submission) error {
	p.notices.BeginBusy()
	defer p.notices.EndBusy()

	// Location is best effort, never fatal
	location := geo.Resolve(sub.Latitude, sub.Longitude)

	// Persist autofill fields, resetting the shared expiry. Failures are
	// absorbed inside the store.
	p.fields.Save(ctx, fieldstore.KeyName, sub.Name)
	p.fields.Save(ctx, fieldstore.KeySubdivision, sub.Subdivision)

	photoURL, err := p.uploader.Upload(ctx, sub.PhotoName, sub.Photo)
	if err != nil {
		p.logger.Error("Photo upload failed", "name", sub.Name, "error", err)
		p.notices.Post(notify.Error, MsgError)
		return err
	}

	timestamp := clock.ISTTimestamp(p.now())

	inTime, outTime := "", ""
	if sub.AttendanceType == "in" {
		inTime = "Yes"
	} else {
		outTime = "Yes"
	}

	record := relay.FormRecord{
		Timestamp:   timestamp,
		Name:        sub.Name,
		Subdivision: sub.Subdivision,
		InTime:      inTime,
		OutTime:     outTime,
		PhotoURL:    photoURL,
		Location:    location.String(),
		DeviceInfo:  sub.Device.JSON(),
	}

	if err := p.relay.Dispatch(ctx, record); err != nil {
		p.logger.Error("Relay dispatch failed", "name", sub.Name, "error", err)
		p.notices.Post(notify.Error, MsgError)
		return err
	}

	// Dispatch went out; everything below is best effort
	p.notices.Post(notify.Success, MsgSuccess)

	if p.records != nil {
		entry := storage.Submission{
			ID:             uuid.NewString(),
			Name:           sub.Name,
			Subdivision:    sub.Subdivision,
			AttendanceType: sub.AttendanceType,
			PhotoURL:       photoURL,
			Location:       record.Location,
			DeviceInfo:     record.DeviceInfo,
			RecordedAt:     timestamp,
			CreatedAt:      p.now().UTC(),
		}
		if err := p.records.CreateSubmission(ctx, entry); err != nil {
			// The relay is the system of record, the local log is not
			p.logger.Error("Failed to log submission", "error", err)
		}
	}

	if p.receipts != nil && sub.Email != "" {
		msg := email.ReceiptMessage(sub.Email, sub.Name, sub.Subdivision, sub.AttendanceType, timestamp, photoURL)
		if err := p.receipts.Send(msg); err != nil {
			p.logger.Error("Failed to send receipt", "to", sub.Email, "error", err)
		}
	}

	return nil
}
