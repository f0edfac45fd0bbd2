package history

import (
	"errors"
	"log/slog"

	evbus "github.com/asaskevich/EventBus"
)

// Recorder persists terminal sessions to the file log and the archive.
// Either sink may be nil.
type Recorder struct {
	log     *FileLog
	archive *Archive
}

func NewRecorder(log *FileLog, archive *Archive) *Recorder {
	return &Recorder{
		log:     log,
		archive: archive,
	}
}

// Subscribe attaches the recorder to topic. Records are written one at a
// time, off the publisher's goroutine.
func (r *Recorder) Subscribe(bus evbus.Bus, topic string) error {
	return bus.SubscribeAsync(topic, r.Handle, true)
}

// Handle never fails the caller, write errors are only logged.
func (r *Recorder) Handle(rec Record) {
	slog.Info(
		"archiving download",
		slog.String("id", rec.SessionID),
		slog.String("outcome", string(rec.Outcome)),
	)

	if err := r.write(rec); err != nil {
		slog.Error("failed to record download", slog.String("id", rec.SessionID), slog.Any("err", err))
	}
}

func (r *Recorder) write(rec Record) error {
	var errs []error

	if r.log != nil {
		errs = append(errs, r.log.Append(rec))
	}
	if r.archive != nil {
		errs = append(errs, r.archive.Put(rec))
	}

	return errors.Join(errs...)
}
