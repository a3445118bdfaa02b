package transfer

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/jgrover/DroidWatch/pkg/model"
	"github.com/jgrover/DroidWatch/pkg/storage"
)

type transferError string

func (e transferError) Error() string {
	return string(e)
}

const (
	// ErrInProgress is returned when a run is triggered while another
	// run has not finished. There is no cross-process lock; this guard
	// only covers a misfiring in-process scheduler.
	ErrInProgress = transferError("transfer already in progress")

	// ErrRemoteRejected is returned for any collector response other
	// than HTTP 200.
	ErrRemoteRejected = transferError("collector rejected upload")

	// ErrNotFileBacked is returned when the configured store has no
	// backing file to stream.
	ErrNotFileBacked = transferError("store is not file-backed")
)

// formFieldName is the multipart field the collector expects the store
// file under.
const formFieldName = "uploadedfile"

// Config carries the connection settings of the transfer pipeline.
type Config struct {
	ServerURL string
	CertFile  string
	DeviceID  string
	Timeout   time.Duration
}

// Manager runs the transactional secure-transfer pipeline: connect with
// the pinned certificate, record a pending transfer, stream the whole
// store file, and on confirmed delivery prune everything that was
// guaranteed to be inside the uploaded snapshot.
//
// Failures at any stage abort the run and leave the local data intact;
// the next scheduled run re-uploads it. The design prefers duplicate
// delivery over data loss.
type Manager struct {
	cfg      Config
	store    storage.Interface
	inFlight int32
}

// NewManager creates a transfer Manager for the given store.
func NewManager(cfg Config, store storage.Interface) *Manager {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Manager{cfg: cfg, store: store}
}

// Name identifies the pipeline to the scheduler.
func (m *Manager) Name() string {
	return "Transfer"
}

// RunOnce executes one full pipeline run. It is re-entrant: a second
// trigger while a run is in flight returns ErrInProgress without doing
// anything.
func (m *Manager) RunOnce(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&m.inFlight, 0, 1) {
		log.Warn("Transfer trigger ignored, previous run still in flight")
		return ErrInProgress
	}
	defer atomic.StoreInt32(&m.inFlight, 0)

	return m.run(ctx)
}

func (m *Manager) run(ctx context.Context) error {
	path := m.store.Path()
	if path == "" {
		return ErrNotFileBacked
	}

	// Connecting: certificate problems and handshake failures abort
	// before any transfer row exists.
	cert, err := LoadCertificate(m.cfg.CertFile)
	if err != nil {
		return err
	}
	client, tlsConfig := newPinnedClient(cert, m.cfg.Timeout)
	if err := probeConnection(m.cfg.ServerURL, tlsConfig, m.cfg.Timeout); err != nil {
		return err
	}

	// Recording: the start time of this row closes the prune window.
	// Everything detected before it is guaranteed to be in the file we
	// are about to stream.
	transfer := &model.Transfer{DeviceID: m.cfg.DeviceID}
	if err := m.store.Transfers().Create(ctx, transfer); err != nil {
		return err
	}

	logger := log.WithFields(log.Fields{
		"transfer_id": transfer.ID,
		"server":      m.cfg.ServerURL,
	})
	logger.Info("Starting transfer")

	// Uploading and verifying: only HTTP 200 counts as delivered.
	if err := m.upload(ctx, client, path); err != nil {
		logger.WithError(err).Error("Transfer failed, keeping local data")
		return err
	}

	// Pruning: rows inserted while the upload ran have a detection time
	// at or after the start mark and survive for the next cycle.
	record, err := m.store.Transfers().FindByID(ctx, transfer.ID)
	if err != nil {
		return err
	}
	deleted, err := m.store.Events().DeleteDetectedBefore(ctx, record.StartTime)
	if err != nil {
		logger.WithError(err).Error("Prune failed, transfer stays incomplete")
		return err
	}

	if err := m.store.Transfers().MarkCompleted(ctx, transfer.ID); err != nil {
		return err
	}

	logger.WithField("deleted_events", deleted).Info("Transfer completed")
	return nil
}

// upload streams the store file to the collector as a single
// multipart/form-data POST. The file is piped straight into the request
// body; it is never buffered in memory.
func (m *Manager) upload(ctx context.Context, client *http.Client, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "failed to open store file")
	}
	defer file.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile(formFieldName, filepath.Base(path))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.ServerURL, pr)
	if err != nil {
		return errors.Wrap(err, "failed to build upload request")
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to upload store file")
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return errors.Wrapf(ErrRemoteRejected, "status %d", resp.StatusCode)
	}
	return nil
}
