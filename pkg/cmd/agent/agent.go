package agent

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jgrover/DroidWatch/config"
	"github.com/jgrover/DroidWatch/pkg/collector"
	"github.com/jgrover/DroidWatch/pkg/storage"
	"github.com/jgrover/DroidWatch/pkg/storage/sqlite"
	"github.com/jgrover/DroidWatch/pkg/transfer"
	"github.com/jgrover/DroidWatch/pkg/watcher"
)

func init() {
	formatter := &logrus.TextFormatter{
		FullTimestamp: true,
	}
	logrus.SetFormatter(formatter)

	// Output to stdout instead of the default stderr
	log.SetOutput(os.Stdout)

	log.SetLevel(log.InfoLevel)
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// Run returns the handler for the run command. It opens the local
// store, registers every configured detector plus the transfer pipeline
// on the scheduler, and blocks until an interrupt.
func Run(c *config.Config) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		log.WithFields(log.Fields{
			"version":  c.BuildVersion,
			"database": c.DatabasePath,
			"device":   c.DeviceID,
		}).Info("Starting agent")

		if err := os.MkdirAll(c.PlatformDir, 0o755); err != nil {
			log.Error("failed to create platform directory: ", err)
			os.Exit(1)
		}

		store, err := openStore(c)
		if err != nil {
			log.Error("failed to open event store: ", err)
			os.Exit(1)
		}
		defer store.Close()

		source := watcher.NewDirSource(c.PlatformDir)

		sched := watcher.NewScheduler()
		sched.Add(watcher.NewCallLogWatcher(source, store), seconds(c.CallLogInterval))
		sched.Add(watcher.NewSMSWatcher(source, store), seconds(c.SMSInterval))
		sched.Add(watcher.NewBrowserHistoryWatcher(source, store), seconds(c.BrowserHistoryInterval))
		sched.Add(watcher.NewContactWatcher(source, store), seconds(c.ContactsInterval))
		sched.Add(watcher.NewCalendarWatcher(source, store), seconds(c.CalendarInterval))
		sched.Add(transfer.NewManager(transferConfig(c), store), seconds(c.TransferInterval))

		sched.Start(context.Background())

		// Wait for interrupt signal to gracefully shutdown the agent
		quitCh := make(chan os.Signal, 1)
		signal.Notify(quitCh, syscall.SIGINT, syscall.SIGTERM)
		<-quitCh
		log.Info("Shutdown signal received")

		sched.Stop()
		log.Info("Shutdown agent successful")
	}
}

// TransferOnce returns the handler for the transfer command: a single
// pipeline cycle against the configured collector, then exit.
func TransferOnce(c *config.Config) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		store, err := openStore(c)
		if err != nil {
			log.Error("failed to open event store: ", err)
			os.Exit(1)
		}
		defer store.Close()

		m := transfer.NewManager(transferConfig(c), store)

		ctx, cancel := context.WithTimeout(context.Background(), seconds(c.HTTPTimeout)+30*time.Second)
		defer cancel()

		if err := m.RunOnce(ctx); err != nil {
			log.Error("transfer failed: ", err)
			os.Exit(1)
		}
		log.Info("Transfer successful")
	}
}

// RunCollector returns the handler for the collect command. The
// collector is a development aid: it spools every uploaded store file
// to disk and answers 200.
func RunCollector(c *config.Config) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		if err := os.MkdirAll(c.CollectorSpoolDir, 0o755); err != nil {
			log.Error("failed to create spool directory: ", err)
			os.Exit(1)
		}

		s := collector.NewServer(c.CollectorSpoolDir)

		go func() {
			log.WithFields(log.Fields{
				"addr":  c.CollectorAddr,
				"spool": c.CollectorSpoolDir,
			}).Info("Starting collector")

			var err error
			if c.CollectorCertFile != "" && c.CollectorKeyFile != "" {
				err = s.StartTLS(c.CollectorAddr, c.CollectorCertFile, c.CollectorKeyFile)
			} else {
				err = s.Start(c.CollectorAddr)
			}
			if err != nil {
				log.Info("Shutting down the collector")
			}
		}()

		quitCh := make(chan os.Signal, 1)
		signal.Notify(quitCh, syscall.SIGINT, syscall.SIGTERM)
		<-quitCh
		log.Info("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Shutdown(ctx); err != nil {
			log.Error("Shutdown collector failed: ", err)
			return
		}
		log.Info("Shutdown collector successful")
	}
}

func openStore(c *config.Config) (storage.Interface, error) {
	if err := os.MkdirAll(filepath.Dir(c.DatabasePath), 0o755); err != nil {
		return nil, err
	}
	return sqlite.Open(c.DatabasePath)
}

func transferConfig(c *config.Config) transfer.Config {
	return transfer.Config{
		ServerURL: c.ServerURL,
		CertFile:  c.CertFile,
		DeviceID:  c.DeviceID,
		Timeout:   seconds(c.HTTPTimeout),
	}
}
