package service

import (
	"context"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const defaultSweepSpec = "@every 1m"

// NotificationDispatcher periodically re-pushes notifications that were
// created while their owner had no open socket.
type NotificationDispatcher struct {
	log     *logrus.Logger
	service *NotificationService
	spec    string

	cron    *cron.Cron
	cancel  context.CancelFunc
	started atomic.Bool
	stopped atomic.Bool
}

func NewNotificationDispatcher(log *logrus.Logger, service *NotificationService, spec string) *NotificationDispatcher {
	if spec == "" {
		spec = defaultSweepSpec
	}
	return &NotificationDispatcher{log: log, service: service, spec: spec}
}

// Start schedules the sweep. An invalid spec falls back to one minute.
func (d *NotificationDispatcher) Start(ctx context.Context) error {
	if !d.started.CompareAndSwap(false, true) {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(d.spec, func() { d.RunOnce(runCtx) }); err != nil {
		d.log.Warnf("Invalid notification sweep spec %q, falling back to %s: %+v", d.spec, defaultSweepSpec, err)
		c = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
		if _, err := c.AddFunc(defaultSweepSpec, func() { d.RunOnce(runCtx) }); err != nil {
			cancel()
			return err
		}
	}
	c.Start()
	d.cron = c

	d.log.Infof("Notification dispatcher started (%s)", d.spec)
	return nil
}

// RunOnce performs a single sweep.
func (d *NotificationDispatcher) RunOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	sent, err := d.service.DeliverPending(ctx)
	if err != nil {
		return
	}
	if sent > 0 {
		d.log.Debugf("Notification sweep delivered %d notification(s)", sent)
	}
}

// Stop waits for a running sweep to finish. Safe to call multiple times.
func (d *NotificationDispatcher) Stop() {
	if !d.stopped.CompareAndSwap(false, true) {
		return
	}
	if d.cancel != nil {
		d.cancel()
	}
	if d.cron != nil {
		<-d.cron.Stop().Done()
	}
	d.log.Info("Notification dispatcher stopped")
}
