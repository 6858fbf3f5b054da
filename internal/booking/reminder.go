package booking

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// ReminderWorker periodically mails bookers whose appointments are
// approaching. One run scans the whole table, so a single instance per
// deployment is expected.
type ReminderWorker struct {
	service Service
	spec    string
	cron    *cron.Cron
}

func NewReminderWorker(service Service, spec string) *ReminderWorker {
	return &ReminderWorker{service: service, spec: spec}
}

func (w *ReminderWorker) Start() error {
	w.cron = cron.New()
	_, err := w.cron.AddFunc(w.spec, w.run)
	if err != nil {
		return err
	}
	w.cron.Start()
	log.Printf("reminder worker started (schedule %q)", w.spec)
	return nil
}

func (w *ReminderWorker) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	sent, err := w.service.SendDueReminders(ctx, time.Now())
	if err != nil {
		log.Printf("reminder run failed after %d sends: %v", sent, err)
		return
	}
	if sent > 0 {
		log.Printf("sent %d booking reminders", sent)
	}
}

// Stop halts the schedule and waits for an in-flight run to finish.
func (w *ReminderWorker) Stop() {
	if w.cron == nil {
		return
	}
	<-w.cron.Stop().Done()
}
