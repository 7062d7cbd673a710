package hub

import (
	"sync/atomic"
	"time"

	"github.com/mationai/spe/internal/telemetry"
	"github.com/mationai/spe/internal/world"
)

const (
	metricKeyBroadcastTotal = "hub_broadcast_total"
	metricKeyBroadcastBytes = "hub_broadcast_bytes"
	metricKeyContactsTotal  = "world_contacts_total"
	metricKeyPairsChecked   = "world_pairs_checked_total"
	metricKeyInvariantTotal = "world_invariant_violations_total"
	metricKeySubscribers    = "hub_subscribers"
)

type telemetryCounters struct {
	bytesSent          atomic.Uint64
	messagesSent       atomic.Uint64
	contacts           atomic.Uint64
	pairsChecked       atomic.Uint64
	lastContacts       atomic.Uint64
	tickDurationMillis atomic.Int64
	overruns           atomic.Uint64
	metrics            telemetry.Metrics
}

type telemetrySnapshot struct {
	BytesSent          uint64 `json:"bytesSent"`
	MessagesSent       uint64 `json:"messagesSent"`
	ContactsTotal      uint64 `json:"contactsTotal"`
	PairsCheckedTotal  uint64 `json:"pairsCheckedTotal"`
	LastTickContacts   uint64 `json:"lastTickContacts"`
	TickDurationMillis int64  `json:"tickDurationMillis"`
	TickOverruns       uint64 `json:"tickOverruns"`
}

func newTelemetryCounters(metrics telemetry.Metrics) *telemetryCounters {
	if metrics == nil {
		metrics = telemetry.NopMetrics()
	}
	return &telemetryCounters{metrics: metrics}
}

func (t *telemetryCounters) RecordBroadcast(bytes, recipients int) {
	if bytes < 0 || recipients <= 0 {
		return
	}
	total := uint64(bytes) * uint64(recipients)
	t.bytesSent.Add(total)
	t.messagesSent.Add(uint64(recipients))
	t.metrics.Add(metricKeyBroadcastTotal, 1)
	t.metrics.Add(metricKeyBroadcastBytes, total)
}

func (t *telemetryCounters) RecordStep(report world.TickReport, err error) {
	contacts := uint64(len(report.Contacts))
	t.contacts.Add(contacts)
	t.lastContacts.Store(contacts)
	t.pairsChecked.Add(uint64(report.Checked))
	t.metrics.Add(metricKeyContactsTotal, contacts)
	t.metrics.Add(metricKeyPairsChecked, uint64(report.Checked))
	if err != nil {
		t.metrics.Add(metricKeyInvariantTotal, 1)
	}
}

func (t *telemetryCounters) RecordTickDuration(duration time.Duration, overrun bool) {
	millis := duration.Milliseconds()
	if millis < 0 {
		millis = 0
	}
	t.tickDurationMillis.Store(millis)
	if overrun {
		t.overruns.Add(1)
	}
}

func (t *telemetryCounters) RecordSubscribers(count int) {
	t.metrics.Store(metricKeySubscribers, uint64(count))
}

func (t *telemetryCounters) Snapshot() telemetrySnapshot {
	return telemetrySnapshot{
		BytesSent:          t.bytesSent.Load(),
		MessagesSent:       t.messagesSent.Load(),
		ContactsTotal:      t.contacts.Load(),
		PairsCheckedTotal:  t.pairsChecked.Load(),
		LastTickContacts:   t.lastContacts.Load(),
		TickDurationMillis: t.tickDurationMillis.Load(),
		TickOverruns:       t.overruns.Load(),
	}
}
