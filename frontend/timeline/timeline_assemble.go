package timeline

import (
	"fmt"
	"sort"
	"time"

	"proptrack/lineage"
	"proptrack/models"
)

// Span is one bar on the Gantt rendering: either a one-day marker for
// a real event or a passive-time interval between events.
type Span struct {
	Kind  string // "marker" or "passive"
	Stage string
	Label string
	Start string
	End   string
	Days  int64
}

const (
	KindMarker  = "marker"
	KindPassive = "passive"
)

// Event is one line of the flat audit trail. Dates are rendered as
// stored, with no gap filling.
type Event struct {
	Date  string
	Stage string
	Label string
}

// Input is the full record set for one batch. Today anchors the
// open-ended passive tail for batches with no transfers yet.
type Input struct {
	Order         *models.Order
	Batch         models.Batch
	Contamination []models.ContaminationRecord
	Transfers     []models.TransferRecord
	Rooting       []models.RootingRecord
	Deliveries    []models.DeliveryRecord
	Today         string
}

// Same-date events always emit in this fixed stage order, regardless
// of insertion order.
const (
	stageOrderReceived = iota
	stageInitiation
	stageContamination
	stageTransfer
	stageRootingPlaced
	stageRootingDone
	stageDelivery
	stageCompleted
)

var stageNames = map[int]string{
	stageOrderReceived: "Order",
	stageInitiation:    "Initiation",
	stageContamination: "Contamination",
	stageTransfer:      "Transfer",
	stageRootingPlaced: "Rooting",
	stageRootingDone:   "Rooting",
	stageDelivery:      "Delivery",
	stageCompleted:     "Completed",
}

type rawEvent struct {
	date  time.Time
	stage int
	id    int64
	label string
}

// AssembleGantt turns a batch's history into an ordered span sequence:
// one-day markers for events, passive-time intervals for the gaps
// between them. Deterministic for a given input.
func AssembleGantt(in Input) []Span {
	events := collect(in, false)
	spans := make([]Span, 0, 2*len(events))

	var prevEnd time.Time
	for i, ev := range events {
		end := ev.date.AddDate(0, 0, 1)
		if i > 0 && ev.date.After(prevEnd) {
			spans = append(spans, passiveSpan(prevEnd, ev.date))
		}
		spans = append(spans, Span{
			Kind:  KindMarker,
			Stage: stageNames[ev.stage],
			Label: ev.label,
			Start: ev.date.Format(models.DateLayout),
			End:   end.Format(models.DateLayout),
			Days:  1,
		})
		prevEnd = end
	}

	// A batch with no transfers is still sitting in passive time from
	// the day after initiation until now.
	if len(in.Transfers) == 0 {
		if initDate, err := time.Parse(models.DateLayout, in.Batch.InitiationDate); err == nil {
			if today, err := time.Parse(models.DateLayout, in.Today); err == nil {
				start := initDate.AddDate(0, 0, 1)
				if today.After(start) {
					spans = append(spans, passiveSpan(start, today))
				}
			}
		}
	}
	return spans
}

// AssembleAudit returns every event, contamination included, sorted by
// date ascending with no normalization.
func AssembleAudit(in Input) []Event {
	events := collect(in, true)
	out := make([]Event, 0, len(events))
	for _, ev := range events {
		out = append(out, Event{
			Date:  ev.date.Format(models.DateLayout),
			Stage: stageNames[ev.stage],
			Label: ev.label,
		})
	}
	return out
}

func collect(in Input, withContamination bool) []rawEvent {
	events := make([]rawEvent, 0)
	add := func(dateStr string, stage int, id int64, label string) {
		d, err := time.Parse(models.DateLayout, dateStr)
		if err != nil {
			return
		}
		events = append(events, rawEvent{date: d, stage: stage, id: id, label: label})
	}

	if in.Order != nil {
		add(in.Order.OrderDate, stageOrderReceived, in.Order.ID, "Order received")
	}
	add(in.Batch.InitiationDate, stageInitiation, in.Batch.ID,
		fmt.Sprintf("Explant initiation (%d explants)", in.Batch.NumExplants))

	if withContamination {
		for _, rec := range in.Contamination {
			c := lineage.NormalizeContamination(rec)
			add(rec.IdentificationDate, stageContamination, rec.ID,
				fmt.Sprintf("Contamination (%s): %d lost, %d affected", rec.ContaminationType, c.Lost, c.Affected))
		}
	}
	for _, tr := range in.Transfers {
		label := fmt.Sprintf("Transfer #%d to %s (%d in, %d out)", tr.ID, tr.NewMedia, tr.ExplantsIn, tr.ExplantsOut)
		if tr.MultiplicationOccurred {
			label += ", multiplied"
		}
		add(tr.TransferDate, stageTransfer, tr.ID, label)
	}
	for _, rr := range in.Rooting {
		add(rr.PlacementDate, stageRootingPlaced, rr.ID,
			fmt.Sprintf("Rooting: %d placed", rr.NumPlaced))
		if rr.NumRooted != nil && rr.RootingDate != nil {
			add(*rr.RootingDate, stageRootingDone, rr.ID,
				fmt.Sprintf("Rooting complete: %d rooted", *rr.NumRooted))
		}
	}
	for _, dr := range in.Deliveries {
		add(dr.DeliveryDate, stageDelivery, dr.ID,
			fmt.Sprintf("Delivered %d plants", dr.NumDelivered))
	}
	if in.Order != nil && in.Order.Completed && in.Order.CompletionDate != nil {
		add(*in.Order.CompletionDate, stageCompleted, in.Order.ID, "Order completed")
	}

	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].date.Equal(events[j].date) {
			return events[i].date.Before(events[j].date)
		}
		if events[i].stage != events[j].stage {
			return events[i].stage < events[j].stage
		}
		return events[i].id < events[j].id
	})
	return events
}

func passiveSpan(start, end time.Time) Span {
	days := int64(end.Sub(start) / (24 * time.Hour))
	return Span{
		Kind:  KindPassive,
		Stage: "Passive",
		Label: fmt.Sprintf("Passive time (%d %s)", days, plural(days, "day")),
		Start: start.Format(models.DateLayout),
		End:   end.Format(models.DateLayout),
		Days:  days,
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}

// Summary condenses a batch's spans for the per-cultivar header line.
type Summary struct {
	TotalDays    int64
	SpanCount    int
	CurrentStage string
}

func Summarize(spans []Span) Summary {
	s := Summary{SpanCount: len(spans)}
	for _, span := range spans {
		s.TotalDays += span.Days
	}
	for i := len(spans) - 1; i >= 0; i-- {
		if spans[i].Kind == KindMarker {
			s.CurrentStage = spans[i].Stage
			break
		}
	}
	if s.CurrentStage == "" && len(spans) > 0 {
		s.CurrentStage = "Passive"
	}
	return s
}
