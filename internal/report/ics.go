package report

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/tartampluch/go-celebrations/internal/config"
	"github.com/tartampluch/go-celebrations/internal/engine"
)

// FeedLabeler localizes the event titles of the calendar feed.
type FeedLabeler interface {
	TypeLabel(engine.EventType) string
	Summary(t engine.EventType, name string, milestone int) string
}

// Calendar builds the iCalendar feed of birthdays and work anniversaries.
type Calendar struct {
	// Name is the X-WR-CALNAME; empty means config.ICalCalName.
	Name string
	// Reminder is an ISO8601 duration trigger (e.g. "-P1D"); empty disables alarms.
	Reminder string
	Labels   FeedLabeler
}

// Feed is a generated calendar and its counters.
type Feed struct {
	Data      []byte
	Events    int
	Today     int
	Skipped   int
	Generated time.Time
}

// Generate renders events for the previous, current and next year around now.
// Records with malformed dates are logged and skipped.
func (c Calendar) Generate(ctx context.Context, employees []engine.Employee, now time.Time) (Feed, error) {
	start := time.Now()

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, c.name())
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	feed := Feed{Generated: now}
	var invalid []error
	for _, e := range employees {
		if err := ctx.Err(); err != nil {
			return Feed{}, err
		}
		for _, et := range []engine.EventType{engine.EventBirthday, engine.EventAnniversary} {
			from, err := e.Date(et.Field())
			if err != nil {
				invalid = append(invalid, err)
				continue
			}

			events, isToday := c.createEvents(e, et, from, now)
			if isToday {
				feed.Today++
				slog.Info(config.MsgCelebrationDay,
					config.LogKeyComponent, config.CompReport,
					config.LogKeyName, e.Name,
					config.LogKeyType, string(et),
				)
			}
			for _, ev := range events {
				ev.Props.Set(dtStampProp)
				cal.Children = append(cal.Children, ev.Component)
			}
			feed.Events += len(events)
		}
	}
	for _, err := range invalid {
		feed.Skipped += engine.LogSkipped(err)
	}

	if len(cal.Children) == 0 {
		feed.Data = []byte(config.StubVCalendar)
		c.logSuccess(feed, start)
		return feed, nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return Feed{}, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	feed.Data = buf.Bytes()
	c.logSuccess(feed, start)
	return feed, nil
}

func (c Calendar) name() string {
	if c.Name != "" {
		return c.Name
	}
	return config.ICalCalName
}

func (c Calendar) summary(et engine.EventType, name string, milestone int) string {
	if c.Labels != nil {
		return c.Labels.Summary(et, name, milestone)
	}
	if et == engine.EventAnniversary {
		return fmt.Sprintf(config.FallbackSummaryAnniv, name, milestone)
	}
	return fmt.Sprintf(config.FallbackSummaryBirthday, name, milestone)
}

func (c Calendar) category(et engine.EventType) string {
	if c.Labels != nil {
		return c.Labels.TypeLabel(et)
	}
	return defaultTypeLabel(et)
}

// createEvents emits one all-day event per year in [now-1, now+1], skipping
// years before the first celebration.
func (c Calendar) createEvents(e engine.Employee, et engine.EventType, from, now time.Time) ([]*ical.Event, bool) {
	currentYear := now.Year()
	key := engine.KeyOf(from)
	uidBase := StableUID(e.ID, et)

	var events []*ical.Event
	isToday := false
	for _, y := range []int{currentYear - 1, currentYear, currentYear + 1} {
		milestone := y - from.Year()
		if milestone < 1 {
			continue
		}

		eventDate := key.In(y, time.UTC)
		if y == currentYear && engine.IsSameDayOfYear(now, from) {
			isToday = true
		}

		summary := c.summary(et, e.Name, milestone)
		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, uidBase, y, config.ICalDomain))
		event.Props.SetText(config.PropSummary, summary)
		event.Props.SetText(config.ICalCategory, c.category(et))

		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(eventDate)
		event.Props.Set(dtStartProp)

		if c.Reminder != "" {
			addAlarm(event, c.Reminder, summary)
		}
		events = append(events, event)
	}
	return events, isToday
}

// StableUID derives a name-based UUID so event UIDs survive refreshes and renames.
func StableUID(employeeID string, et engine.EventType) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(config.AppID+"/"+employeeID+"/"+string(et))).String()
}

// addAlarm appends a DISPLAY alarm to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Raw value avoids a VALUE=TEXT parameter on TRIGGER.
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}

func (c Calendar) logSuccess(feed Feed, start time.Time) {
	slog.Info(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompReport,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyEvents, feed.Events),
			slog.Int(config.LogKeyToday, feed.Today),
			slog.Int(config.LogKeySkipped, feed.Skipped),
		),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
}
