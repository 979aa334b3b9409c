package runner

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/retroenv/retrochip8/internal/machine"
)

// ErrInvalidKeyScript is returned for malformed key script entries.
var ErrInvalidKeyScript = errors.New("invalid key script")

// Action selects what a script event does.
type Action uint8

// Script event actions.
const (
	KeyAction    Action = iota // press or release Key
	SaveAction                 // save the machine state into Slot
	LoadAction                 // restore the machine state from Slot
	PauseAction                // pause execution
	ResumeAction               // resume execution
)

// KeyEvent is a scripted event applied at the start of a frame. It presses or
// releases a keypad key, or for other actions saves, loads, pauses or resumes
// the machine.
type KeyEvent struct {
	Frame   int
	Action  Action
	Key     uint8
	Pressed bool
	Slot    int
}

// ParseKeyScript parses a comma separated list of script events. An entry is
// frame:key:down or frame:key:up with the key being a hex digit,
// frame:save:slot, frame:load:slot, frame:pause or frame:resume. The returned
// events are ordered by frame, events of the same frame keep their order.
func ParseKeyScript(script string) ([]KeyEvent, error) {
	script = strings.TrimSpace(script)
	if script == "" {
		return nil, nil
	}

	entries := strings.Split(script, ",")
	events := make([]KeyEvent, 0, len(entries))
	for _, entry := range entries {
		event, err := parseKeyEvent(strings.TrimSpace(entry))
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	slices.SortStableFunc(events, func(a, b KeyEvent) int {
		return cmp.Compare(a.Frame, b.Frame)
	})
	return events, nil
}

func parseKeyEvent(entry string) (KeyEvent, error) {
	parts := strings.Split(entry, ":")
	if len(parts) < 2 {
		return KeyEvent{}, fmt.Errorf("%w: entry '%s' is missing a frame or action", ErrInvalidKeyScript, entry)
	}

	frame, err := strconv.Atoi(parts[0])
	if err != nil || frame < 0 {
		return KeyEvent{}, fmt.Errorf("%w: invalid frame '%s'", ErrInvalidKeyScript, parts[0])
	}
	event := KeyEvent{Frame: frame}

	switch action := strings.ToLower(parts[1]); action {
	case "pause", "resume":
		if len(parts) != 2 {
			return KeyEvent{}, fmt.Errorf("%w: entry '%s' is not in frame:%s format", ErrInvalidKeyScript, entry, action)
		}
		event.Action = PauseAction
		if action == "resume" {
			event.Action = ResumeAction
		}
		return event, nil

	case "save", "load":
		if len(parts) != 3 {
			return KeyEvent{}, fmt.Errorf("%w: entry '%s' is not in frame:%s:slot format", ErrInvalidKeyScript, entry, action)
		}
		slot, err := strconv.Atoi(parts[2])
		if err != nil || checkSlot(slot) != nil {
			return KeyEvent{}, fmt.Errorf("%w: invalid slot '%s'", ErrInvalidKeyScript, parts[2])
		}
		event.Action = SaveAction
		if action == "load" {
			event.Action = LoadAction
		}
		event.Slot = slot
		return event, nil
	}

	if len(parts) != 3 {
		return KeyEvent{}, fmt.Errorf("%w: entry '%s' is not in frame:key:state format", ErrInvalidKeyScript, entry)
	}

	key, err := strconv.ParseUint(parts[1], 16, 8)
	if err != nil || key >= machine.KeyCount {
		return KeyEvent{}, fmt.Errorf("%w: invalid key '%s'", ErrInvalidKeyScript, parts[1])
	}
	event.Key = uint8(key)

	switch strings.ToLower(parts[2]) {
	case "down":
		event.Pressed = true
	case "up":
	default:
		return KeyEvent{}, fmt.Errorf("%w: invalid key state '%s'", ErrInvalidKeyScript, parts[2])
	}
	return event, nil
}

// keyQueue hands out key events in frame order.
type keyQueue struct {
	events []KeyEvent
	next   int
}

func newKeyQueue(events []KeyEvent) *keyQueue {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b KeyEvent) int {
		return cmp.Compare(a.Frame, b.Frame)
	})
	return &keyQueue{events: sorted}
}

// due returns all not yet returned events up to and including the frame.
func (q *keyQueue) due(frame int) []KeyEvent {
	start := q.next
	for q.next < len(q.events) && q.events[q.next].Frame <= frame {
		q.next++
	}
	return q.events[start:q.next]
}
