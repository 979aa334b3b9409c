package runner

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

// SaveSlots is the number of save state slots.
const SaveSlots = 4

var (
	ErrInvalidSlot = errors.New("invalid save slot")
	ErrEmptySlot   = errors.New("empty save slot")
)

// Save stores a snapshot of the machine in the slot, replacing any previous
// snapshot.
func (r *Runner) Save(slot int) error {
	if err := checkSlot(slot); err != nil {
		return err
	}

	snapshot := r.machine.Snapshot()
	r.slots[slot] = &snapshot
	r.logger.Debug("Saved state",
		log.Int("slot", slot),
		log.Int("frame", r.frame),
		log.Hex("pc", snapshot.PC()))
	return nil
}

// Load restores the machine from the snapshot in the slot. The slot keeps
// its snapshot and can be loaded again.
func (r *Runner) Load(slot int) error {
	if err := checkSlot(slot); err != nil {
		return err
	}

	snapshot := r.slots[slot]
	if snapshot == nil {
		return fmt.Errorf("%w: %d", ErrEmptySlot, slot)
	}

	r.machine.Restore(*snapshot)
	r.logger.Debug("Restored state",
		log.Int("slot", slot),
		log.Int("frame", r.frame),
		log.Hex("pc", snapshot.PC()))
	return nil
}

func checkSlot(slot int) error {
	if slot < 0 || slot >= SaveSlots {
		return fmt.Errorf("%w: %d, valid slots are 0-%d", ErrInvalidSlot, slot, SaveSlots-1)
	}
	return nil
}
