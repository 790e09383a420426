package stats

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedSlot is returned when a storage slot holds data that is not a
// valid statistics snapshot.
var ErrMalformedSlot = errors.New("stats: malformed saved data")

// ErrSavingDisabled is returned by Persist once saving has been disabled,
// either explicitly or because Restore could not read the slot.
var ErrSavingDisabled = errors.New("stats: saving disabled")

// Slot is durable key/value storage for serialized statistics.
type Slot interface {
	// Load returns the value under key; ok is false when the key is absent.
	Load(key string) (data []byte, ok bool, err error)
	// Save overwrites the value under key.
	Save(key string, data []byte) error
}

// Persist writes every player's stats to the tracker's slot as one JSON
// object keyed by player ID, overwriting the previous value.
func (t *Tracker) Persist() error {
	if t.slot == nil {
		return errors.New("stats: no storage slot configured")
	}

	t.mu.RLock()
	if t.noSave {
		t.mu.RUnlock()
		return ErrSavingDisabled
	}
	data, err := json.Marshal(t.players)
	count := len(t.players)
	t.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("stats: cannot encode stats: %w", err)
	}

	if err := t.slot.Save(t.cfg.SlotKey, data); err != nil {
		return fmt.Errorf("stats: cannot save slot %q: %w", t.cfg.SlotKey, err)
	}
	t.logger.Debug("stats persisted", "slot", t.cfg.SlotKey, "players", count, "bytes", len(data))
	return nil
}

// DisableSaving makes every later Persist return ErrSavingDisabled.
func (t *Tracker) DisableSaving() {
	t.mu.Lock()
	t.noSave = true
	t.mu.Unlock()
}

// Restore merges the players saved in the tracker's slot into memory,
// replacing in-memory records with the same ID. An absent slot leaves the
// tracker untouched. Malformed saved data is logged and treated as absent.
// When the slot cannot be read, saving is disabled so the stored players
// are not replaced by the in-memory ones.
// Returns the number of players restored.
func (t *Tracker) Restore() (int, error) {
	if t.slot == nil {
		return 0, errors.New("stats: no storage slot configured")
	}

	data, ok, err := t.slot.Load(t.cfg.SlotKey)
	if err != nil {
		t.DisableSaving()
		return 0, fmt.Errorf("stats: cannot load slot %q: %w", t.cfg.SlotKey, err)
	}
	if !ok {
		return 0, nil
	}

	saved, err := decodeSnapshot(data)
	if err != nil {
		t.logger.Warn("ignoring saved stats", "slot", t.cfg.SlotKey, "error", err)
		return 0, nil
	}

	t.mu.Lock()
	for id, s := range saved {
		if len(s.MovementHistory) > t.cfg.HistoryLimit {
			s.MovementHistory = s.MovementHistory[len(s.MovementHistory)-t.cfg.HistoryLimit:]
		}
		t.players[id] = s
	}
	t.mu.Unlock()

	t.logger.Info("stats restored", "slot", t.cfg.SlotKey, "players", len(saved))
	return len(saved), nil
}

// decodeSnapshot parses a saved JSON object of player ID to stats.
func decodeSnapshot(data []byte) (map[PlayerID]*PlayerStats, error) {
	var saved map[PlayerID]*PlayerStats
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSlot, err)
	}
	if saved == nil {
		return nil, fmt.Errorf("%w: not a JSON object", ErrMalformedSlot)
	}
	for id, s := range saved {
		if s == nil {
			return nil, fmt.Errorf("%w: player %q has no stats", ErrMalformedSlot, id)
		}
		s.normalize()
	}
	return saved, nil
}
