package mealprep

import (
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"
)

// Scheduler owns one session's in-memory working set of meal prep
// entries. All mutating calls are made from a single control flow per
// session, so the scheduler itself carries no locking; the registry
// that hands out sessions serializes access.
//
// Lookup misses on mutating operations return false rather than an
// error: the caller may race a concurrent delete through another
// session, and a vanished entry is not a fault.
type Scheduler struct {
	entries []*Entry
	colors  map[string]string
	mode    PrepMode
}

// Leftover is one upcoming not-yet-consumed portion annotated with its
// owning entry's identity, for calendar rendering.
type Leftover struct {
	ID            string   `json:"id"` // "<entryID>-<portionNumber>"
	EntryID       string   `json:"entry_id"`
	Name          string   `json:"name"`
	Date          string   `json:"date"`
	PortionNumber int      `json:"portion_number"`
	MealType      MealType `json:"meal_type"`
	Color         string   `json:"color"`
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		colors: make(map[string]string),
		mode:   PrepModeBalanced,
	}
}

// Entries returns the working set in insertion order.
func (s *Scheduler) Entries() []*Entry {
	return s.entries
}

// CreateEntry validates the input, builds the dated portion sequence and
// appends the entry to the working set. Nothing is mutated on a
// validation failure.
func (s *Scheduler) CreateEntry(in CreateEntryInput) (*Entry, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	mode := in.PrepMode
	if mode == "" {
		mode = PrepModeBalanced
	}

	entry := &Entry{
		ID:            uuid.NewString(),
		Name:          in.Name,
		MealType:      in.MealType,
		TotalPortions: in.TotalPortions,
		PrepDate:      in.PrepDate,
		Portions:      defaultPortions(in.PrepDate, in.TotalPortions),
		RecipeID:      in.RecipeID,
		NeedsPrep:     in.NeedsPrep,
		IsPrepared:    in.IsPrepared,
		PrepMode:      mode,
		Color:         s.ColorFor(in.Name),
	}

	s.entries = append(s.entries, entry)
	return entry, nil
}

// MarkConsumed sets the consumed flag on one portion. Marking an
// already-consumed portion again succeeds and changes nothing.
func (s *Scheduler) MarkConsumed(entryID string, portionNumber int) bool {
	entry := s.find(entryID)
	if entry == nil {
		return false
	}
	for i := range entry.Portions {
		if entry.Portions[i].PortionNumber == portionNumber {
			entry.Portions[i].Consumed = true
			return true
		}
	}
	return false
}

// UpdateServings regenerates the portion sequence for a new total.
// Consumed flags survive for portion numbers that existed before; dates
// are rebuilt from the prep date, so any customized portion dates are
// reset. That loss is deliberate and documented behavior.
func (s *Scheduler) UpdateServings(entryID string, servings int) (bool, error) {
	if servings < 1 {
		return false, fmt.Errorf("servings must be at least 1, got %d", servings)
	}
	entry := s.find(entryID)
	if entry == nil {
		return false, nil
	}

	previous := entry.Portions
	entry.TotalPortions = servings
	entry.Portions = defaultPortions(entry.PrepDate, servings)
	for i := range entry.Portions {
		for _, old := range previous {
			if old.PortionNumber == entry.Portions[i].PortionNumber {
				entry.Portions[i].Consumed = old.Consumed
				break
			}
		}
	}
	return true, nil
}

// DeleteEntry removes an entry by id.
func (s *Scheduler) DeleteEntry(entryID string) bool {
	for i, entry := range s.entries {
		if entry.ID == entryID {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}

// UpcomingLeftovers lists every unconsumed leftover portion dated today
// or later, as of the supplied date. Ordering is entry insertion order,
// then portion order; no global date sort is applied.
func (s *Scheduler) UpcomingLeftovers(today string) []Leftover {
	var leftovers []Leftover
	for _, entry := range s.entries {
		mealType := entry.MealType
		if mealType == "" {
			mealType = Dinner
		}
		for _, p := range entry.Portions {
			if IsLeftover(p.PortionNumber) && p.Date >= today && !p.Consumed {
				leftovers = append(leftovers, Leftover{
					ID:            fmt.Sprintf("%s-%d", entry.ID, p.PortionNumber),
					EntryID:       entry.ID,
					Name:          entry.Name,
					Date:          p.Date,
					PortionNumber: p.PortionNumber,
					MealType:      mealType,
					Color:         entry.Color,
				})
			}
		}
	}
	return leftovers
}

// TodaysPrepList returns the entries that still need prepping on the
// given date. A nil NeedsPrep or IsPrepared counts as pending: records
// created before those fields existed never set them.
func (s *Scheduler) TodaysPrepList(today string) []*Entry {
	var due []*Entry
	for _, entry := range s.entries {
		if entry.PrepDate != today {
			continue
		}
		if entry.NeedsPrep != nil && !*entry.NeedsPrep {
			continue
		}
		if entry.IsPrepared != nil && *entry.IsPrepared {
			continue
		}
		due = append(due, entry)
	}
	return due
}

// ColorFor returns the display color for a meal name, generating and
// caching one on first reference. Colors are stable per name for the
// lifetime of the working set; uniqueness across names is not promised.
func (s *Scheduler) ColorFor(name string) string {
	if color, ok := s.colors[name]; ok {
		return color
	}
	color := colorForName(name)
	s.colors[name] = color
	return color
}

// SetPrepMode changes the session-wide current mode. Existing entries
// keep whatever mode they were created with.
func (s *Scheduler) SetPrepMode(mode PrepMode) {
	s.mode = mode
}

func (s *Scheduler) PrepMode() PrepMode {
	return s.mode
}

// Replace swaps in a freshly loaded working set, dropping all local
// entries and cached colors. Used by bulk loads only.
func (s *Scheduler) Replace(entries []*Entry) {
	s.entries = entries
	s.colors = make(map[string]string)
	for _, entry := range s.entries {
		entry.Color = s.ColorFor(entry.Name)
	}
}

func (s *Scheduler) find(entryID string) *Entry {
	for _, entry := range s.entries {
		if entry.ID == entryID {
			return entry
		}
	}
	return nil
}

// colorForName hashes a meal name to an HSL color. Deterministic, so a
// name maps to the same color in every session.
func colorForName(name string) string {
	h := fnv.New32a()
	h.Write([]byte(name))
	hue := h.Sum32() % 360
	return fmt.Sprintf("hsl(%d, 70%%, 55%%)", hue)
}
