package wizard

import (
	"encoding/json"

	"github.com/cespare/xxhash/v2"

	"github.com/erguvanco/ecm-mrv-sub003/internal/logging"
)

var logger = logging.New("wizard")

// Store is the narrow key-value port the engine persists snapshots through.
// Implementations live in internal/store; tests inject an in-memory fake.
// Get reports ok=false for a missing key; a missing or unparseable value is
// treated as "no snapshot" by the engine.
type Store interface {
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// snapshot is the persisted {position, data} pair used to resume an
// interrupted flow. There is no schema versioning: resumability assumes step
// IDs stay stable across releases, which is a documented limitation.
type snapshot struct {
	CurrentStepIndex int            `json:"current_step_index"`
	Data             map[string]any `json:"data"`
}

// State owns a wizard session: the step list, current position, accumulated
// form data, and best-effort persistence. It exposes primitive mutations
// only; navigation guards and action verbs live on Controller.
//
// A State is exclusively owned by the single screen that created it, so no
// locking discipline applies.
type State struct {
	steps        []Step
	currentIndex int
	data         map[string]any
	initialized  bool

	store      Store
	storageKey string

	// Fingerprint of the last snapshot successfully written, so repeated
	// mutations that produce identical bytes skip the write.
	lastWriteSum uint64
	hasLastWrite bool

	// Pristine copies restored by Reset.
	initialSteps []Step
	initialData  map[string]any
}

// StateOption configures a State at construction time.
type StateOption func(*State)

// WithStorage attaches a snapshot store and the key the session persists
// under. Without it the session is purely in-memory and a reload restarts
// the flow from scratch.
func WithStorage(store Store, key string) StateOption {
	return func(s *State) {
		s.store = store
		s.storageKey = key
	}
}

// WithInitialData seeds the data bag with pre-filled fields (defaults,
// values carried over from another record). A persisted snapshot, when one
// exists, overrides this seed on Initialize.
func WithInitialData(data map[string]any) StateOption {
	return func(s *State) {
		s.initialData = cloneData(data)
	}
}

// NewState creates a wizard session over the given ordered step list. It
// panics if the list is empty or contains duplicate or empty step IDs;
// these are programming errors in the flow definition.
//
// The returned State is not yet initialized: call Initialize before reading
// position or data so a persisted snapshot, if any, is rehydrated first.
func NewState(steps []Step, opts ...StateOption) *State {
	validateSteps(steps)

	s := &State{
		initialSteps: cloneSteps(steps),
		initialData:  map[string]any{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.steps = cloneSteps(s.initialSteps)
	s.data = cloneData(s.initialData)
	return s
}

// Initialize loads the persisted snapshot, if a store and key are attached
// and one exists, overriding the seeded data and starting position. A
// missing, unreadable, or unparseable snapshot is treated as "no snapshot":
// the flow simply starts from its defaults. Initialize is idempotent; the
// first call marks the session initialized and enables persistence writes.
func (s *State) Initialize() {
	if s.initialized {
		return
	}
	defer func() { s.initialized = true }()

	if s.store == nil || s.storageKey == "" {
		return
	}

	value, ok, err := s.store.Get(s.storageKey)
	if err != nil {
		logger.Debug("snapshot read failed, starting fresh", "key", s.storageKey, "error", err)
		return
	}
	if !ok {
		return
	}

	var snap snapshot
	if err := json.Unmarshal(value, &snap); err != nil {
		// Persistence corruption is not fatal: discard and restart the flow.
		logger.Debug("snapshot unparseable, starting fresh", "key", s.storageKey, "error", err)
		return
	}

	s.currentIndex = clampIndex(snap.CurrentStepIndex, len(s.steps))
	if snap.Data != nil {
		s.data = snap.Data
	}
}

// Initialized reports whether Initialize has completed. Hosts must not
// render step content before this is true, to avoid a flash of default
// state being persisted over a not-yet-loaded snapshot.
func (s *State) Initialized() bool { return s.initialized }

// Steps returns a copy of the current step list.
func (s *State) Steps() []Step { return cloneSteps(s.steps) }

// StepCount returns the number of steps in the current list.
func (s *State) StepCount() int { return len(s.steps) }

// CurrentStepIndex returns the current position.
func (s *State) CurrentStepIndex() int { return s.currentIndex }

// Data returns a shallow copy of the accumulated data bag: the union of all
// fields captured across every step visited so far. Mutate it only through
// UpdateData so merges persist.
func (s *State) Data() map[string]any { return cloneData(s.data) }

// UpdateData shallow-merges partial into the data bag: new keys are added,
// existing keys overwritten, absent keys untouched. Navigation never removes
// keys. The merged snapshot is persisted when the session is initialized and
// a store is attached.
func (s *State) UpdateData(partial map[string]any) {
	for k, v := range partial {
		s.data[k] = v
	}
	s.persist()
}

// SetCurrentStepIndex sets the position directly. No bounds validation is
// imposed here: bounds discipline belongs to the Controller, which clamps
// all jumps. The new position is persisted.
func (s *State) SetCurrentStepIndex(i int) {
	s.currentIndex = i
	s.persist()
}

// UpdateSteps replaces the step list wholesale, supporting flows that
// insert or remove steps based on earlier answers. When the new list is
// shorter than the current position the position is clamped to the last
// index, keeping the in-bounds invariant. Panics on an empty or duplicate
// list, like NewState.
func (s *State) UpdateSteps(steps []Step) {
	validateSteps(steps)
	s.steps = cloneSteps(steps)
	s.currentIndex = clampIndex(s.currentIndex, len(s.steps))
}

// SetStepValid records the validity reported by the step's form code into
// the matching step descriptor. Validity is transient UI state and is never
// persisted; a resumed session starts with every step invalid again.
// Unknown IDs are ignored.
func (s *State) SetStepValid(id string, valid bool) {
	for i := range s.steps {
		if s.steps[i].ID == id {
			s.steps[i].Valid = valid
			return
		}
	}
}

// Reset restores the session to its construction-time state: position 0,
// the seeded data bag, the original step list. The persisted snapshot is
// deleted so a later session starts fresh.
func (s *State) Reset() {
	s.currentIndex = 0
	s.data = cloneData(s.initialData)
	s.steps = cloneSteps(s.initialSteps)
	s.hasLastWrite = false

	if s.store == nil || s.storageKey == "" {
		return
	}
	if err := s.store.Delete(s.storageKey); err != nil {
		logger.Debug("snapshot delete failed", "key", s.storageKey, "error", err)
	}
}

// persist writes the {position, data} snapshot. Writes are best-effort:
// failures degrade resumability but never corrupt the in-memory session, so
// they are swallowed after a debug log. Nothing is written before
// Initialize completes, to avoid clobbering an unloaded snapshot with
// defaults.
func (s *State) persist() {
	if !s.initialized || s.store == nil || s.storageKey == "" {
		return
	}

	value, err := json.Marshal(snapshot{
		CurrentStepIndex: s.currentIndex,
		Data:             s.data,
	})
	if err != nil {
		logger.Debug("snapshot marshal failed", "key", s.storageKey, "error", err)
		return
	}

	sum := xxhash.Sum64(value)
	if s.hasLastWrite && sum == s.lastWriteSum {
		return
	}

	if err := s.store.Set(s.storageKey, value); err != nil {
		logger.Debug("snapshot write failed", "key", s.storageKey, "error", err)
		return
	}
	s.lastWriteSum = sum
	s.hasLastWrite = true
}

// clampIndex confines i to [0, length-1]. length must be >= 1, which the
// step-list invariants guarantee.
func clampIndex(i, length int) int {
	if i < 0 {
		return 0
	}
	if i > length-1 {
		return length - 1
	}
	return i
}
