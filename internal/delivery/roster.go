package delivery

import (
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/dryfruit-backend/pkg/errors"
	"github.com/angelmondragon/dryfruit-backend/pkg/ids"
)

// ApplyAdd appends a rider with an id derived from now. New riders are
// available unless the input says otherwise.
func ApplyAdd(state State, in PersonInput, now time.Time) (State, Person) {
	available := true
	if in.IsAvailable != nil {
		available = *in.IsAvailable
	}
	person := Person{
		ID:          ids.Millis("", now, func(id string) bool { return find(state, id) >= 0 }),
		Name:        strings.TrimSpace(in.Name),
		Phone:       strings.TrimSpace(in.Phone),
		Image:       strings.TrimSpace(in.Image),
		IsAvailable: available,
	}
	next := clonePersonnel(state.Personnel)
	return State{Personnel: append(next, person)}, person
}

// ApplyUpdate merges the non-nil fields of update into the rider.
func ApplyUpdate(state State, id string, update PersonUpdate) (State, Person, error) {
	idx := find(state, id)
	if idx < 0 {
		return state, Person{}, personNotFound(id)
	}
	next := clonePersonnel(state.Personnel)
	person := next[idx]
	if update.Name != nil {
		person.Name = strings.TrimSpace(*update.Name)
	}
	if update.Phone != nil {
		person.Phone = strings.TrimSpace(*update.Phone)
	}
	if update.Image != nil {
		person.Image = strings.TrimSpace(*update.Image)
	}
	if update.IsAvailable != nil {
		person.IsAvailable = *update.IsAvailable
	}
	next[idx] = person
	return State{Personnel: next}, person, nil
}

// ApplyRemove drops the rider. Unknown ids are ignored.
func ApplyRemove(state State, id string) State {
	next := make([]Person, 0, len(state.Personnel))
	for _, person := range state.Personnel {
		if person.ID != id {
			next = append(next, person)
		}
	}
	return State{Personnel: next}
}

// ApplyToggle flips the rider's availability.
func ApplyToggle(state State, id string) (State, Person, error) {
	idx := find(state, id)
	if idx < 0 {
		return state, Person{}, personNotFound(id)
	}
	next := clonePersonnel(state.Personnel)
	next[idx].IsAvailable = !next[idx].IsAvailable
	return State{Personnel: next}, next[idx], nil
}

// Available filters the riders that can take an order.
func Available(personnel []Person) []Person {
	out := make([]Person, 0, len(personnel))
	for _, person := range personnel {
		if person.IsAvailable {
			out = append(out, person)
		}
	}
	return out
}

func find(state State, id string) int {
	for i, person := range state.Personnel {
		if person.ID == id {
			return i
		}
	}
	return -1
}

func clonePersonnel(personnel []Person) []Person {
	out := make([]Person, len(personnel))
	copy(out, personnel)
	return out
}

func personNotFound(id string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "delivery person not found").WithDetails(map[string]any{"personId": id})
}
