package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/dryfruit-backend/pkg/kvstore"
	"github.com/angelmondragon/dryfruit-backend/pkg/latency"
	"github.com/angelmondragon/dryfruit-backend/pkg/logger"
)

// StorageKey is the snapshot key of the roster.
const StorageKey = "delivery-personnel-storage"

// Service manages the delivery personnel roster.
type Service interface {
	List(ctx context.Context) ([]Person, error)
	ListAvailable(ctx context.Context) ([]Person, error)
	Get(ctx context.Context, id string) (Person, error)
	Add(ctx context.Context, input PersonInput) (Person, error)
	Update(ctx context.Context, id string, update PersonUpdate) (Person, error)
	Remove(ctx context.Context, id string) error
	ToggleAvailability(ctx context.Context, id string) (Person, error)
}

type service struct {
	doc     *kvstore.Doc[State]
	latency latency.Simulator
	logg    *logger.Logger
	now     func() time.Time
}

// NewService builds the roster service. The roster is seeded with the default
// riders until the first mutation is saved.
func NewService(store kvstore.Store, locker kvstore.Locker, sim latency.Simulator, logg *logger.Logger) (Service, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	doc, err := kvstore.NewDoc(store, locker, StorageKey, seedRoster)
	if err != nil {
		return nil, err
	}
	if sim == nil {
		sim = latency.None{}
	}
	return &service{doc: doc, latency: sim, logg: logg, now: time.Now}, nil
}

func (s *service) List(ctx context.Context) ([]Person, error) {
	state, err := s.doc.Get(ctx)
	if err != nil {
		return nil, err
	}
	if state.Personnel == nil {
		return []Person{}, nil
	}
	return state.Personnel, nil
}

func (s *service) ListAvailable(ctx context.Context) ([]Person, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return Available(all), nil
}

func (s *service) Get(ctx context.Context, id string) (Person, error) {
	state, err := s.doc.Get(ctx)
	if err != nil {
		return Person{}, err
	}
	idx := find(state, id)
	if idx < 0 {
		return Person{}, personNotFound(id)
	}
	return state.Personnel[idx], nil
}

func (s *service) Add(ctx context.Context, input PersonInput) (Person, error) {
	if err := s.latency.Wait(ctx, latency.OpDeliveryMutate); err != nil {
		return Person{}, err
	}
	var added Person
	_, err := s.doc.Update(ctx, func(state State) (State, error) {
		next, person := ApplyAdd(state, input, s.now())
		added = person
		return next, nil
	})
	if err != nil {
		return Person{}, err
	}
	s.logg.Info(s.logg.WithField(ctx, "person_id", added.ID), "delivery person added")
	return added, nil
}

func (s *service) Update(ctx context.Context, id string, update PersonUpdate) (Person, error) {
	if err := s.latency.Wait(ctx, latency.OpDeliveryMutate); err != nil {
		return Person{}, err
	}
	var updated Person
	_, err := s.doc.Update(ctx, func(state State) (State, error) {
		next, person, err := ApplyUpdate(state, id, update)
		if err != nil {
			return state, err
		}
		updated = person
		return next, nil
	})
	if err != nil {
		return Person{}, err
	}
	return updated, nil
}

func (s *service) Remove(ctx context.Context, id string) error {
	if err := s.latency.Wait(ctx, latency.OpDeliveryMutate); err != nil {
		return err
	}
	_, err := s.doc.Update(ctx, func(state State) (State, error) {
		return ApplyRemove(state, id), nil
	})
	if err != nil {
		return err
	}
	s.logg.Info(s.logg.WithField(ctx, "person_id", id), "delivery person removed")
	return nil
}

func (s *service) ToggleAvailability(ctx context.Context, id string) (Person, error) {
	if err := s.latency.Wait(ctx, latency.OpDeliveryMutate); err != nil {
		return Person{}, err
	}
	var toggled Person
	_, err := s.doc.Update(ctx, func(state State) (State, error) {
		next, person, err := ApplyToggle(state, id)
		if err != nil {
			return state, err
		}
		toggled = person
		return next, nil
	})
	if err != nil {
		return Person{}, err
	}
	return toggled, nil
}
