// Package store holds the authoritative in-memory state for the lifetime of
// the process: participants and appointments. Handlers run on their own
// goroutines, so every map operation takes the lock, the same way the
// connection registry does.
package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"legalserve/internal/model"
)

type Store struct {
	mu           sync.RWMutex
	participants map[string]*model.Participant
	appointments map[string]*model.Appointment
}

func New() *Store {
	return &Store{
		participants: make(map[string]*model.Participant),
		appointments: make(map[string]*model.Appointment),
	}
}

// PutParticipant registers a participant, last-write-wins on id collision.
// A missing id is generated. A missing name keeps the previously stored name
// if the participant exists, and defaults to "Unnamed" otherwise, so a
// re-registration without a name never erases one.
func (s *Store) PutParticipant(role model.Role, id, name string) *model.Participant {
	if id == "" {
		id = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		if prev, ok := s.participants[id]; ok {
			name = prev.Name
		} else {
			name = "Unnamed"
		}
	}
	p := &model.Participant{ID: id, Name: name, Role: role}
	s.participants[id] = p
	return p
}

func (s *Store) GetParticipant(id string) (*model.Participant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.participants[id]
	return p, ok
}

// CreateAppointment stores a new appointment in status pending. The
// professional and client ids are not checked against the participant set;
// they are trusted references, as in the rest of the system.
func (s *Store) CreateAppointment(professionalID, clientID string, t time.Time, meta map[string]any) (*model.Appointment, error) {
	if professionalID == "" {
		return nil, fmt.Errorf("%w: professionalId", ErrMissingField)
	}
	if clientID == "" {
		return nil, fmt.Errorf("%w: clientId", ErrMissingField)
	}
	if t.IsZero() {
		return nil, fmt.Errorf("%w: time", ErrMissingField)
	}

	appt := &model.Appointment{
		ID:             uuid.NewString(),
		ProfessionalID: professionalID,
		ClientID:       clientID,
		Time:           t,
		Status:         model.StatusPending,
		Meta:           make(map[string]any, len(meta)),
		CreatedAt:      time.Now().UTC(),
	}
	for k, v := range meta {
		appt.Meta[k] = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.appointments[appt.ID] = appt
	return appt.Clone(), nil
}

func (s *Store) GetAppointment(id string) (*model.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	appt, ok := s.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return appt.Clone(), nil
}

// ListAppointments returns appointments matching the given filters, oldest
// first. Empty filter values match everything.
func (s *Store) ListAppointments(professionalID, clientID string) []*model.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]*model.Appointment, 0, len(s.appointments))
	for _, appt := range s.appointments {
		if professionalID != "" && appt.ProfessionalID != professionalID {
			continue
		}
		if clientID != "" && appt.ClientID != clientID {
			continue
		}
		items = append(items, appt.Clone())
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items
}

// UpdateStatus applies the assigned professional's response. Transitions are
// deliberately unrestricted beyond the value set: any of the three response
// statuses may replace any current status.
func (s *Store) UpdateStatus(id, requesterID string, status model.Status, note string) (*model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appt, ok := s.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	if appt.ProfessionalID != requesterID {
		return nil, ErrNotProfessional
	}
	if !status.ValidResponse() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	appt.Status = status
	if note != "" {
		if appt.Meta == nil {
			appt.Meta = make(map[string]any, 1)
		}
		appt.Meta["note"] = note
	}
	return appt.Clone(), nil
}
