package coordinator

import (
	"fmt"

	"github.com/0x6flab/namegenerator"
)

// record pairs a table entry with the sender owned by its connection
// handler.
type record struct {
	Participant
	sender Sender
}

// registry is the registration table. It is not self-locking: every
// method must run under the coordination lock held by the service.
type registry struct {
	participants map[string]*record
	order        []string
	names        namegenerator.NameGenerator
}

func newRegistry() *registry {
	return &registry{
		participants: make(map[string]*record),
		names:        namegenerator.NewGenerator(),
	}
}

// assignID returns the participant's hint when it is free, otherwise a
// generated name, suffixed until unique.
func (r *registry) assignID(hint string) string {
	id := hint
	if id == "" {
		id = r.names.Generate()
	}
	if _, taken := r.participants[id]; !taken {
		return id
	}

	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", id, i)
		if _, taken := r.participants[candidate]; !taken {
			return candidate
		}
	}
}

func (r *registry) add(p Participant, sender Sender) {
	r.participants[p.ID] = &record{Participant: p, sender: sender}
	r.order = append(r.order, p.ID)
}

func (r *registry) get(id string) (*record, bool) {
	rec, ok := r.participants[id]

	return rec, ok
}

func (r *registry) remove(id string) bool {
	if _, ok := r.participants[id]; !ok {
		return false
	}

	delete(r.participants, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)

			break
		}
	}

	return true
}

func (r *registry) size() int {
	return len(r.participants)
}

// snapshot returns registered participants in registration order.
func (r *registry) snapshot() []Participant {
	out := make([]Participant, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.participants[id].Participant)
	}

	return out
}

type target struct {
	id     string
	sender Sender
}

// targets returns each registered participant's sender for broadcasting.
func (r *registry) targets() []target {
	out := make([]target, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, target{id: id, sender: r.participants[id].sender})
	}

	return out
}
