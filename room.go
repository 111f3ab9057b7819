package main

import (
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// room is a named broadcast domain. Its only state is who is in it; the
// shared text itself is never kept here, only passed along.
type room struct {
	id      string
	members map[*connection]struct{}
}

func newRoom(id string) *room {
	return &room{
		id:      id,
		members: make(map[*connection]struct{}),
	}
}

// rooms is the registry. It is owned by the hub goroutine and must not be
// touched from anywhere else.
type rooms map[string]*room

// ensure returns the room for id, creating it first if absent.
func (rs rooms) ensure(id string) (r *room, created bool) {
	if r, ok := rs[id]; ok {
		return r, false
	}
	r = newRoom(id)
	rs[id] = r
	return r, true
}

// add puts c into room id. Adding a member twice has no effect.
func (rs rooms) add(id string, c *connection) (created bool) {
	r, created := rs.ensure(id)
	r.members[c] = struct{}{}
	return created
}

// remove takes c out of room id and drops the room once it is empty.
// Unknown rooms and non-members are ignored.
func (rs rooms) remove(id string, c *connection) (deleted bool) {
	r, ok := rs[id]
	if !ok {
		return false
	}
	delete(r.members, c)
	if len(r.members) > 0 {
		return false
	}
	delete(rs, id)
	return true
}

// membersExcept returns a copy of the members of room id without c.
func (rs rooms) membersExcept(id string, c *connection) []*connection {
	r, ok := rs[id]
	if !ok {
		return nil
	}
	return lo.Filter(lo.Keys(r.members), func(m *connection, _ int) bool {
		return m != c
	})
}

// fresh generates a room id that is not in use.
func (rs rooms) fresh() string {
	for {
		id := uuid.NewString()
		if _, ok := rs[id]; !ok {
			return id
		}
	}
}

// snapshot maps every room id to its member count.
func (rs rooms) snapshot() map[string]int {
	return lo.MapValues(map[string]*room(rs), func(r *room, _ string) int {
		return len(r.members)
	})
}
