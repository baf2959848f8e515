package acl

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// fakeLookup serves rows from memory: rows[table][id][column]
type fakeLookup struct {
	rows  map[string]map[int64]map[string]int64
	err   error
	calls int
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{rows: make(map[string]map[int64]map[string]int64)}
}

func (f *fakeLookup) put(table string, id int64, cols map[string]int64) {
	if f.rows[table] == nil {
		f.rows[table] = make(map[int64]map[string]int64)
	}
	f.rows[table][id] = cols
}

func (f *fakeLookup) LookupColumn(_ context.Context, table, column string, id int64) (int64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	row, ok := f.rows[table][id]
	if !ok {
		return 0, ErrOwnerNotFound
	}
	v, ok := row[column]
	if !ok {
		return 0, fmt.Errorf("no column %s", column)
	}
	return v, nil
}

// catalog builds store 1 owned by user 10 and store 2 owned by user 20,
// base product 100 in store 1, base product 200 in store 2, product 1000 of 100
// and product 2000 of 200.
func catalog() *fakeLookup {
	l := newFakeLookup()
	l.put("stores", 1, map[string]int64{"user_id": 10})
	l.put("stores", 2, map[string]int64{"user_id": 20})
	l.put("base_products", 100, map[string]int64{"store_id": 1})
	l.put("base_products", 200, map[string]int64{"store_id": 2})
	l.put("products", 1000, map[string]int64{"base_product_id": 100})
	l.put("products", 2000, map[string]int64{"base_product_id": 200})
	return l
}

type entity map[string]int64

func (e entity) OwnershipField(name string) (int64, bool) {
	v, ok := e[name]
	return v, ok
}

type memoryRoleStore struct {
	mu    sync.Mutex
	roles map[int64][]Role
	err   error
	calls int
}

func (m *memoryRoleStore) ListRoles(_ context.Context, userID int64) ([]Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return append([]Role(nil), m.roles[userID]...), nil
}

func (m *memoryRoleStore) grant(userID int64, role Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles[userID] = append(m.roles[userID], role)
}

func (m *memoryRoleStore) revoke(userID int64, role Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.roles[userID][:0]
	for _, r := range m.roles[userID] {
		if r != role {
			kept = append(kept, r)
		}
	}
	m.roles[userID] = kept
}

type mapRoleCache struct {
	mu        sync.Mutex
	entries   map[int64][]Role
	removeErr error
}

func newMapRoleCache() *mapRoleCache {
	return &mapRoleCache{entries: make(map[int64][]Role)}
}

func (c *mapRoleCache) Get(_ context.Context, userID int64) ([]Role, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.entries[userID]
	return r, ok
}

func (c *mapRoleCache) Set(_ context.Context, userID int64, roles []Role) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = roles
}

func (c *mapRoleCache) Remove(_ context.Context, userID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.removeErr != nil {
		return c.removeErr
	}
	delete(c.entries, userID)
	return nil
}

func (c *mapRoleCache) failRemovals(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeErr = err
}

var errConnection = errors.New("connection refused")
