package memory

import (
	"context"
	"sync"
	"time"
)

// Directory is an in-memory membership directory for tests and DSN-less
// development. Failure injection simulates a directory outage.
type Directory struct {
	mu    sync.RWMutex
	roles map[string]map[string]bool
	ready bool
	fail  error
}

func NewDirectory() *Directory {
	return &Directory{
		roles: map[string]map[string]bool{},
		ready: true,
	}
}

func (d *Directory) GrantRole(principalID string, roleID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.roles[principalID] == nil {
		d.roles[principalID] = map[string]bool{}
	}
	d.roles[principalID][roleID] = true
}

func (d *Directory) SetReady(ready bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ready = ready
}

// FailWith makes every subsequent HasRole call return err.
func (d *Directory) FailWith(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fail = err
}

func (d *Directory) Ready() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.ready
}

func (d *Directory) HasRole(_ context.Context, _ string, principalID string, roleID string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.fail != nil {
		return false, d.fail
	}
	return d.roles[principalID][roleID], nil
}

func (d *Directory) Now() time.Time {
	return time.Now().UTC()
}
