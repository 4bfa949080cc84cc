// app/tenancy/directory.go
package tenancy

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	domainError "github.com/vuthysan/school-management-system-sub000/domain/errors"
	"github.com/vuthysan/school-management-system-sub000/domain/membership"
	"github.com/vuthysan/school-management-system-sub000/domain/school"
	"github.com/vuthysan/school-management-system-sub000/ports/repository"
)

// schoolFetchLimit bounds the per-membership school fan-out.
const schoolFetchLimit = 4

// Snapshot is one fully loaded view of the principal's memberships. A
// membership whose school is absent from Schools failed to resolve; it stays
// in the list (its role is still visible) but is not selectable as tenancy.
type Snapshot struct {
	Memberships []membership.Membership
	Schools     map[string]*school.School
	Pending     repository.PendingSchools
}

// School returns the resolved school for a membership, or nil.
func (s Snapshot) School(schoolID string) *school.School {
	return s.Schools[schoolID]
}

// HasApprovedSchool reports whether any resolved school across all
// memberships is approved. Fleet-wide, not scoped to the current selection.
func (s Snapshot) HasApprovedSchool() bool {
	for _, m := range s.Memberships {
		if s.Schools[m.SchoolID].Approved() {
			return true
		}
	}
	return false
}

// Directory fetches and caches the memberships of the signed-in principal,
// resolving each membership's school and, best-effort, the pending schools
// visible to them.
type Directory struct {
	memberships repository.MembershipStore
	schools     repository.SchoolStore
	logger      *log.Logger

	mu     sync.Mutex
	latest uint64 // generation of the most recently started load
	snap   Snapshot
	loaded bool
}

// NewDirectory wires the directory to its backend stores.
func NewDirectory(m repository.MembershipStore, s repository.SchoolStore, logger *log.Logger) *Directory {
	if logger == nil {
		logger = log.New(os.Stderr, "directory: ", log.LstdFlags)
	}
	return &Directory{memberships: m, schools: s, logger: logger}
}

// Load fetches the membership list and resolves the school of every
// membership. Failures are not retried here; callers own retry. On failure
// the previously loaded snapshot is left untouched.
//
// Loads are last-request-wins: when a newer Load has started before this one
// finishes, the result is discarded and ErrSuperseded returned, so a resolver
// recomputation never sees a stale list applied out of order.
func (d *Directory) Load(ctx context.Context) (Snapshot, error) {
	d.mu.Lock()
	d.latest++
	gen := d.latest
	d.mu.Unlock()

	list, err := d.memberships.MyMemberships(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load memberships: %w", err)
	}

	snap := Snapshot{
		Memberships: list,
		Schools:     make(map[string]*school.School, len(list)),
	}

	// Resolve schools concurrently. One school failing must not abort the
	// others: the error is logged and that membership left unresolved.
	var resolved sync.Map
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(schoolFetchLimit)
	seen := make(map[string]bool, len(list))
	for _, m := range list {
		if seen[m.SchoolID] {
			continue
		}
		seen[m.SchoolID] = true
		id := m.SchoolID
		group.Go(func() error {
			sch, err := d.schools.SchoolByID(gctx, id)
			if err != nil {
				d.logger.Printf("skipping school %s: %v", id, err)
				return nil
			}
			resolved.Store(id, sch)
			return nil
		})
	}
	_ = group.Wait()
	resolved.Range(func(k, v any) bool {
		snap.Schools[k.(string)] = v.(*school.School)
		return true
	})

	// Pending schools are best-effort and permission-gated: an authorization
	// rejection becomes the Unauthorized variant inside the adapter, and any
	// other failure degrades to an empty section.
	pending, err := d.schools.PendingSchools(ctx)
	if err != nil {
		d.logger.Printf("pending schools unavailable: %v", err)
		pending = repository.PendingSchools{}
	}
	snap.Pending = pending

	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.latest {
		d.logger.Printf("discarding superseded membership load (gen %d < %d)", gen, d.latest)
		return Snapshot{}, domainError.ErrSuperseded
	}
	d.snap = snap
	d.loaded = true
	return snap, nil
}

// Snapshot returns the most recently applied load.
func (d *Directory) Snapshot() (Snapshot, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snap, d.loaded
}
