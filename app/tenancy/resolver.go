// app/tenancy/resolver.go
package tenancy

import (
	"context"
	"log"
	"os"
	"sync"

	"github.com/vuthysan/school-management-system-sub000/domain/membership"
	"github.com/vuthysan/school-management-system-sub000/domain/policy"
	"github.com/vuthysan/school-management-system-sub000/domain/session"
	"github.com/vuthysan/school-management-system-sub000/domain/user"
	"github.com/vuthysan/school-management-system-sub000/ports/prefs"
)

// Resolver produces exactly one current (school, role) pair from the
// directory's output and keeps it consistent as the directory reloads.
// Resolution never fails hard: unresolvable states degrade to "no current
// school" rather than breaking dependent callers.
type Resolver struct {
	directory *Directory
	prefs     prefs.PreferenceStore
	logger    *log.Logger

	mu        sync.Mutex
	principal user.Principal
	snap      Snapshot
	selected  string // current school id, "" when none
}

// NewResolver wires the resolver to a directory and the durable preference
// store holding the device-scoped preferred school identifier.
func NewResolver(d *Directory, p prefs.PreferenceStore, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(os.Stderr, "tenancy: ", log.LstdFlags)
	}
	return &Resolver{directory: d, prefs: p, logger: logger}
}

// Reload runs one directory load for the principal and recomputes the
// selection. On load failure the previous session is returned alongside the
// error, leaving prior state intact for the caller's retry affordances. A
// superseded load returns ErrSuperseded and changes nothing.
func (r *Resolver) Reload(ctx context.Context, principal user.Principal) (session.Context, error) {
	snap, err := r.directory.Load(ctx)
	if err != nil {
		return r.Session(), err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.principal = principal
	r.snap = snap
	r.recomputeLocked()
	return r.sessionLocked(), nil
}

// recomputeLocked applies the selection algorithm to the current snapshot:
// honor the persisted preference when it still matches a membership with a
// resolved school, otherwise fall back to the first such membership in
// directory order. An empty membership list clears the selection but leaves
// durable storage untouched, so a later grant restores the preference.
func (r *Resolver) recomputeLocked() {
	if len(r.snap.Memberships) == 0 {
		r.selected = ""
		return
	}

	preferred := ""
	if r.prefs != nil {
		p, err := r.prefs.PreferredSchool()
		if err != nil {
			r.logger.Printf("reading preferred school: %v", err)
		} else {
			preferred = p
		}
	}

	r.selected = ""
	for _, m := range r.snap.Memberships {
		if !r.selectableLocked(m) {
			continue
		}
		if m.SchoolID == preferred {
			r.selected = m.SchoolID
			return
		}
		if r.selected == "" {
			r.selected = m.SchoolID // first selectable, directory order
		}
	}
}

// selectableLocked: a membership is selectable as tenancy only when its
// school resolved. Unresolved memberships stay visible but never current.
func (r *Resolver) selectableLocked(m membership.Membership) bool {
	return r.snap.Schools[m.SchoolID] != nil
}

// SwitchSchool selects a different school. It is a no-op returning false
// unless schoolID belongs to a selectable membership of the current snapshot.
// On success the identifier is also written to durable storage so the choice
// survives reload.
func (r *Resolver) SwitchSchool(schoolID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	ok := false
	for _, m := range r.snap.Memberships {
		if m.SchoolID == schoolID && r.selectableLocked(m) {
			ok = true
			break
		}
	}
	if !ok {
		return false
	}

	r.selected = schoolID
	if r.prefs != nil {
		if err := r.prefs.SetPreferredSchool(schoolID); err != nil {
			// Selection still holds for this session; only persistence is lost.
			r.logger.Printf("persisting preferred school: %v", err)
		}
	}
	return true
}

// Session returns the current resolved tenancy as an immutable value.
func (r *Resolver) Session() session.Context {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessionLocked()
}

func (r *Resolver) sessionLocked() session.Context {
	sc := session.Context{
		Principal:         r.principal,
		HasApprovedSchool: r.snap.HasApprovedSchool(),
	}
	if r.selected == "" {
		return sc
	}
	for _, m := range r.snap.Memberships {
		if m.SchoolID != r.selected {
			continue
		}
		sc.SchoolID = m.SchoolID
		sc.BranchID = m.BranchID
		sc.Role = m.Role
		sc.Permissions = m.Permissions
		sc.IsOwner = policy.IsOwner(m.Role)
		sc.IsAdmin = policy.IsAdmin(m.Role)
		sc.SchoolApproved = r.snap.Schools[m.SchoolID].Approved()
		return sc
	}
	return sc
}

// CurrentSchoolID returns the selected school id, or "".
func (r *Resolver) CurrentSchoolID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selected
}
