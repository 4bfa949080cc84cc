// ports/prefs/preference_store.go
package prefs

// PreferenceStore holds the one durable, device-scoped key of this core: the
// preferred school identifier. It is written only when the principal switches
// school and read only at directory-load time. It has no expiry; an explicit
// switch supersedes it. The server stays the source of truth for whether the
// referenced membership is still valid.
type PreferenceStore interface {
	// PreferredSchool returns the stored identifier, or "" when none is set.
	PreferredSchool() (string, error)
	SetPreferredSchool(id string) error
}
