package interfaces

import domaintypes "cosmic/internal/domain/types"

// ProfileStore persists the local join defaults.
type ProfileStore interface {
	SaveProfile(profile domaintypes.Profile) error
	LoadProfile() (domaintypes.Profile, bool, error)
}
