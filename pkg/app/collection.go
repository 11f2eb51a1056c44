package app

import "github.com/marcusziade/githubcards/pkg/models"

// Collection is an immutable ordered list of profiles. Position is the
// only identity a profile has, so duplicates are allowed.
type Collection struct {
	profiles []models.Profile
}

// NewCollection copies profiles into a new collection
func NewCollection(profiles []models.Profile) Collection {
	c := Collection{profiles: make([]models.Profile, len(profiles))}
	copy(c.profiles, profiles)
	return c
}

// Len returns the number of profiles
func (c Collection) Len() int { return len(c.profiles) }

// At returns the profile at index i
func (c Collection) At(i int) models.Profile { return c.profiles[i] }

// Profiles returns a copy of the profiles in insertion order
func (c Collection) Profiles() []models.Profile {
	out := make([]models.Profile, len(c.profiles))
	copy(out, c.profiles)
	return out
}

// Append returns a new collection with p at the end. The receiver is
// left untouched and shares no backing array with the result.
func (c Collection) Append(p models.Profile) Collection {
	next := make([]models.Profile, len(c.profiles), len(c.profiles)+1)
	copy(next, c.profiles)
	return Collection{profiles: append(next, p)}
}
