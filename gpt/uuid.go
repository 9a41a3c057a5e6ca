package gpt

import "github.com/google/uuid"

// googleUUIDSource is the default UUIDSource, backed by
// github.com/google/uuid's random (v4) generator.
type googleUUIDSource struct{}

// DefaultUUIDSource generates random v4 UUIDs via github.com/google/uuid.
var DefaultUUIDSource UUIDSource = googleUUIDSource{}

func (googleUUIDSource) Generate() (GUID, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return GUID{}, wrapf(ErrOther, "gpt: generate uuid: %v", err)
	}
	var g GUID
	copy(g[:], id[:])
	return g, nil
}
