package models

// ArtifactKind is a closed classification of why a beat interval was flagged.
type ArtifactKind int

const (
	ArtifactNone ArtifactKind = iota
	ArtifactEctopic
	ArtifactMissed
	ArtifactExtra
	ArtifactTechnical
)

func (k ArtifactKind) String() string {
	switch k {
	case ArtifactEctopic:
		return "ectopic"
	case ArtifactMissed:
		return "missed"
	case ArtifactExtra:
		return "extra"
	case ArtifactTechnical:
		return "technical"
	default:
		return "none"
	}
}

// ArtifactFlag annotates one beat interval. Flag arrays are positionally
// aligned with the BeatSequence they describe and must have the same length.
// Corrected is set only by the corrector, after it replaces the value.
type ArtifactFlag struct {
	IsArtifact bool
	Kind       ArtifactKind
	Confidence float64
	Corrected  bool
}
