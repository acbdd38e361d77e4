package types

import "fmt"

// LinkSpec is a validated declaration that Dest should be a symlink to Src.
// It owns no filesystem resources; it only describes the relationship.
type LinkSpec struct {
	// Index is the 1-based position of the declaration in the script's list.
	Index int

	Name   string
	Src    string
	Dest   string
	Enable bool
	Force  bool
}

// NewLinkSpec returns a spec with the declaration defaults applied
// (enabled, not forced).
func NewLinkSpec(name, src, dest string) LinkSpec {
	return LinkSpec{
		Name:   name,
		Src:    src,
		Dest:   dest,
		Enable: true,
	}
}

func (l LinkSpec) String() string {
	return fmt.Sprintf("%s: %s -> %s", l.Name, l.Dest, l.Src)
}
