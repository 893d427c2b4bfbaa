package sim

import "fmt"

// Kind tags what a node identity refers to.
type Kind int

const (
	Source Kind = iota
	Destination
	RtrKind
)

// Id names a node in the network: a source terminal, a destination
// terminal, or an internal router, paired with its index within that
// kind's array.
type Id struct {
	Kind  Kind
	Value int
}

func SrcID(v int) Id { return Id{Kind: Source, Value: v} }
func DstID(v int) Id { return Id{Kind: Destination, Value: v} }
func RtrID(v int) Id { return Id{Kind: RtrKind, Value: v} }

func (id Id) IsSrc() bool { return id.Kind == Source }
func (id Id) IsDst() bool { return id.Kind == Destination }
func (id Id) IsRtr() bool { return id.Kind == RtrKind }

// String renders the Id the way the reference simulator's id_str does:
// "Src 3", "Dst 3", "Rtr 3".
func (id Id) String() string {
	switch id.Kind {
	case Source:
		return fmt.Sprintf("Src %d", id.Value)
	case Destination:
		return fmt.Sprintf("Dst %d", id.Value)
	default:
		return fmt.Sprintf("Rtr %d", id.Value)
	}
}
