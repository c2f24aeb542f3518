package cellar

import (
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"reflect"
)

// TypeID is a stable 128-bit identifier for a component type. It is
// derived from the type's fully qualified name, so it does not depend on
// registration order or per-process runtime state and is stable across
// process runs.
type TypeID [16]byte

func (id TypeID) String() string {
	return hex.EncodeToString(id[:])
}

// Layout fixes a component type's size and alignment at registration time
type Layout struct {
	Size  int
	Align int
}

// stride is the element size padded to its alignment, the distance
// between consecutive slots in a store's buffer.
func (l Layout) stride() int {
	if l.Align <= 1 {
		return l.Size
	}
	return (l.Size + l.Align - 1) / l.Align * l.Align
}

// Component describes a registered component type: its stable identity
// and memory layout. Components are used as registry keys and as query
// terms.
type Component interface {
	ID() TypeID
	Layout() Layout
	Name() string
}

type componentType struct {
	id     TypeID
	layout Layout
	name   string
}

func (c componentType) ID() TypeID     { return c.id }
func (c componentType) Layout() Layout { return c.layout }
func (c componentType) Name() string   { return c.name }

func newComponentType(t reflect.Type) componentType {
	h := fnv.New128a()
	h.Write([]byte(typeKey(t)))
	var id TypeID
	h.Sum(id[:0])
	return componentType{
		id:     id,
		layout: Layout{Size: int(t.Size()), Align: t.Align()},
		name:   t.String(),
	}
}

func typeKey(t reflect.Type) string {
	if pkg := t.PkgPath(); pkg != "" {
		return pkg + "." + t.Name()
	}
	return t.String()
}

// TypedComponent pairs a component registration with its Go type,
// enabling typed store access without repeating the type check per call.
type TypedComponent[T any] struct {
	Component
}

// FactoryNewComponent registers the component type T and returns a typed
// handle for it. Calling it twice for the same T yields handles with the
// same TypeID.
//
// T must be a plain value type. Types containing Go pointers (strings,
// slices, maps, etc.) cannot be stored in the erased buffer and are
// rejected loudly here rather than corrupting memory later.
func FactoryNewComponent[T any]() TypedComponent[T] {
	t := reflect.TypeFor[T]()
	if typeHasPointers(t) {
		panic(fmt.Sprintf("component type %s contains pointers and cannot be stored", t))
	}
	return TypedComponent[T]{Component: newComponentType(t)}
}
