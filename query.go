package cellar

import (
	"github.com/TheBitDrifter/mask"
)

// Query collects the component terms of one intersection query against a
// registry. The first term drives iteration; the remaining terms
// contribute their presence bitsets as auxiliary filters, so only
// entities holding every term are yielded.
//
// Each term is marked in a signature mask over registry row indices.
// The mask rejects duplicate terms and lets a scheduler test two queries
// for overlap without touching any store.
type Query struct {
	reg        *Registry
	signature  mask.Mask
	components []Component
	err        error
}

func newQuery(reg *Registry) *Query {
	return &Query{reg: reg}
}

// And appends required components, creating their stores on first use.
// The first component ever added is the driving term.
func (q *Query) And(components ...Component) *Query {
	for _, c := range components {
		if q.err != nil {
			return q
		}
		if _, err := q.reg.GetOrCreate(c); err != nil {
			q.err = err
			return q
		}
		row, _ := q.reg.RowIndexFor(c)
		var probe mask.Mask
		probe.Mark(row)
		if q.signature.ContainsAny(probe) {
			q.err = ComponentExistsError{Component: c}
			return q
		}
		q.signature.Mark(row)
		q.components = append(q.components, c)
	}
	return q
}

// Signature returns the mask of registry row indices this query touches
func (q *Query) Signature() mask.Mask {
	return q.signature
}

// Conflicts reports whether the two queries touch any common component
// type. Schedulers use this to partition systems before falling back to
// the atomic handles' runtime borrow check.
func (q *Query) Conflicts(other *Query) bool {
	return q.signature.ContainsAny(other.signature)
}

// Iter constructs an untyped read iterator: the first term drives, the
// rest filter.
func (q *Query) Iter() (*UntypedIter, error) {
	driving, aux, err := q.plan()
	if err != nil {
		return nil, err
	}
	return newUntypedIter(driving, aux), nil
}

// IterMut constructs an untyped mutable iterator: the first term drives,
// the rest filter. The caller must hold exclusive access to the driving
// store.
func (q *Query) IterMut() (*UntypedIterMut, error) {
	driving, aux, err := q.plan()
	if err != nil {
		return nil, err
	}
	return newUntypedIterMut(driving, aux), nil
}

func (q *Query) plan() (*UntypedStore, []*Bitset, error) {
	if q.err != nil {
		return nil, nil, q.err
	}
	if len(q.components) == 0 {
		return nil, nil, EmptyQueryError{}
	}
	driving, _ := q.reg.Get(q.components[0])
	aux := make([]*Bitset, 0, len(q.components)-1)
	for _, c := range q.components[1:] {
		store, _ := q.reg.Get(c)
		aux = append(aux, store.Bitset())
	}
	return driving, aux, nil
}

// QueryIter constructs a typed read iterator driving c's store and
// filtering by the query's other terms.
func QueryIter[T any](q *Query, c TypedComponent[T]) (*Iter[T], error) {
	store, aux, err := typedPlan(q, c)
	if err != nil {
		return nil, err
	}
	return newIter(store, aux), nil
}

// QueryIterMut constructs a typed mutable iterator driving c's store and
// filtering by the query's other terms. The caller must hold exclusive
// access to c's store.
func QueryIterMut[T any](q *Query, c TypedComponent[T]) (*IterMut[T], error) {
	store, aux, err := typedPlan(q, c)
	if err != nil {
		return nil, err
	}
	return newIterMut(store, aux), nil
}

func typedPlan[T any](q *Query, c TypedComponent[T]) (Store[T], []*Bitset, error) {
	if q.err != nil {
		return Store[T]{}, nil, q.err
	}
	store, err := StoreFor(q.reg, c)
	if err != nil {
		return Store[T]{}, nil, err
	}
	aux := make([]*Bitset, 0, len(q.components))
	for _, term := range q.components {
		if term.ID() == c.ID() {
			continue
		}
		termStore, _ := q.reg.Get(term)
		aux = append(aux, termStore.Bitset())
	}
	return store, aux, nil
}
