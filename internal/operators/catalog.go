package operators

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/inoxlang/treewalk/internal/core"
	"github.com/tidwall/tinylru"
)

const (
	DEFAULT_PROMOTION_CACHE_SIZE = 256
)

type implKey struct {
	op    core.Operator
	left  string
	right string
}

func (k implKey) String() string {
	return fmt.Sprintf("%s %s %s", k.left, k.op, k.right)
}

// noImpl is stored in the promotion cache for the keys that have no implementation.
type noImpl struct{}

// A Catalog is the default operator catalog: implementations are registered for exact
// operand types, the other type pairs are handled by promotion rules (int -> float,
// equality of unrelated types). The results of the promotion search are memoized.
type Catalog struct {
	lock  sync.RWMutex
	impls map[implKey]*core.OperatorImpl

	promotions  tinylru.LRU
	resolutions atomic.Int64
}

var _ = core.OperatorCatalog((*Catalog)(nil))

// NewCatalog returns a catalog with the default implementations registered.
func NewCatalog() *Catalog {
	c := NewEmptyCatalog()
	registerArithmetic(c)
	registerComparisons(c)
	registerStringOperators(c)
	return c
}

func NewEmptyCatalog() *Catalog {
	c := &Catalog{impls: map[implKey]*core.OperatorImpl{}}
	c.promotions.Resize(DEFAULT_PROMOTION_CACHE_SIZE)
	return c
}

// Register registers impl for the given operand type names (see core.TypeName),
// it should not be called while the catalog is in use.
func (c *Catalog) Register(leftType, rightType string, impl *core.OperatorImpl) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.impls[implKey{op: impl.Operator, left: leftType, right: rightType}] = impl

	//promotions may depend on the new implementation
	c.promotions = tinylru.LRU{}
	c.promotions.Resize(DEFAULT_PROMOTION_CACHE_SIZE)
}

// Resolutions returns the number of full dispatches performed by the catalog.
func (c *Catalog) Resolutions() int64 {
	return c.resolutions.Load()
}

func (c *Catalog) Resolve(op core.Operator, left, right core.Value) (*core.OperatorImpl, core.Value, error) {
	c.resolutions.Add(1)

	key := implKey{op: op, left: core.TypeName(left), right: core.TypeName(right)}

	impl, ok := c.lookup(key)
	if !ok {
		return nil, nil, fmt.Errorf("%w %s", core.ErrNoOperatorImpl, key)
	}

	result, err := impl.Apply(left, right)
	if err != nil {
		return nil, nil, err
	}
	return impl, result, nil
}

func (c *Catalog) lookup(key implKey) (*core.OperatorImpl, bool) {
	c.lock.RLock()
	impl, ok := c.impls[key]
	c.lock.RUnlock()

	if ok {
		return impl, true
	}

	if cached, ok := c.promotions.Get(key); ok {
		impl, ok := cached.(*core.OperatorImpl)
		return impl, ok
	}

	impl = c.promote(key)
	if impl == nil {
		c.promotions.Set(key, noImpl{})
		return nil, false
	}
	c.promotions.Set(key, impl)
	return impl, true
}

// promote searches an implementation for a type pair that has no registered implementation.
func (c *Catalog) promote(key implKey) *core.OperatorImpl {
	c.lock.RLock()
	defer c.lock.RUnlock()

	switch {
	case key.left == INT_TYPE && key.right == FLOAT_TYPE:
		if floatImpl, ok := c.impls[implKey{op: key.op, left: FLOAT_TYPE, right: FLOAT_TYPE}]; ok {
			return promoteLeftToFloat(floatImpl)
		}
	case key.left == FLOAT_TYPE && key.right == INT_TYPE:
		if floatImpl, ok := c.impls[implKey{op: key.op, left: FLOAT_TYPE, right: FLOAT_TYPE}]; ok {
			return promoteRightToFloat(floatImpl)
		}
	}

	switch key.op {
	case core.Equal:
		return unrelatedEquality(key, false)
	case core.NotEqual:
		return unrelatedEquality(key, true)
	}
	return nil
}
