package construct

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bean-transformer/diagnostic"
	"bean-transformer/internal/cache"
	"bean-transformer/internal/descriptor"
)

type source struct{}

type account struct {
	ID    int
	owner string
	Tags  []string
}

func (a *account) SetOwner(owner string) error {
	if owner == "" {
		return errors.New("owner is required")
	}

	a.owner = owner

	return nil
}

type money struct {
	amount   int64
	currency string
}

func newMoney(amount int64, currency string) money {
	return money{amount: amount, currency: currency}
}

type order struct {
	id    string
	total int
}

func newOrder(id string, total int) (*order, error) {
	if id == "" {
		return nil, errors.New("empty id")
	}

	return &order{id: id, total: total}, nil
}

type ticket struct {
	code  string
	seats int
}

type ticketBuilder struct {
	t ticket
}

func (b *ticketBuilder) Code(code string) *ticketBuilder { b.t.code = code; return b }
func (b *ticketBuilder) WithSeats(n int) *ticketBuilder  { b.t.seats = n; return b }

func (b *ticketBuilder) Build() (ticket, error) {
	if b.t.seats < 0 {
		return ticket{}, errors.New("negative seats")
	}

	return b.t, nil
}

func (ticket) NewBuilder() any { return &ticketBuilder{} }

type brokenBuilder struct{}

func (*brokenBuilder) Build() string { return "" }

type noBuild struct {
	code string
}

func (noBuild) NewBuilder() any { return &brokenBuilder{} }

// values resolves fields from a map keyed by logical name; names missing from
// the map are left untouched.
func values(m map[string]any) ResolveFunc {
	return func(f *descriptor.Field) (reflect.Value, bool, error) {
		v, ok := m[f.Name]
		if !ok {
			return reflect.Value{}, false, nil
		}

		if v == nil {
			return reflect.Value{}, true, nil
		}

		return reflect.ValueOf(v), true, nil
	}
}

func newInjector() (*Injector, *descriptor.Provider) {
	provider := descriptor.NewProvider()
	return New(provider, cache.New(nil), zap.NewNop()), provider
}

func TestSetters(t *testing.T) {
	in, provider := newInjector()
	d := provider.Describe(reflect.TypeFor[account]())

	ptr := reflect.New(d.Type)
	err := in.Setters(ptr, d.Fields, values(map[string]any{
		"id":    7,
		"owner": "ann",
		"tags":  nil,
	}))
	require.NoError(t, err)
	assert.Equal(t, account{ID: 7, owner: "ann"}, *ptr.Interface().(*account))

	err = in.Setters(ptr, d.Fields, values(map[string]any{"owner": ""}))
	var beanErr *diagnostic.InvalidBeanError
	require.True(t, errors.As(err, &beanErr))
	assert.Contains(t, beanErr.Error(), "owner is required")

	err = in.Setters(ptr, d.Fields, values(map[string]any{"id": "7"}))
	require.True(t, errors.As(err, &beanErr))
	var convErr *diagnostic.TypeConversionError
	assert.True(t, errors.As(err, &convErr))
}

func TestConstructor(t *testing.T) {
	in, provider := newInjector()

	ctor, err := provider.Constructors.Register(newMoney, "amount", "currency")
	require.NoError(t, err)

	ptr, err := in.Constructor(ctor, reflect.TypeFor[source](), values(map[string]any{
		"amount":   int64(10),
		"currency": "EUR",
	}))
	require.NoError(t, err)
	assert.Equal(t, money{amount: 10, currency: "EUR"}, *ptr.Interface().(*money))

	ptr, err = in.Constructor(ctor, reflect.TypeFor[source](), values(map[string]any{"amount": int64(3)}))
	require.NoError(t, err)
	assert.Equal(t, money{amount: 3}, *ptr.Interface().(*money), "untouched parameters get the zero value")
}

func TestConstructorMismatch(t *testing.T) {
	in, provider := newInjector()

	ctor, err := provider.Constructors.Register(newMoney, "amount", "currency")
	require.NoError(t, err)

	_, err = in.Constructor(ctor, reflect.TypeFor[source](), values(map[string]any{
		"amount":   "10",
		"currency": "EUR",
	}))

	var beanErr *diagnostic.InvalidBeanError
	require.True(t, errors.As(err, &beanErr))
	msg := beanErr.Error()
	assert.Contains(t, msg, "Expected: construct.newMoney(int64, string)")
	assert.Contains(t, msg, "Found: construct.money(string, string)")
	assert.Contains(t, msg, "each money's field")
	assert.Contains(t, msg, "construct.source")
}

func TestConstructorWithoutNames(t *testing.T) {
	in, provider := newInjector()

	ctor, err := provider.Constructors.Register(newOrder)
	require.NoError(t, err)

	ptr, err := in.Constructor(ctor, reflect.TypeFor[source](), values(map[string]any{
		"id":    "o-1",
		"total": 5,
	}))
	require.NoError(t, err, "fields are passed in declaration order")
	assert.Equal(t, order{id: "o-1", total: 5}, *ptr.Interface().(*order))

	_, err = in.Constructor(ctor, reflect.TypeFor[source](), values(map[string]any{"id": ""}))

	var beanErr *diagnostic.InvalidBeanError
	require.True(t, errors.As(err, &beanErr))
	assert.Contains(t, beanErr.Error(), "parameter names are not available")
	assert.EqualError(t, errors.Unwrap(beanErr), "empty id")
}

func TestConstructorCachesNames(t *testing.T) {
	in, provider := newInjector()

	ctor, err := provider.Constructors.Register(newMoney, "amount", "")
	require.NoError(t, err)

	assert.False(t, in.canBeInjectedByConstructorParams(ctor))
	assert.Equal(t, "amount", in.destFieldName(ctor, 0))
	assert.Empty(t, in.destFieldName(ctor, 1))

	_, ok := cache.Get[bool](in.cache, cache.Key(cache.CanBeInjectedByConstructorParams, ctor.Key()))
	assert.True(t, ok)
	name, ok := cache.Get[string](in.cache, cache.Key(cache.DestFieldName, ctor.Key(), "0"))
	assert.True(t, ok)
	assert.Equal(t, "amount", name)

	again, err := provider.Constructors.Register(newMoney, "", "amount")
	require.NoError(t, err)
	assert.NotEqual(t, ctor.Key(), again.Key())
	assert.True(t, strings.HasPrefix(again.Key(), descriptor.TypeKey(ctor.Type)+"-"))
	assert.Empty(t, in.destFieldName(again, 0), "names of another registration are not reused")
	assert.Equal(t, "amount", in.destFieldName(again, 1))
}

func TestBuilder(t *testing.T) {
	in, provider := newInjector()
	d := provider.Describe(reflect.TypeFor[ticket]())

	ptr, err := in.Builder(d, values(map[string]any{"code": "A1", "seats": 2}))
	require.NoError(t, err)
	assert.Equal(t, ticket{code: "A1", seats: 2}, *ptr.Interface().(*ticket))

	_, err = in.Builder(d, values(map[string]any{"seats": -1}))
	var beanErr *diagnostic.InvalidBeanError
	require.True(t, errors.As(err, &beanErr))
	assert.Contains(t, beanErr.Error(), "negative seats")
}

func TestBuilderWrongBuild(t *testing.T) {
	in, provider := newInjector()
	d := provider.Describe(reflect.TypeFor[noBuild]())

	_, err := in.Builder(d, values(nil))

	var methodErr *diagnostic.MissingMethodError
	require.True(t, errors.As(err, &methodErr))
	assert.Equal(t, "Build", methodErr.Method)
}
