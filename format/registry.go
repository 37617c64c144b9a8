package format

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Factory builds a formatter from the template attached to its spec.
type Factory func(template string) Func

// Registry dispatches formatter kinds to their factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[Kind]Factory
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[Kind]Factory),
	}
}

// DefaultRegistry returns a new registry holding the builtin kinds.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(Currency, static(formatCurrency))
	r.MustRegister(Percentage, static(formatPercentage))
	r.MustRegister(Number, static(formatNumber))
	r.MustRegister(Decimal, static(formatDecimal))
	r.MustRegister(Scientific, static(formatScientific))
	r.MustRegister(Bytes, static(formatBytes))
	r.MustRegister(Duration, static(formatDuration))
	r.MustRegister(Date, makeDate)
	r.MustRegister(Custom, makeCustom)
	return r
}

func static(fn Func) Factory {
	return func(_ string) Func {
		return fn
	}
}

var builtin = DefaultRegistry()

// Get returns the formatter of kind from the builtin registry.
func Get(kind Kind, template string) Func {
	return builtin.Get(kind, template)
}

// Kinds lists the kinds known to the builtin registry.
func Kinds() []Kind {
	return builtin.Kinds()
}

func (r *Registry) Register(kind Kind, fact Factory) error {
	if kind == "" {
		return fmt.Errorf("formatter kind is empty")
	}
	if fact == nil {
		return fmt.Errorf("%s: formatter factory is nil", kind)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[kind]; ok {
		return fmt.Errorf("formatter %q already registered", kind)
	}
	r.factories[kind] = fact
	return nil
}

func (r *Registry) MustRegister(kind Kind, fact Factory) {
	if err := r.Register(kind, fact); err != nil {
		panic(err)
	}
}

// Get returns the formatter for kind. Unknown kinds give Passthrough. The
// result handles NaN and infinities itself and recovers from panics of the
// underlying factory.
func (r *Registry) Get(kind Kind, template string) Func {
	r.mu.RLock()
	fact, ok := r.factories[kind]
	r.mu.RUnlock()
	if !ok {
		return Passthrough
	}
	var fn Func
	func() {
		defer func() {
			if err := recover(); err != nil {
				logger().Warn("formatter factory failed", slog.String("kind", string(kind)), slog.Any("err", err))
				fn = nil
			}
		}()
		fn = fact(template)
	}()
	if fn == nil {
		return Passthrough
	}
	return r.safe(kind, finite(fn))
}

func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]Kind, 0, len(r.factories))
	for k := range r.factories {
		list = append(list, k)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i] < list[j]
	})
	return list
}

// Safe wraps fn so that a panic degrades to the passthrough representation.
func Safe(fn Func) Func {
	return builtin.safe("", fn)
}

func (r *Registry) safe(kind Kind, fn Func) Func {
	return func(v float64) (str string) {
		defer func() {
			if err := recover(); err != nil {
				logger().Warn("formatter failed", slog.String("kind", string(kind)), slog.Float64("value", v), slog.Any("err", err))
				str = Passthrough(v)
			}
		}()
		return fn(v)
	}
}

func logger() *slog.Logger {
	return slog.Default().With(slog.String("module", "format"))
}
