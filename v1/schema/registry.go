package schema

import (
	"fmt"
	"reflect"
	"sync"
)

// PostInitHandler takes part in building a collection definition. Handlers
// run once per type, before validation, in registration order.
type PostInitHandler interface {
	// PostColumn is called for every mapped column.
	PostColumn(def *CollectionDefinition, col *ColumnDefinition) error
	// PostCollection is called after all columns were visited.
	PostCollection(def *CollectionDefinition) error
}

// PostInitFuncs adapts plain functions to PostInitHandler. Nil funcs are skipped.
type PostInitFuncs struct {
	Column     func(def *CollectionDefinition, col *ColumnDefinition) error
	Collection func(def *CollectionDefinition) error
}

func (f PostInitFuncs) PostColumn(def *CollectionDefinition, col *ColumnDefinition) error {
	if f.Column == nil {
		return nil
	}
	return f.Column(def, col)
}

func (f PostInitFuncs) PostCollection(def *CollectionDefinition) error {
	if f.Collection == nil {
		return nil
	}
	return f.Collection(def)
}

// Registry holds collection definitions keyed by Go type, plus the column
// resolution cache.
//
// The first successful registration of a type wins; later registrations
// return the stored definition. Definitions returned by the registry are
// shared and must be treated as read-only.
type Registry struct {
	mu          sync.RWMutex
	collections map[reflect.Type]*CollectionDefinition
	byName      map[string]*CollectionDefinition
	handlers    []PostInitHandler

	// columns caches resolved names per (entity type, column token). It is
	// append-only, so readers never take the lock above.
	columns sync.Map
}

type columnKey struct {
	typ reflect.Type
	ref any
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry used by wrappers that were not
// given one explicitly. It is created at package initialisation and lives
// for the lifetime of the process.
func Default() *Registry {
	return defaultRegistry
}

// NewRegistry creates an empty registry with the given post-init handlers.
func NewRegistry(handlers ...PostInitHandler) *Registry {
	return &Registry{
		collections: make(map[reflect.Type]*CollectionDefinition),
		byName:      make(map[string]*CollectionDefinition),
		handlers:    handlers,
	}
}

// Use appends post-init handlers. They apply to types registered afterwards.
func (r *Registry) Use(handlers ...PostInitHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = append(r.handlers, handlers...)
}

// Register parses and stores the definition for a model. model may be a
// struct value, a pointer to one or a reflect.Type.
func (r *Registry) Register(model any) (*CollectionDefinition, error) {
	t, err := modelType(model)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	existing, ok := r.collections[t]
	handlers := append([]PostInitHandler(nil), r.handlers...)
	r.mu.RUnlock()
	if ok {
		return existing, nil
	}

	def, err := parseModel(t)
	if err != nil {
		return nil, err
	}
	for _, h := range handlers {
		for _, col := range def.Columns {
			if err := h.PostColumn(def, col); err != nil {
				return nil, fmt.Errorf("post init %s.%s: %w", t.Name(), col.FieldName, err)
			}
		}
		if err := h.PostCollection(def); err != nil {
			return nil, fmt.Errorf("post init %s: %w", t.Name(), err)
		}
	}
	def.index()
	if err := validate(def); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.collections[t]; ok {
		return existing, nil
	}
	if other, ok := r.byName[def.Name]; ok {
		return nil, fmt.Errorf("%w: collection %q already mapped to %s", ErrInvalidModel, def.Name, other.Type)
	}
	r.collections[t] = def
	r.byName[def.Name] = def
	return def, nil
}

// Collection returns the definition for a model, registering it on first use.
func (r *Registry) Collection(model any) (*CollectionDefinition, error) {
	t, err := modelType(model)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	def, ok := r.collections[t]
	r.mu.RUnlock()
	if ok {
		return def, nil
	}
	return r.Register(t)
}

// CollectionByName looks up a registered definition by collection name.
func (r *Registry) CollectionByName(name string) (*CollectionDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.byName[name]
	return def, ok
}

func modelType(model any) (reflect.Type, error) {
	var t reflect.Type
	switch m := model.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil model", ErrInvalidModel)
	case reflect.Type:
		t = m
	default:
		t = reflect.TypeOf(m)
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrInvalidModel, t)
	}
	return t, nil
}

// Resolve returns the database column name for a column token of T. Plain
// name tokens resolve to themselves; field tokens are looked up in the
// definition of T, registering it on first use. Results are cached.
func Resolve[T any](r *Registry, c Column[T]) (string, error) {
	if c.kind == refName {
		return c.name, nil
	}

	t := reflect.TypeFor[T]()
	key := columnKey{typ: t, ref: c}
	if name, ok := r.columns.Load(key); ok {
		return name.(string), nil
	}

	def, err := r.Collection(t)
	if err != nil {
		return "", &ColumnError{Type: t, Field: c.String(), Err: err}
	}

	var (
		col *ColumnDefinition
		ok  bool
	)
	switch c.kind {
	case refField:
		col, ok = def.Column(c.name)
	case refOffset:
		col, ok = def.byOffset[c.offset]
	}
	if !ok {
		return "", &ColumnError{Type: t, Field: c.String(), Err: ErrUnknownColumn}
	}

	name, _ := r.columns.LoadOrStore(key, col.Name)
	return name.(string), nil
}
