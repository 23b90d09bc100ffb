package memory

import "strings"

// table colección indexada por clave con orden de inserción estable.
type table[T any] struct {
	rows  map[string]*T
	order []string
	clone func(*T) *T
}

func newTable[T any](clone func(*T) *T) *table[T] {
	if clone == nil {
		clone = shallow[T]
	}
	return &table[T]{rows: map[string]*T{}, clone: clone}
}

func (t *table[T]) put(key string, v *T) {
	if _, ok := t.rows[key]; !ok {
		t.order = append(t.order, key)
	}
	t.rows[key] = v
}

// overlay escrituras pendientes de una transacción sobre una tabla.
// Las lecturas ven primero lo pendiente; commit vuelca todo a la tabla base.
type overlay[T any] struct {
	s       *Store
	base    *table[T]
	pending map[string]*T
	order   []string
}

func newOverlay[T any](s *Store, base *table[T]) *overlay[T] {
	return &overlay[T]{s: s, base: base, pending: map[string]*T{}}
}

func (o *overlay[T]) get(key string) *T {
	if v, ok := o.pending[key]; ok {
		return o.base.clone(v)
	}
	o.s.mu.RLock()
	defer o.s.mu.RUnlock()
	if v, ok := o.base.rows[key]; ok {
		return o.base.clone(v)
	}
	return nil
}

func (o *overlay[T]) put(key string, v *T) {
	if _, ok := o.pending[key]; !ok {
		o.order = append(o.order, key)
	}
	o.pending[key] = o.base.clone(v)
}

// list devuelve copias de las filas cuya clave empieza con prefix y que cumplen match.
func (o *overlay[T]) list(prefix string, match func(*T) bool) []*T {
	o.s.mu.RLock()
	defer o.s.mu.RUnlock()
	var out []*T
	add := func(v *T) {
		if match == nil || match(v) {
			out = append(out, o.base.clone(v))
		}
	}
	for _, k := range o.base.order {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		if p, ok := o.pending[k]; ok {
			add(p)
			continue
		}
		add(o.base.rows[k])
	}
	for _, k := range o.order {
		if _, inBase := o.base.rows[k]; inBase || !strings.HasPrefix(k, prefix) {
			continue
		}
		add(o.pending[k])
	}
	return out
}

// commit se llama con s.mu tomado en escritura.
func (o *overlay[T]) commit() {
	for _, k := range o.order {
		o.base.put(k, o.pending[k])
	}
}

func key(parts ...string) string { return strings.Join(parts, "/") }

func shallow[T any](v *T) *T {
	c := *v
	return &c
}
