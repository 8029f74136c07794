package control

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Group is a composite control with named child slots. The child set is
// fixed at construction; AddControl, SetControl, and RemoveControl exist
// as an escape hatch for dynamic shapes and re-announce the structure.
//
// A group exclusively owns its children: removing one severs the
// ownership and detaches it, after which it no longer propagates
// anywhere.
type Group struct {
	base

	mu       sync.RWMutex
	keys     []string
	children map[string]Control
	fanIn    map[string][]func()
}

// NewGroup creates a detached group owning the given children. Keys are
// ordered lexicographically at construction; later additions append.
func NewGroup(children map[string]Control) *Group {
	g := &Group{
		children: make(map[string]Control, len(children)),
		fanIn:    make(map[string][]func()),
	}
	for k, c := range children {
		g.keys = append(g.keys, k)
		g.children[k] = c
	}
	sort.Strings(g.keys)
	g.init(g)
	return g
}

// Get returns the child registered under key, or nil when absent. A
// missing key is a normal outcome, not an error.
func (g *Group) Get(key string) Control {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.children[key]
}

// Keys returns the child keys in slot order.
func (g *Group) Keys() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, len(g.keys))
	copy(out, g.keys)
	return out
}

// Len returns the number of children.
func (g *Group) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.keys)
}

// Value builds a key-to-value map from every child. It is derived on
// every call, never stored.
func (g *Group) Value() any {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make(map[string]any, len(g.keys))
	for _, k := range g.keys {
		out[k] = g.children[k].Value()
	}
	return out
}

// EnabledValue is like Value but omits leaf children whose ui state is
// disabled. Composite children are always included, with their own
// disabled leaves recursively omitted.
func (g *Group) EnabledValue() any {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make(map[string]any, len(g.keys))
	for _, k := range g.keys {
		v, ok := enabledValueOf(g.children[k])
		if ok {
			out[k] = v
		}
	}
	return out
}

// enabledValueOf resolves a child's contribution to an enabled-value
// read. Disabled leaves contribute nothing.
func enabledValueOf(c Control) (any, bool) {
	switch cc := c.(type) {
	case *Group:
		return cc.EnabledValue(), true
	case *List:
		return cc.EnabledValue(), true
	}
	if leaf, ok := c.(Leaf); ok && leaf.UIState() == UIDisabled {
		return nil, false
	}
	return c.Value(), true
}

// Set applies the values present in value to the matching children.
// Despite the name it is lenient: absent keys leave their children
// untouched, and unknown keys are ignored. This matches List.Set's
// already-partial contract; Patch is the intent-revealing spelling.
func (g *Group) Set(value map[string]any) {
	g.mu.RLock()
	targets := make([]Control, 0, len(value))
	values := make([]any, 0, len(value))
	for _, k := range g.keys {
		if v, ok := value[k]; ok {
			targets = append(targets, g.children[k])
			values = append(values, v)
		}
	}
	g.mu.RUnlock()
	for i, c := range targets {
		c.SetValue(values[i])
	}
}

// Patch applies only the supplied keys. It is Set under a name that says
// what it does.
func (g *Group) Patch(partial map[string]any) { g.Set(partial) }

// SetValue writes an untyped value; it must be a map[string]any.
func (g *Group) SetValue(v any) { g.Set(v.(map[string]any)) }

// Reset resets every child in place. The group's own error sources are
// untouched: errors are driven solely by validators and fixed errors.
func (g *Group) Reset(clearStates bool) {
	for _, c := range g.snapshotChildren() {
		c.Reset(clearStates)
	}
}

// IsDirty reports whether any child is dirty. Recomputed on every read.
func (g *Group) IsDirty() bool { return g.anyChild(Control.IsDirty) }

// IsTouched reports whether any child is touched.
func (g *Group) IsTouched() bool { return g.anyChild(Control.IsTouched) }

// IsBlurred reports whether any child is blurred.
func (g *Group) IsBlurred() bool { return g.anyChild(Control.IsBlurred) }

func (g *Group) anyChild(pred func(Control) bool) bool {
	for _, c := range g.snapshotChildren() {
		if pred(c) {
			return true
		}
	}
	return false
}

func (g *Group) snapshotChildren() []Control {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Control, 0, len(g.keys))
	for _, k := range g.keys {
		out = append(out, g.children[k])
	}
	return out
}

// Status merges the group's own error sources with its children: own
// errors dominate even a fully valid child tree, then any invalid child,
// then any pending child or own running generation.
func (g *Group) Status() Status {
	return mergeChildStatus(g.ownStatus(), func(yield func(Control) bool) {
		for _, c := range g.snapshotChildren() {
			if !yield(c) {
				return
			}
		}
	})
}

// AddControl registers a new child under key. It fails with
// ErrDuplicateKey when the key already exists. On success the structure
// is re-announced and the host is asked to update.
func (g *Group) AddControl(key string, c Control) error {
	g.mu.Lock()
	if _, ok := g.children[key]; ok {
		g.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
	}
	g.keys = append(g.keys, key)
	g.children[key] = c
	g.mu.Unlock()

	if g.attached {
		g.wireChild(key, c)
		c.Attach(g.host)
	}
	g.structureChanged.notify()
	g.requestUpdate()
	return nil
}

// SetControl replaces the child under key. It fails with ErrMissingKey
// when the key does not exist. The old child is detached and orphaned.
func (g *Group) SetControl(key string, c Control) error {
	g.mu.Lock()
	old, ok := g.children[key]
	if !ok {
		g.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrMissingKey, key)
	}
	g.children[key] = c
	g.mu.Unlock()

	g.unwireChild(key)
	old.Detach()
	if g.attached {
		g.wireChild(key, c)
		c.Attach(g.host)
	}
	g.structureChanged.notify()
	g.requestUpdate()
	return nil
}

// RemoveControl removes the child under key. It fails with ErrMissingKey
// when the key does not exist. The removed child is detached and
// orphaned; it no longer propagates into this group.
func (g *Group) RemoveControl(key string) error {
	g.mu.Lock()
	old, ok := g.children[key]
	if !ok {
		g.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrMissingKey, key)
	}
	delete(g.children, key)
	for i, k := range g.keys {
		if k == key {
			g.keys = append(g.keys[:i], g.keys[i+1:]...)
			break
		}
	}
	g.mu.Unlock()

	g.unwireChild(key)
	old.Detach()
	g.structureChanged.notify()
	g.requestUpdate()
	return nil
}

// Lookup resolves a dotted path to a leaf control. The first segment must
// name a child: a leaf ends the walk, a nested group consumes the segment
// and recurses. Anything else — a missing key, a list, or a path ending
// on a composite — yields nil, meaning "no binding". Lists must be
// iterated and bound per element by the caller.
func (g *Group) Lookup(path string) Leaf {
	name, rest, nested := strings.Cut(path, ".")
	c := g.Get(name)
	if c == nil {
		return nil
	}
	if nested {
		if sub, ok := c.(*Group); ok {
			return sub.Lookup(rest)
		}
		return nil
	}
	if leaf, ok := c.(Leaf); ok {
		return leaf
	}
	return nil
}

// Attach binds the group and all children to host, wiring the fan-in
// subscriptions before the group's own validation starts so the initial
// run observes the full subtree.
func (g *Group) Attach(host Host) {
	if g.attached {
		g.Detach()
	}
	for _, k := range g.Keys() {
		c := g.Get(k)
		g.wireChild(k, c)
		c.Attach(host)
	}
	g.base.attach(host)
}

// Detach stops the group's validation, drops the fan-in subscriptions,
// and detaches every child.
func (g *Group) Detach() {
	if !g.attached {
		return
	}
	g.base.detach()
	for _, k := range g.Keys() {
		g.unwireChild(k)
		g.Get(k).Detach()
	}
}

// wireChild composes the child's streams into the group's: child value
// and structure changes become group value changes (the group's value is
// derived), child status changes become group status changes.
func (g *Group) wireChild(key string, c Control) {
	subs := []func(){
		c.OnValueChange(g.valueChanged.notify),
		c.OnStructureChange(g.valueChanged.notify),
		c.OnStatusChange(g.statusChanged.notify),
	}
	g.mu.Lock()
	g.fanIn[key] = subs
	g.mu.Unlock()
}

func (g *Group) unwireChild(key string) {
	g.mu.Lock()
	subs := g.fanIn[key]
	delete(g.fanIn, key)
	g.mu.Unlock()
	for _, unsub := range subs {
		unsub()
	}
}
