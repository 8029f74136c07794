package control

import "sync"

// List is a composite control holding an ordered sequence of children,
// typically all of one kind. It has no default value: Reset resets the
// existing children in place and never changes the length; Clear is the
// only operation that empties it.
//
// Structural operations with out-of-range indices are silent no-ops that
// emit nothing. Bounds-checking every bulk UI operation at the call site
// is impractical, so the engine absorbs them.
type List struct {
	base

	mu       sync.RWMutex
	children []Control
	fanIn    map[Control][]func()
}

// NewList creates a detached list owning the given children.
func NewList(children ...Control) *List {
	l := &List{
		children: append([]Control(nil), children...),
		fanIn:    make(map[Control][]func()),
	}
	l.init(l)
	return l
}

// Get returns the child at index, or nil when out of range.
func (l *List) Get(index int) Control {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if index < 0 || index >= len(l.children) {
		return nil
	}
	return l.children[index]
}

// Len returns the number of children.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.children)
}

// Value builds the ordered sequence of child values.
func (l *List) Value() any {
	children := l.snapshotChildren()
	out := make([]any, len(children))
	for i, c := range children {
		out[i] = c.Value()
	}
	return out
}

// EnabledValue is like Value but omits disabled leaf children.
func (l *List) EnabledValue() any {
	children := l.snapshotChildren()
	out := make([]any, 0, len(children))
	for _, c := range children {
		if v, ok := enabledValueOf(c); ok {
			out = append(out, v)
		}
	}
	return out
}

// Set applies values[i] to the child at i for every index present in
// both. It never creates or removes children; extra values beyond the
// current length are silently ignored.
func (l *List) Set(values []any) {
	children := l.snapshotChildren()
	for i, c := range children {
		if i >= len(values) {
			break
		}
		c.SetValue(values[i])
	}
}

// SetValue writes an untyped value; it must be a []any.
func (l *List) SetValue(v any) { l.Set(v.([]any)) }

// Reset resets every existing child in place. The length is unchanged.
func (l *List) Reset(clearStates bool) {
	for _, c := range l.snapshotChildren() {
		c.Reset(clearStates)
	}
}

// Clear removes every child, detaching each. It does not call the
// children's Reset. Clearing an empty list is a no-op.
func (l *List) Clear() {
	l.mu.Lock()
	removed := l.children
	l.children = nil
	l.mu.Unlock()
	if len(removed) == 0 {
		return
	}
	for _, c := range removed {
		l.unwireChild(c)
		c.Detach()
	}
	l.structureChanged.notify()
	l.requestUpdate()
}

// InsertAt inserts c at index, shifting later children. A no-op when
// index is negative or greater than the length.
func (l *List) InsertAt(c Control, index int) {
	l.mu.Lock()
	if index < 0 || index > len(l.children) {
		l.mu.Unlock()
		return
	}
	l.children = append(l.children, nil)
	copy(l.children[index+1:], l.children[index:])
	l.children[index] = c
	l.mu.Unlock()

	if l.attached {
		l.wireChild(c)
		c.Attach(l.host)
	}
	l.structureChanged.notify()
	l.requestUpdate()
}

// Append adds c at the end.
func (l *List) Append(c Control) { l.InsertAt(c, l.Len()) }

// Prepend adds c at the front.
func (l *List) Prepend(c Control) { l.InsertAt(c, 0) }

// RemoveAt removes and returns the child at index, detaching it. A no-op
// returning nil when index is out of range.
func (l *List) RemoveAt(index int) Control {
	l.mu.Lock()
	if index < 0 || index >= len(l.children) {
		l.mu.Unlock()
		return nil
	}
	c := l.children[index]
	l.children = append(l.children[:index], l.children[index+1:]...)
	l.mu.Unlock()

	l.unwireChild(c)
	c.Detach()
	l.structureChanged.notify()
	l.requestUpdate()
	return c
}

// Pop removes and returns the last child, or nil when empty.
func (l *List) Pop() Control { return l.RemoveAt(l.Len() - 1) }

// Swap exchanges the children at a and b. A no-op unless both indices are
// valid.
func (l *List) Swap(a, b int) {
	l.mu.Lock()
	if a < 0 || a >= len(l.children) || b < 0 || b >= len(l.children) {
		l.mu.Unlock()
		return
	}
	l.children[a], l.children[b] = l.children[b], l.children[a]
	l.mu.Unlock()

	l.structureChanged.notify()
	l.requestUpdate()
}

// Move removes the child at from and reinserts it at to, so
// [a b c].Move(0, 2) yields [b c a]. A no-op unless both indices are
// valid.
func (l *List) Move(from, to int) {
	l.mu.Lock()
	n := len(l.children)
	if from < 0 || from >= n || to < 0 || to >= n {
		l.mu.Unlock()
		return
	}
	c := l.children[from]
	l.children = append(l.children[:from], l.children[from+1:]...)
	l.children = append(l.children, nil)
	copy(l.children[to+1:], l.children[to:])
	l.children[to] = c
	l.mu.Unlock()

	l.structureChanged.notify()
	l.requestUpdate()
}

// IsDirty reports whether any child is dirty.
func (l *List) IsDirty() bool { return l.anyChild(Control.IsDirty) }

// IsTouched reports whether any child is touched.
func (l *List) IsTouched() bool { return l.anyChild(Control.IsTouched) }

// IsBlurred reports whether any child is blurred.
func (l *List) IsBlurred() bool { return l.anyChild(Control.IsBlurred) }

func (l *List) anyChild(pred func(Control) bool) bool {
	for _, c := range l.snapshotChildren() {
		if pred(c) {
			return true
		}
	}
	return false
}

// Status merges the list's own error sources with its children, mirroring
// Group exactly.
func (l *List) Status() Status {
	return mergeChildStatus(l.ownStatus(), func(yield func(Control) bool) {
		for _, c := range l.snapshotChildren() {
			if !yield(c) {
				return
			}
		}
	})
}

// Attach binds the list and all children to host.
func (l *List) Attach(host Host) {
	if l.attached {
		l.Detach()
	}
	for _, c := range l.snapshotChildren() {
		l.wireChild(c)
		c.Attach(host)
	}
	l.base.attach(host)
}

// Detach stops the list's validation, drops the fan-in subscriptions, and
// detaches every child.
func (l *List) Detach() {
	if !l.attached {
		return
	}
	l.base.detach()
	for _, c := range l.snapshotChildren() {
		l.unwireChild(c)
		c.Detach()
	}
}

func (l *List) snapshotChildren() []Control {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Control, len(l.children))
	copy(out, l.children)
	return out
}

func (l *List) wireChild(c Control) {
	subs := []func(){
		c.OnValueChange(l.valueChanged.notify),
		c.OnStructureChange(l.valueChanged.notify),
		c.OnStatusChange(l.statusChanged.notify),
	}
	l.mu.Lock()
	l.fanIn[c] = subs
	l.mu.Unlock()
}

func (l *List) unwireChild(c Control) {
	l.mu.Lock()
	subs := l.fanIn[c]
	delete(l.fanIn, c)
	l.mu.Unlock()
	for _, unsub := range subs {
		unsub()
	}
}
