package control

import json "github.com/goccy/go-json"

// Snapshot encodes the control's current value tree as JSON. Hosts use it
// for display or submission payloads; schema validators use it as their
// document.
func Snapshot(c Control) ([]byte, error) {
	return json.Marshal(c.Value())
}

// EnabledSnapshot is like Snapshot but encodes the enabled value:
// disabled leaves are omitted from composites. A disabled root leaf still
// encodes its own value; omission is a parent-side concern.
func EnabledSnapshot(c Control) ([]byte, error) {
	switch cc := c.(type) {
	case *Group:
		return json.Marshal(cc.EnabledValue())
	case *List:
		return json.Marshal(cc.EnabledValue())
	}
	return json.Marshal(c.Value())
}
