package models

import (
	"bytes"
	"encoding/json"
)

// splitKeys returns the members of the JSON object b that are not in known,
// and the known keys b does not carry.
func splitKeys(b []byte, known []string) (extra map[string]json.RawMessage, absent map[string]bool, err error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return nil, nil, err
	}
	for _, k := range known {
		if _, ok := all[k]; ok {
			delete(all, k)
			continue
		}
		if absent == nil {
			absent = map[string]bool{}
		}
		absent[k] = true
	}
	if len(all) == 0 {
		all = nil
	}
	return all, absent, nil
}

// object is a JSON object being assembled for encoding.
type object map[string]json.RawMessage

func encodeObject(v any) (object, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var o object
	if err := json.Unmarshal(b, &o); err != nil {
		return nil, err
	}
	return o, nil
}

// omitUnset drops key when the decoded document did not carry it and the
// value still equals what its absence implied.
func (o object) omitUnset(absent map[string]bool, key string, unchanged bool) {
	if absent[key] && unchanged {
		delete(o, key)
	}
}

// marshal merges the preserved keys back in. Known keys win.
func (o object) marshal(extra map[string]json.RawMessage) ([]byte, error) {
	for k, raw := range extra {
		if _, ok := o[k]; !ok {
			o[k] = raw
		}
	}
	return json.Marshal(map[string]json.RawMessage(o))
}

// MergeOver encodes v and lays it over the JSON object base. Objects are
// merged key by key at every depth; any other value in v replaces the one in
// base. Members of base that v does not encode are kept as they are.
func MergeOver(base json.RawMessage, v any) (json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(base)) == 0 {
		return b, nil
	}
	return mergeRaw(base, b)
}

func mergeRaw(base, over json.RawMessage) (json.RawMessage, error) {
	var bo, oo map[string]json.RawMessage
	if json.Unmarshal(base, &bo) != nil || json.Unmarshal(over, &oo) != nil || bo == nil || oo == nil {
		return over, nil
	}
	for k, ov := range oo {
		if bv, ok := bo[k]; ok {
			merged, err := mergeRaw(bv, ov)
			if err != nil {
				return nil, err
			}
			bo[k] = merged
			continue
		}
		bo[k] = ov
	}
	return json.Marshal(bo)
}
