package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// FlexID is an entity id that tolerates the shapes legacy profile documents
// carry: a plain string, a numeric id, an embedded object with "_id" or "id",
// or null. It always normalizes to the string form; null/absent becomes "".
type FlexID string

func (f FlexID) String() string { return string(f) }

// IsZero reports whether no id could be resolved.
func (f FlexID) IsZero() bool { return f == "" }

func (f *FlexID) UnmarshalJSON(data []byte) error {
	s, err := coerceJSONID(data)
	if err != nil {
		return err
	}
	*f = FlexID(s)
	return nil
}

func (f FlexID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(f))
}

func (f *FlexID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	s, err := coerceBSONID(bson.RawValue{Type: t, Value: data})
	if err != nil {
		return err
	}
	*f = FlexID(s)
	return nil
}

// FlexIDList is a set of ids that may arrive as a scalar (any FlexID shape),
// an array of such shapes, or null. It normalizes to a list of non-empty
// string ids; unresolvable entries are dropped, never kept as "".
type FlexIDList []string

func (l *FlexIDList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*l = nil
		return nil
	}
	if data[0] != '[' {
		s, err := coerceJSONID(data)
		if err != nil {
			return err
		}
		*l = appendNonEmpty(nil, s)
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(FlexIDList, 0, len(raw))
	for _, r := range raw {
		s, err := coerceJSONID(r)
		if err != nil {
			return err
		}
		out = appendNonEmpty(out, s)
	}
	*l = out
	return nil
}

func (l FlexIDList) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string(l))
}

func (l *FlexIDList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	if t != bsontype.Array {
		s, err := coerceBSONID(rv)
		if err != nil {
			return err
		}
		*l = appendNonEmpty(nil, s)
		return nil
	}

	values, err := bson.Raw(rv.Value).Values()
	if err != nil {
		return err
	}
	out := make(FlexIDList, 0, len(values))
	for _, v := range values {
		s, err := coerceBSONID(v)
		if err != nil {
			return err
		}
		out = appendNonEmpty(out, s)
	}
	*l = out
	return nil
}

func appendNonEmpty(l FlexIDList, s string) FlexIDList {
	if s == "" {
		return l
	}
	return append(l, s)
}

func coerceJSONID(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return "", nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return "", err
		}
		if v, ok := obj["_id"]; ok {
			return coerceJSONID(v)
		}
		if v, ok := obj["id"]; ok {
			return coerceJSONID(v)
		}
		return "", nil
	case '[':
		return "", fmt.Errorf("flexid: unexpected array for scalar id")
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return "", err
		}
		return n.String(), nil
	}
}

func coerceBSONID(rv bson.RawValue) (string, error) {
	switch rv.Type {
	case bsontype.Null, bsontype.Undefined:
		return "", nil
	case bsontype.String:
		return rv.StringValue(), nil
	case bsontype.ObjectID:
		oid, _ := rv.ObjectIDOK()
		return oid.Hex(), nil
	case bsontype.Int32:
		return strconv.FormatInt(int64(rv.Int32()), 10), nil
	case bsontype.Int64:
		return strconv.FormatInt(rv.Int64(), 10), nil
	case bsontype.EmbeddedDocument:
		doc := bson.Raw(rv.Value)
		if v, err := doc.LookupErr("_id"); err == nil {
			return coerceBSONID(v)
		}
		if v, err := doc.LookupErr("id"); err == nil {
			return coerceBSONID(v)
		}
		return "", nil
	default:
		return "", fmt.Errorf("flexid: unsupported bson type %s", rv.Type)
	}
}
