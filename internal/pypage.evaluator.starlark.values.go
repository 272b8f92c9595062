package internal

import (
	"fmt"
	"sort"

	"go.starlark.net/starlark"
)

// Str returns the textual form of v the way Python's str() would:
// strings are unquoted, everything else uses its Starlark representation.
func Str(v starlark.Value) string {
	if v == nil {
		return starlark.None.String()
	}
	if s, ok := starlark.AsString(v); ok {
		return s
	}
	return v.String()
}

// ToStarlark converts a Go value to a Starlark value
func ToStarlark(val any) (starlark.Value, error) {
	switch v := val.(type) {
	case nil:
		return starlark.None, nil
	case starlark.Value:
		return v, nil
	case string:
		return starlark.String(v), nil
	case bool:
		return starlark.Bool(v), nil
	case int:
		return starlark.MakeInt(v), nil
	case int8:
		return starlark.MakeInt64(int64(v)), nil
	case int16:
		return starlark.MakeInt64(int64(v)), nil
	case int32:
		return starlark.MakeInt64(int64(v)), nil
	case int64:
		return starlark.MakeInt64(v), nil
	case uint:
		return starlark.MakeUint(v), nil
	case uint8:
		return starlark.MakeUint64(uint64(v)), nil
	case uint16:
		return starlark.MakeUint64(uint64(v)), nil
	case uint32:
		return starlark.MakeUint64(uint64(v)), nil
	case uint64:
		return starlark.MakeUint64(v), nil
	case float32:
		return starlark.Float(float64(v)), nil
	case float64:
		return starlark.Float(v), nil
	case []string:
		items := make([]starlark.Value, len(v))
		for i, item := range v {
			items[i] = starlark.String(item)
		}
		return starlark.NewList(items), nil
	case []any:
		items := make([]starlark.Value, len(v))
		for i, item := range v {
			converted, err := ToStarlark(item)
			if err != nil {
				return nil, err
			}
			items[i] = converted
		}
		return starlark.NewList(items), nil
	case map[string]any:
		dict := starlark.NewDict(len(v))
		for _, key := range sortedKeys(v) {
			converted, err := ToStarlark(v[key])
			if err != nil {
				return nil, err
			}
			if err := dict.SetKey(starlark.String(key), converted); err != nil {
				return nil, err
			}
		}
		return dict, nil
	case map[string]string:
		dict := starlark.NewDict(len(v))
		for key, item := range v {
			if err := dict.SetKey(starlark.String(key), starlark.String(item)); err != nil {
				return nil, err
			}
		}
		return dict, nil
	default:
		return nil, fmt.Errorf(ErrFmtCannotConvert, val)
	}
}

// ToGo converts a Starlark value to plain Go data. Values of other types are
// returned unchanged; Starlark values without a Go counterpart become their
// string representation.
func ToGo(val any) any {
	sv, ok := val.(starlark.Value)
	if !ok {
		return val
	}

	switch v := sv.(type) {
	case starlark.NoneType:
		return nil
	case starlark.String:
		return string(v)
	case starlark.Bool:
		return bool(v)
	case starlark.Int:
		if i, ok := v.Int64(); ok {
			return i
		}
		return v.String()
	case starlark.Float:
		return float64(v)
	case *starlark.List:
		items := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			items[i] = ToGo(v.Index(i))
		}
		return items
	case starlark.Tuple:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = ToGo(item)
		}
		return items
	case *starlark.Dict:
		dict := make(map[string]any, v.Len())
		for _, item := range v.Items() {
			dict[Str(item[0])] = ToGo(item[1])
		}
		return dict
	default:
		return sv.String()
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
