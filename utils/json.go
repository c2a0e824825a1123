package utils

import (
	"encoding/json"
	"strconv"

	"github.com/buger/jsonparser"
)

// JsonHasKeys reports whether every key is present at the top level of the object.
func JsonHasKeys(data []byte, keys ...string) bool {
	for _, k := range keys {
		if _, _, _, err := jsonparser.Get(data, k); err != nil {
			return false
		}
	}
	return true
}

// JsonObjectFields splits a JSON object into its members, keeping every value
// as raw JSON so that callers can check its type later.
func JsonObjectFields(data []byte) (map[string]json.RawMessage, error) {
	fields := make(map[string]json.RawMessage)
	err := jsonparser.ObjectEach(data, func(key []byte, value []byte, dataType jsonparser.ValueType, _ int) error {
		k, err := jsonparser.ParseString(key)
		if err != nil {
			return err
		}
		raw := make([]byte, 0, len(value)+2)
		if dataType == jsonparser.String {
			// ObjectEach strips the quotes but keeps the escapes
			raw = append(raw, '"')
			raw = append(raw, value...)
			raw = append(raw, '"')
		} else {
			raw = append(raw, value...)
		}
		fields[k] = raw
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fields, nil
}

func JsonExtractStringOrDefault(data []byte, def string, keys ...string) string {
	value, err := jsonparser.GetString(data, keys...)
	if err != nil {
		return def
	}
	return value
}

func JsonExtractFloatOrDefault(data []byte, def float64, keys ...string) float64 {
	value, err := jsonparser.GetFloat(data, keys...)
	if err != nil {
		return def
	}
	return value
}

func JsonExtractIntOrDefault(data []byte, def int, keys ...string) int {
	value, _, _, err := jsonparser.Get(data, keys...)
	if err != nil {
		return def
	}
	i, err := strconv.Atoi(string(value))
	if err != nil {
		return def
	}
	return i
}

// JsonExtractBool extracts a boolean value at the key path. If it does not exist, returns false
func JsonExtractBool(data []byte, keys ...string) bool {
	value, err := jsonparser.GetBoolean(data, keys...)
	if err != nil {
		return false
	}
	return value
}
