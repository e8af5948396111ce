package models

// JSONValue is a generic type to represent any JSON value.
// This can be a string, json.Number, bool, nil, JSONObject or JSONArray.
type JSONValue interface{}

// JSONMember is a single key/value pair of a JSON object.
type JSONMember struct {
	Key   string
	Value JSONValue
}

// JSONObject represents a JSON object as an ordered list of members.
// Keys are unique and kept in the order they first appeared in the source.
type JSONObject []JSONMember

// JSONArray represents a JSON array, which is a slice of JSONValues.
type JSONArray []JSONValue

// Get returns the value stored under key.
func (o JSONObject) Get(key string) (JSONValue, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Keys returns the object's keys in order.
func (o JSONObject) Keys() []string {
	keys := make([]string, len(o))
	for i, m := range o {
		keys[i] = m.Key
	}
	return keys
}

// IntermediateRepresentation holds the parsed JSON document.
type IntermediateRepresentation struct {
	Root        JSONValue
	RootIsArray bool // True if the root of the JSON is an array
}
