package core

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrPropsSerialization = errors.New("props are not JSON serializable")

type PropsSerializationError struct {
	PageID string
	Err    error
}

func (e *PropsSerializationError) Error() string {
	if e.PageID == "" {
		return fmt.Sprintf("%v: %v", ErrPropsSerialization, e.Err)
	}
	return fmt.Sprintf("%v for page %s: %v", ErrPropsSerialization, e.PageID, e.Err)
}

func (e *PropsSerializationError) Unwrap() error {
	return e.Err
}

func (e *PropsSerializationError) Is(target error) bool {
	return target == ErrPropsSerialization
}

// SerializeProps encodes props as the JSON carried by the hydration script.
// Nil props encode as an empty object.
func SerializeProps(pageID string, props any) (string, error) {
	if props == nil {
		return "{}", nil
	}

	data, err := json.Marshal(props)
	if err != nil {
		return "", &PropsSerializationError{PageID: pageID, Err: err}
	}
	if string(data) == "null" {
		return "{}", nil
	}
	return string(data), nil
}

// ParseProps decodes props the way the browser entry does.
func ParseProps(data string, v any) error {
	if data == "" {
		data = "{}"
	}
	return json.Unmarshal([]byte(data), v)
}
