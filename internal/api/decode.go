package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/schema"

	"gilnokie-backend/internal/parse"
)

var (
	schemaCache sync.Map
	timeType    = reflect.TypeOf(time.Time{})
	nullJSON    = []byte("null")
)

// readOnlyKeys are never taken from a request body.
var readOnlyKeys = []string{"id", "createdAt", "updatedAt", "deletedAt"}

// body is a decoded JSON object whose values are parsed lazily, so handlers can tell an
// absent key from an explicit null.
type body map[string]json.RawMessage

// bind decodes the request body, answering 400 itself when it is not a JSON object.
func bind(c *gin.Context) (body, bool) {
	var b body
	if err := c.ShouldBindJSON(&b); err != nil || b == nil {
		badRequest(c, "Invalid request body")
		return nil, false
	}
	return b, true
}

func (b body) isNull(key string) bool {
	v, ok := b[key]
	return !ok || bytes.Equal(bytes.TrimSpace(v), nullJSON)
}

// truthy reports whether key holds a value other than null, false, 0 or "".
func (b body) truthy(key string) bool {
	if b.isNull(key) {
		return false
	}
	switch strings.TrimSpace(string(b[key])) {
	case "false", "0", `""`:
		return false
	}
	return true
}

// allTruthy reports whether every key is truthy.
func (b body) allTruthy(keys ...string) bool {
	for _, k := range keys {
		if !b.truthy(k) {
			return false
		}
	}
	return true
}

// str returns the string held by key, or "" when it is absent or not a string.
func (b body) str(key string) string {
	var s string
	if b.isNull(key) || json.Unmarshal(b[key], &s) != nil {
		return ""
	}
	return s
}

// stringList returns the string array held by key.
func (b body) stringList(key string) ([]string, error) {
	if b.isNull(key) {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal(b[key], &out); err != nil {
		return nil, invalidValue(key)
	}
	return out, nil
}

func invalidValue(key string) error {
	return &requestError{msg: fmt.Sprintf("Invalid value for %s", key)}
}

// jsonFields indexes the columns of mdl by their JSON name.
func jsonFields(mdl any) (map[string]*schema.Field, error) {
	s, err := schema.Parse(mdl, &schemaCache, schema.NamingStrategy{})
	if err != nil {
		return nil, err
	}
	out := make(map[string]*schema.Field, len(s.Fields))
	for _, f := range s.Fields {
		if f.DBName == "" {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		out[name] = f
	}
	return out, nil
}

// normalise rewrites raw into the shape encoding/json expects for f: calendar dates become
// RFC 3339 timestamps, empty dates become null and quoted integers are unquoted.
func normalise(f *schema.Field, key string, raw json.RawMessage) (json.RawMessage, error) {
	if bytes.Equal(bytes.TrimSpace(raw), nullJSON) {
		return raw, nil
	}
	switch {
	case f.IndirectFieldType == timeType:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, invalidValue(key)
		}
		if strings.TrimSpace(s) == "" {
			return nullJSON, nil
		}
		t, err := parse.Date(s)
		if err != nil {
			return nil, invalidValue(key)
		}
		return json.Marshal(t)
	case f.IndirectFieldType.Kind() >= reflect.Int && f.IndirectFieldType.Kind() <= reflect.Int64:
		var s string
		if json.Unmarshal(raw, &s) == nil {
			s = strings.TrimSpace(s)
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				return nil, invalidValue(key)
			}
			return json.RawMessage(s), nil
		}
	}
	return raw, nil
}

// decodeModel fills dst from b. Only column keys are read, plus the association keys
// listed in keep; read-only keys are dropped. Fields absent from b keep the values dst
// already holds.
func decodeModel(b body, dst any, keep ...string) error {
	fields, err := jsonFields(dst)
	if err != nil {
		return err
	}
	clean := make(body, len(b))
	for k, v := range b {
		if slices.Contains(readOnlyKeys, k) {
			continue
		}
		f, ok := fields[k]
		switch {
		case ok:
			if v, err = normalise(f, k, v); err != nil {
				return err
			}
		case !slices.Contains(keep, k):
			continue
		}
		clean[k] = v
	}

	raw, err := json.Marshal(clean)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		var te *json.UnmarshalTypeError
		if errors.As(err, &te) {
			return invalidValue(te.Field)
		}
		return &requestError{msg: "Invalid request body"}
	}
	return nil
}

// patchFields converts the column keys of b into a column map for mdl. Unknown keys,
// associations and read-only keys, including those in skip, are ignored. An explicit null
// clears a nullable column and is rejected for a required one.
func patchFields(b body, mdl any, skip ...string) (map[string]any, error) {
	fields, err := jsonFields(mdl)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(b))
	for k, v := range b {
		f, ok := fields[k]
		if !ok || slices.Contains(readOnlyKeys, k) || slices.Contains(skip, k) {
			continue
		}
		v, err := normalise(f, k, v)
		if err != nil {
			return nil, err
		}
		if bytes.Equal(bytes.TrimSpace(v), nullJSON) {
			if f.NotNull {
				return nil, &requestError{msg: fmt.Sprintf("%s cannot be empty", k)}
			}
			out[f.DBName] = nil
			continue
		}
		ptr := reflect.New(f.FieldType)
		if err := json.Unmarshal(v, ptr.Interface()); err != nil {
			return nil, invalidValue(k)
		}
		out[f.DBName] = ptr.Elem().Interface()
	}
	return out, nil
}
