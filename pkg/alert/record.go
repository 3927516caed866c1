package alert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ExceptionKey is the reserved context key whose error value is rendered as
// an exception block instead of a key/value line.
const ExceptionKey = "exception"

const badKey = "!BADKEY"

// Field is a single context entry.
type Field struct {
	Key   string
	Value any
}

// Fields is an ordered context mapping. It marshals to a JSON object that keeps
// insertion order.
type Fields []Field

// Record is a log record handed to the sink. It must not be mutated after
// being passed to Handle.
type Record struct {
	Severity Severity
	Message  string
	Context  Fields
	// Time is when the record was emitted, if known.
	Time time.Time
}

// Ctx builds Fields from alternating key/value arguments.
// A non-string key is formatted with fmt; a trailing value without a key is
// stored under "!BADKEY".
func Ctx(kv ...any) Fields {
	out := make(Fields, 0, (len(kv)+1)/2)
	for len(kv) > 0 {
		if len(kv) == 1 {
			out = append(out, Field{Key: badKey, Value: kv[0]})
			break
		}
		key, ok := kv[0].(string)
		if !ok {
			key = fmt.Sprint(kv[0])
		}
		out = append(out, Field{Key: key, Value: kv[1]})
		kv = kv[2:]
	}
	return out
}

// Get returns the last value stored under key.
func (fs Fields) Get(key string) (any, bool) {
	for i := len(fs) - 1; i >= 0; i-- {
		if fs[i].Key == key {
			return fs[i].Value, true
		}
	}
	return nil, false
}

func (fs Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	for i, f := range fs {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(f.Key); err != nil {
			return nil, err
		}
		trimNewline(&buf)
		buf.WriteByte(':')
		if err := enc.Encode(f.Value); err != nil {
			return nil, err
		}
		trimNewline(&buf)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// trimNewline drops the newline json.Encoder appends after each value.
func trimNewline(buf *bytes.Buffer) {
	if n := buf.Len(); n > 0 && buf.Bytes()[n-1] == '\n' {
		buf.Truncate(n - 1)
	}
}
