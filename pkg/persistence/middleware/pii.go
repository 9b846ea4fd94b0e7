package middleware

import (
	"context"
	"encoding/json"
	"reflect"
	"regexp"

	"github.com/aretw0/flowline/pkg/domain"
	"github.com/aretw0/flowline/pkg/ports"
)

// Mask replaces the values of masked keys.
const Mask = "***"

type piiMiddleware struct {
	next     ports.RunStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks the values of data keys
// matching any of the patterns, at any depth, before the record is stored.
// Masking is one-way: loads return the masked values.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.RunStore) ports.RunStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, run domain.Run) error {
	// The engine keeps using the caller's state; mask a copy.
	if run.State != nil {
		masked := *run.State
		masked.Data = m.maskData(run.State.Data)
		run.State = &masked
	}
	return m.next.Save(ctx, run)
}

func (m *piiMiddleware) Load(ctx context.Context, id string) (domain.Run, error) {
	return m.next.Load(ctx, id)
}

func (m *piiMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *piiMiddleware) maskData(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		if matchesAny(k, m.patterns) {
			out[k] = Mask
			continue
		}
		out[k] = m.maskValue(reflect.ValueOf(v))
	}
	return out
}

// maskValue returns a masked copy of v. String-keyed maps of any type come
// back as map[string]any, slices and arrays as []any. Structs are walked
// through their JSON form, which is how the stores persist them.
func (m *piiMiddleware) maskValue(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return v.Interface()
		}
		return m.maskValue(v.Elem())
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return v.Interface()
		}
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			k := iter.Key().String()
			if matchesAny(k, m.patterns) {
				out[k] = Mask
				continue
			}
			out[k] = m.maskValue(iter.Value())
		}
		return out
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && (v.IsNil() || v.Type().Elem().Kind() == reflect.Uint8) {
			return v.Interface()
		}
		out := make([]any, v.Len())
		for i := range out {
			out[i] = m.maskValue(v.Index(i))
		}
		return out
	case reflect.Struct:
		if !v.CanInterface() {
			return nil
		}
		raw, err := json.Marshal(v.Interface())
		if err != nil {
			return v.Interface()
		}
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return v.Interface()
		}
		return m.maskValue(reflect.ValueOf(generic))
	}
	return v.Interface()
}

func matchesAny(s string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
