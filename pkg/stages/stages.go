// Package stages provides the catalogue of record cleaning stages and a registry building them
// by name.
package stages

import (
	"context"
	"strings"

	"github.com/askiada/go-recordpipe/pkg/pipeline"
	"github.com/askiada/go-recordpipe/pkg/record"
)

// Stage is a stage applied to records.
type Stage = pipeline.Stage[record.Record]

const (
	domainText    = "text or mapping"
	domainNumber  = "number"
	domainNumeric = "number or mapping"
	domainMapping = "mapping"
)

func isTextual(r record.Record) bool {
	return r.Kind() == record.Text || r.Kind() == record.Map
}

func isNumber(r record.Record) bool {
	return r.Kind() == record.Number
}

func isNumeric(r record.Record) bool {
	return r.Kind() == record.Number || r.Kind() == record.Map
}

func isMapping(r record.Record) bool {
	return r.Kind() == record.Map
}

// mapText applies fn to a text, or to every text field of a mapping.
func mapText(r record.Record, fn func(string) string) record.Record {
	if s, ok := r.Text(); ok {
		return record.NewText(fn(s))
	}
	if r.Kind() != record.Map {
		return r
	}

	return r.MapValues(func(_ string, v record.Record) record.Record {
		return mapText(v, fn)
	})
}

// mapNumber applies fn to a number, or to every numeric field of a mapping.
func mapNumber(r record.Record, fn func(float64) float64) record.Record {
	if f, ok := r.Number(); ok {
		return record.NewNumber(fn(f))
	}
	if r.Kind() != record.Map {
		return r
	}

	return r.MapValues(func(_ string, v record.Record) record.Record {
		return mapNumber(v, fn)
	})
}

// Lowercase lowercases a text or the text fields of a mapping.
func Lowercase() Stage {
	return pipeline.WithDomain(pipeline.Map("lowercase", func(r record.Record) record.Record {
		return mapText(r, strings.ToLower)
	}), domainText, isTextual)
}

// Uppercase uppercases a text or the text fields of a mapping.
func Uppercase() Stage {
	return pipeline.WithDomain(pipeline.Map("uppercase", func(r record.Record) record.Record {
		return mapText(r, strings.ToUpper)
	}), domainText, isTextual)
}

// Trim removes leading and trailing whitespace from a text or the text fields of a mapping.
func Trim() Stage {
	return pipeline.WithDomain(pipeline.Map("trim", func(r record.Record) record.Record {
		return mapText(r, strings.TrimSpace)
	}), domainText, isTextual)
}

// DropNull drops null records and removes the null fields of mappings.
func DropNull() Stage {
	return pipeline.StageFunc("drop_null", func(_ context.Context, r record.Record) (record.Record, bool, error) {
		if r.IsNull() {
			return r, false, nil
		}
		if r.Kind() != record.Map {
			return r, true, nil
		}

		fields := []record.Field{}
		for _, f := range r.Fields() {
			if !f.Value.IsNull() {
				fields = append(fields, f)
			}
		}

		return record.NewMap(fields...), true, nil
	})
}

// DropEmpty drops null records and empty texts.
func DropEmpty() Stage {
	return pipeline.Filter("drop_empty", func(r record.Record) bool {
		if r.IsNull() {
			return false
		}
		s, ok := r.Text()

		return !ok || s != ""
	})
}

// FillNull replaces a null record, or the null fields of a mapping, with value.
func FillNull(value record.Record) Stage {
	return pipeline.Map("fill_null", func(r record.Record) record.Record {
		if r.IsNull() {
			return value
		}
		if r.Kind() != record.Map {
			return r
		}

		return r.MapValues(func(_ string, v record.Record) record.Record {
			if v.IsNull() {
				return value
			}

			return v
		})
	})
}

// Scale multiplies a number, or the numeric fields of a mapping, by factor.
func Scale(factor float64) Stage {
	return pipeline.WithDomain(pipeline.Map("scale", func(r record.Record) record.Record {
		return mapNumber(r, func(f float64) float64 { return f * factor })
	}), domainNumeric, isNumeric)
}

// Offset adds delta to a number, or to the numeric fields of a mapping.
func Offset(delta float64) Stage {
	return pipeline.WithDomain(pipeline.Map("offset", func(r record.Record) record.Record {
		return mapNumber(r, func(f float64) float64 { return f + delta })
	}), domainNumeric, isNumeric)
}

// FilterGreaterThan keeps the numbers strictly greater than threshold.
func FilterGreaterThan(threshold float64) Stage {
	return pipeline.WithDomain(pipeline.Filter("filter_gt", func(r record.Record) bool {
		f, _ := r.Number()
		return f > threshold
	}), domainNumber, isNumber)
}

// FilterLessThan keeps the numbers strictly less than threshold.
func FilterLessThan(threshold float64) Stage {
	return pipeline.WithDomain(pipeline.Filter("filter_lt", func(r record.Record) bool {
		f, _ := r.Number()
		return f < threshold
	}), domainNumber, isNumber)
}

// Dedupe keeps the first occurrence of every record.
func Dedupe() Stage {
	return pipeline.UniqueBy("dedupe", record.Record.Key)
}

// Select keeps the given fields of a mapping, in the given order. Missing fields are skipped.
func Select(keys ...string) Stage {
	return pipeline.WithDomain(pipeline.Map("select", func(r record.Record) record.Record {
		fields := make([]record.Field, 0, len(keys))
		for _, k := range keys {
			if v, ok := r.Get(k); ok {
				fields = append(fields, record.F(k, v))
			}
		}

		return record.NewMap(fields...)
	}), domainMapping, isMapping)
}

// ParseNumber turns a text holding a number into a number. Numbers pass through.
func ParseNumber() Stage {
	const name = "parse_number"

	return pipeline.StageFunc(name, func(_ context.Context, r record.Record) (record.Record, bool, error) {
		if isNumber(r) {
			return r, true, nil
		}

		s, ok := r.Text()
		if !ok {
			return r, false, pipeline.NewDomainError(name, r, "numeric text")
		}
		f, ok := record.ParseNumber(strings.TrimSpace(s))
		if !ok {
			return r, false, pipeline.NewDomainError(name, r, "numeric text")
		}

		return record.NewNumber(f), true, nil
	})
}

// Parse parses a raw text line, or every text field of a mapping, with record.Parse. Other
// records and fields pass through. A malformed text fails with a domain error.
func Parse() Stage {
	const name = "parse"

	return pipeline.StageFunc(name, func(_ context.Context, r record.Record) (record.Record, bool, error) {
		if s, ok := r.Text(); ok {
			out, err := record.Parse(s)
			if err != nil {
				return r, false, pipeline.NewDomainError(name, r, "well formed record")
			}

			return out, true, nil
		}
		if !isMapping(r) {
			return r, true, nil
		}

		fields := r.Fields()
		for i, f := range fields {
			s, ok := f.Value.Text()
			if !ok {
				continue
			}
			v, err := record.Parse(s)
			if err != nil {
				return r, false, pipeline.NewDomainError(name+"@"+f.Key, f.Value, "well formed record")
			}
			fields[i] = record.F(f.Key, v)
		}

		return record.NewMap(fields...), true, nil
	})
}

// WithParse returns steps preceded by Parse, for pipelines reading raw text.
func WithParse(steps []Stage) []Stage {
	return append([]Stage{Parse()}, steps...)
}

// OnField applies stage to the value of one field of a mapping. Records without the field
// pass through; a field dropped by stage is removed.
func OnField(key string, stage Stage) Stage {
	name := stage.Name() + "@" + key
	apply := func(ctx context.Context, inner Stage, r record.Record) (record.Record, bool, error) {
		v, ok := r.Get(key)
		if !ok {
			return r, true, nil
		}

		out, keep, err := inner.Apply(ctx, v)
		if err != nil {
			return r, false, err
		}
		if !keep {
			return r.Without(key), true, nil
		}

		return r.With(key, out), true, nil
	}

	return pipeline.WithDomain(&fieldStage{name: name, inner: stage, apply: apply}, domainMapping, isMapping)
}

type fieldStage struct {
	inner Stage
	apply func(ctx context.Context, inner Stage, r record.Record) (record.Record, bool, error)
	name  string
}

func (s *fieldStage) Name() string { return s.name }

func (s *fieldStage) Apply(ctx context.Context, r record.Record) (record.Record, bool, error) {
	return s.apply(ctx, s.inner, r)
}

func (s *fieldStage) Open() Stage {
	inner := s.inner
	if o, ok := inner.(pipeline.Opener[record.Record]); ok {
		inner = o.Open()
	}

	return &fieldStage{name: s.name, inner: inner, apply: s.apply}
}
