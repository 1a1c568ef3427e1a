package aggregate

import (
	"strings"

	"github.com/cmlabs-hris/practice-kpi-backend/internal/pkg/timecode"
	"github.com/shopspring/decimal"
)

// Uncategorized is the bucket key used for rows missing their group key
const Uncategorized = "Uncategorized"

// Bucket holds accumulated totals for one group key
type Bucket struct {
	Key    string
	Amount decimal.Decimal
	Hours  float64
	Rows   int
	Tags   map[string]string
}

// Tag returns the most common value seen for attribute, or Uncategorized
func (b Bucket) Tag(attribute string) string {
	if v, ok := b.Tags[attribute]; ok {
		return v
	}
	return Uncategorized
}

// Spec describes how rows of type T are folded into buckets. Amount and Hours
// return raw stored values; they are coerced here and nowhere else.
type Spec[T any] struct {
	Key    func(T) string
	Amount func(T) any
	Hours  func(T) any
	Tags   map[string]func(T) string
}

// Fold groups rows by key and returns one bucket per distinct key, in the order
// keys were first observed. Rows are not modified.
func Fold[T any](rows []T, spec Spec[T]) []Bucket {
	type acc struct {
		bucket Bucket
		tags   map[string][]string
	}

	index := make(map[string]int)
	accs := make([]*acc, 0)

	for _, row := range rows {
		key := Uncategorized
		if spec.Key != nil {
			key = KeyOrDefault(spec.Key(row))
		}

		i, ok := index[key]
		if !ok {
			i = len(accs)
			index[key] = i
			accs = append(accs, &acc{
				bucket: Bucket{Key: key, Amount: decimal.Zero},
				tags:   make(map[string][]string),
			})
		}
		a := accs[i]

		a.bucket.Rows++
		if spec.Amount != nil {
			a.bucket.Amount = a.bucket.Amount.Add(Amount(spec.Amount(row)))
		}
		if spec.Hours != nil {
			a.bucket.Hours += timecode.Decode(spec.Hours(row))
		}
		for name, fn := range spec.Tags {
			a.tags[name] = append(a.tags[name], KeyOrDefault(fn(row)))
		}
	}

	buckets := make([]Bucket, 0, len(accs))
	for _, a := range accs {
		b := a.bucket
		if len(a.tags) > 0 {
			b.Tags = make(map[string]string, len(a.tags))
			for name, values := range a.tags {
				b.Tags[name] = MostCommon(values)
			}
		}
		buckets = append(buckets, b)
	}
	return buckets
}

// Total sums amount, hours and rows across buckets
func Total(buckets []Bucket) Bucket {
	total := Bucket{Key: "Total", Amount: decimal.Zero}
	for _, b := range buckets {
		total.Amount = total.Amount.Add(b.Amount)
		total.Hours += b.Hours
		total.Rows += b.Rows
	}
	return total
}

// ByKey indexes buckets by their key
func ByKey(buckets []Bucket) map[string]Bucket {
	m := make(map[string]Bucket, len(buckets))
	for _, b := range buckets {
		m[b.Key] = b
	}
	return m
}

// MostCommon returns the value with the strictly highest frequency. Ties go to
// the value observed first. An empty input yields Uncategorized.
func MostCommon(values []string) string {
	counts := make(map[string]int, len(values))
	order := make([]string, 0, len(values))
	for _, v := range values {
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	best, bestCount := Uncategorized, 0
	for _, v := range order {
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best
}

// KeyOrDefault maps blank keys to Uncategorized
func KeyOrDefault(key string) string {
	if strings.TrimSpace(key) == "" {
		return Uncategorized
	}
	return key
}

// Deref returns the pointed-to string or empty
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
