package aggregate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	group   *string
	manager string
	amount  any
	time    any
}

func strPtr(s string) *string { return &s }

var rowSpec = Spec[row]{
	Key:    func(r row) string { return Deref(r.group) },
	Amount: func(r row) any { return r.amount },
	Hours:  func(r row) any { return r.time },
	Tags: map[string]func(row) string{
		"account_manager": func(r row) string { return r.manager },
	},
}

func TestFold(t *testing.T) {
	rows := []row{
		{group: strPtr("Acme"), manager: "Jo", amount: 300.0, time: 112},
		{group: strPtr("Acme"), manager: "Sam", amount: "100", time: 30},
		{group: strPtr("Acme"), manager: "Sam", amount: nil, time: nil},
		{group: nil, manager: "", amount: 50, time: "200"},
		{group: strPtr("Zed"), manager: "Jo", amount: "oops", time: 0},
	}

	buckets := Fold(rows, rowSpec)
	require.Len(t, buckets, 3)

	acme := buckets[0]
	assert.Equal(t, "Acme", acme.Key)
	assert.True(t, decimal.NewFromInt(400).Equal(acme.Amount))
	assert.InDelta(t, 1.7, acme.Hours, 1e-9)
	assert.Equal(t, 3, acme.Rows)
	assert.Equal(t, "Sam", acme.Tag("account_manager"))

	unc := buckets[1]
	assert.Equal(t, Uncategorized, unc.Key)
	assert.InDelta(t, 2.0, unc.Hours, 1e-9)
	assert.Equal(t, Uncategorized, unc.Tag("account_manager"))

	zed := buckets[2]
	assert.True(t, zed.Amount.IsZero())
	assert.Equal(t, Uncategorized, zed.Tag("missing"))
}

func TestFold_TotalsAreAdditive(t *testing.T) {
	rows := []row{
		{group: strPtr("A"), amount: 10.25},
		{group: strPtr("B"), amount: "4.75"},
		{group: nil, amount: 5},
		{group: strPtr("A"), amount: -2},
	}

	total := Total(Fold(rows, rowSpec))
	unfiltered := Total(Fold(rows, Spec[row]{Amount: rowSpec.Amount}))

	assert.True(t, decimal.NewFromInt(18).Equal(total.Amount))
	assert.True(t, unfiltered.Amount.Equal(total.Amount))
	assert.Equal(t, 4, total.Rows)
}

func TestFold_DoesNotMutateInput(t *testing.T) {
	rows := []row{{group: strPtr("A"), amount: 1.0}, {group: strPtr("B"), amount: 2.0}}
	first := Fold(rows, rowSpec)
	second := Fold(rows, rowSpec)

	assert.Equal(t, first, second)
	assert.Equal(t, "A", *rows[0].group)
}

func TestMostCommon(t *testing.T) {
	assert.Equal(t, "b", MostCommon([]string{"a", "b", "b"}))
	assert.Equal(t, "a", MostCommon([]string{"a", "b"}))
	assert.Equal(t, "b", MostCommon([]string{"b", "a", "a", "b"}))
	assert.Equal(t, Uncategorized, MostCommon(nil))
}

func TestAmount(t *testing.T) {
	s := "12.5"
	cases := []struct {
		input any
		want  string
	}{
		{12.5, "12.5"},
		{int64(7), "7"},
		{"  42.10 ", "42.1"},
		{"not a number", "0"},
		{nil, "0"},
		{true, "0"},
		{&s, "12.5"},
		{"-15", "-15"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Amount(c.input).String(), "%v", c.input)
	}
}
