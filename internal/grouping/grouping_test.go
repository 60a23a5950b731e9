package grouping

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type item struct {
	key   string
	value int
}

func TestBy_PreservesFirstSeenOrder(t *testing.T) {
	items := []item{{"b", 1}, {"a", 2}, {"b", 3}, {"", 4}, {"c", 5}}

	g := By(items, func(i item) (string, bool) { return i.key, i.key != "" })

	assert.Equal(t, []string{"b", "a", "c"}, g.Keys())
	assert.Equal(t, 3, g.Len())
	assert.Equal(t, []item{{"b", 1}, {"b", 3}}, g.Get("b"))
	assert.Nil(t, g.Get("missing"))
}

func TestReduce(t *testing.T) {
	items := []item{{"x", 1}, {"y", 2}, {"x", 3}, {"z", 0}}
	g := By(items, func(i item) (string, bool) { return i.key, true })

	sums := Reduce(g, func(key string, group []item) (string, bool) {
		total := 0
		for _, i := range group {
			total += i.value
		}
		if total == 0 {
			return "", false
		}
		return key + "=" + strings.Repeat("*", total), true
	})

	assert.Equal(t, []string{"x=****", "y=**"}, sums)
}

func TestFold(t *testing.T) {
	items := []item{{"x", 1}, {"y", 2}, {"x", 3}}

	order, acc := Fold(items,
		func(i item) (string, bool) { return i.key, true },
		func(string) int { return 100 },
		func(a int, i item) int { return a + i.value },
	)

	assert.Equal(t, []string{"x", "y"}, order)
	assert.Equal(t, map[string]int{"x": 104, "y": 102}, acc)
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Dinner  Split ", "dinner split"},
		{"TAXI\tfare", "taxi fare"},
		{"", ""},
		{"代墊", "代墊"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeText(tt.in))
	}
}
