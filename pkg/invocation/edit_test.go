package invocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func steps(names ...string) File {
	f := File{}
	for _, n := range names {
		f = append(f, Step{Operation: n})
	}
	return f
}

func TestMove(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     File
	}{
		{name: "forward past neighbour", from: 0, to: 2, want: steps("B", "A", "C", "D")},
		{name: "last to first", from: 3, to: 0, want: steps("D", "A", "B", "C")},
		{name: "onto itself", from: 1, to: 1, want: steps("A", "B", "C", "D")},
		{name: "onto next index", from: 1, to: 2, want: steps("A", "B", "C", "D")},
		{name: "backwards by one", from: 2, to: 1, want: steps("A", "C", "B", "D")},
		{name: "to the end", from: 0, to: 4, want: steps("B", "C", "D", "A")},
		{name: "from out of range", from: 7, to: 0, want: steps("A", "B", "C", "D")},
		{name: "to out of range", from: 0, to: 9, want: steps("A", "B", "C", "D")},
		{name: "negative", from: -1, to: 0, want: steps("A", "B", "C", "D")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := steps("A", "B", "C", "D")
			got := Move(original, tt.from, tt.to)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, steps("A", "B", "C", "D"), original, "input must not be modified")
		})
	}
}

func TestUpdate(t *testing.T) {
	original := steps("A", "B")

	got := Update(original, 1, Step{Contract: "nep17", Operation: "symbol"})
	assert.Equal(t, File{{Operation: "A"}, {Contract: "nep17", Operation: "symbol"}}, got)
	assert.Equal(t, steps("A", "B"), original)

	assert.Equal(t, original, Update(original, 2, Step{Operation: "X"}))
	assert.Equal(t, original, Update(original, -1, Step{Operation: "X"}))
}

func TestAddAndDelete(t *testing.T) {
	f := Add(File{})
	assert.Equal(t, File{{}}, f)

	f = Add(f)
	assert.Len(t, f, 2)

	original := steps("A", "B", "C")
	assert.Equal(t, steps("A", "C"), Delete(original, 1))
	assert.Equal(t, steps("A", "B", "C"), original)
	assert.Equal(t, original, Delete(original, 3))
	assert.Equal(t, File{}, Delete(steps("A"), 0))
}

func TestReorders(t *testing.T) {
	f := steps("A", "B", "C")

	assert.True(t, f.Reorders(0, 2))
	assert.True(t, f.Reorders(2, 0))
	assert.True(t, f.Reorders(0, 3))
	assert.False(t, f.Reorders(1, 1))
	assert.False(t, f.Reorders(1, 2))
	assert.False(t, f.Reorders(3, 0))
	assert.False(t, f.Reorders(0, 4))
	assert.False(t, f.Reorders(-1, 0))
}
