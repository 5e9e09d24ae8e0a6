package confusion_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/wayfinder/internal/confusion"
)

// TestFilteredClasses_CatDog keeps only dog at a 75% ceiling.
func TestFilteredClasses_CatDog(t *testing.T) {
	records := confusion.BuildRecords(parse(t, catDog))

	got := confusion.FilteredClasses(records, 75)
	require.Len(t, got, 1)
	require.Equal(t, "dog", got[0].Full)
}

// TestFilteredClasses_AtHundredIsIdentity returns every record, in order,
// including those without samples.
func TestFilteredClasses_AtHundredIsIdentity(t *testing.T) {
	records := confusion.BuildRecords(parse(t, "t,a,b,c\na,1,0,0\nb,0,0,0\nc,1,0,1\n"))

	require.Equal(t, records, confusion.FilteredClasses(records, 100))
}

func TestFilteredClasses_Boundaries(t *testing.T) {
	records := confusion.BuildRecords(parse(t, "t,a,b,c\na,7,3,0\nb,0,0,0\nc,0,1,9\n"))

	got := confusion.FilteredClasses(records, 70)
	require.Equal(t, []int{0}, confusion.Indices(got), "threshold is inclusive")

	got = confusion.FilteredClasses(records, 99.9)
	require.Equal(t, []int{0, 2}, confusion.Indices(got), "empty classes never match")

	require.Empty(t, confusion.FilteredClasses(records, 0))
}

func TestGraphCandidates(t *testing.T) {
	m := parse(t, "t,a,b,c\na,5,1,0\nb,1,5,2\nc,0,0,5\n")
	records := confusion.BuildRecords(m)

	tests := []struct {
		name string
		min  int
		want []int
	}{
		{name: "disabled", min: 0, want: []int{0, 1, 2}},
		{name: "any confusion", min: 1, want: []int{0, 1, 2}},
		{name: "at least two", min: 2, want: []int{1, 2}},
		{name: "none", min: 3, want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, confusion.GraphCandidates(records, m, tt.min))
		})
	}
}

// TestGraphCandidates_SymmetricPairExcluded drops a pair confused once each
// way when two confusions are required.
func TestGraphCandidates_SymmetricPairExcluded(t *testing.T) {
	m := parse(t, "t,a,b\na,5,1\nb,1,5\n")
	records := confusion.BuildRecords(m)

	require.Empty(t, confusion.GraphCandidates(records, m, 2))
}

func TestFilter_MinEdgeThreshold(t *testing.T) {
	require.Equal(t, 2, confusion.DefaultFilter().MinEdgeThreshold())
	require.Equal(t, 1, confusion.Filter{SingleEdges: true}.MinEdgeThreshold())
	require.Equal(t, 100.0, confusion.DefaultFilter().MaxAccuracyPercent)
}
