package cluster

import (
	"testing"

	"github.com/hupe1980/vecseq/vector"
	"github.com/hupe1980/vecseq/writable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKluster(converged bool) *Cluster {
	return &Cluster{
		Kind:              KindKluster,
		ID:                0,
		NumObservations:   3,
		TotalObservations: 7,
		Center:            vector.NewDense([]float64{1, 2}),
		Radius:            vector.NewDense([]float64{0.1, 0.2}),
		Measure:           SquaredEuclideanMeasure,
		Converged:         converged,
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "CL-0{n=3 c=[1.000, 2.000] r=[0.100, 0.200]}", newKluster(false).String())
	assert.Equal(t, "VL-0{n=3 c=[1.000, 2.000] r=[0.100, 0.200]}", newKluster(true).String())

	c := newKluster(false)
	c.Center = vector.NewDense([]float64{0, 1.5, 0})
	c.Radius = vector.NewNamed("r", []float64{1, 1, 1})
	assert.Equal(t, "CL-0{n=3 c=[1:1.500] r=r = [1.000, 1.000, 1.000]}", c.String())
}

func TestIdentifier(t *testing.T) {
	tests := []struct {
		kind      Kind
		converged bool
		want      string
	}{
		{KindKluster, false, "CL-4"},
		{KindKluster, true, "VL-4"},
		{KindSoftCluster, false, "SC-4"},
		{KindSoftCluster, true, "SV-4"},
		{KindCanopy, false, "C-4"},
		{KindDistanceMeasure, false, "DMC:4"},
	}

	for _, tt := range tests {
		c := &Cluster{Kind: tt.kind, ID: 4, Converged: tt.converged}
		assert.Equal(t, tt.want, c.Identifier())
	}
}

func TestKind(t *testing.T) {
	for _, k := range []Kind{KindKluster, KindSoftCluster, KindCanopy, KindDistanceMeasure} {
		got, err := KindOf(k.Class())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	assert.Equal(t, "Kluster", KindKluster.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())

	_, err := KindOf("org.apache.mahout.clustering.dirichlet.DirichletCluster")
	assert.Error(t, err)
}

func TestWritableRoundTrip(t *testing.T) {
	sparseRadius, err := vector.NewSparse(2, []int{1}, []float64{0.5}, true)
	require.NoError(t, err)

	tests := []*Cluster{
		newKluster(false),
		newKluster(true),
		{Kind: KindSoftCluster, ID: 2, Center: vector.NewDense([]float64{1}), Radius: vector.NewDense([]float64{0}), Measure: EuclideanMeasure, Converged: true},
		{Kind: KindCanopy, ID: 9, NumObservations: 1, Center: vector.NewDense([]float64{3, 4}), Radius: sparseRadius, Measure: ManhattanMeasure},
		{Kind: KindDistanceMeasure, ID: 1, Center: vector.NewDense([]float64{}), Radius: vector.NewDense([]float64{}), Measure: CosineMeasure},
	}

	for _, c := range tests {
		t.Run(c.Identifier(), func(t *testing.T) {
			data, err := writable.Marshal(NewWritable(c))
			require.NoError(t, err)

			var got Writable
			require.NoError(t, writable.Unmarshal(data, &got))

			assert.Equal(t, c.Kind, got.Cluster.Kind)
			assert.Equal(t, c.ID, got.Cluster.ID)
			assert.Equal(t, c.NumObservations, got.Cluster.NumObservations)
			assert.Equal(t, c.TotalObservations, got.Cluster.TotalObservations)
			assert.True(t, c.Center.Equal(got.Cluster.Center))
			assert.True(t, c.Radius.Equal(got.Cluster.Radius))
			assert.Equal(t, c.Measure, got.Cluster.Measure)
			assert.Equal(t, c.Converged, got.Cluster.Converged)
			assert.Equal(t, c.String(), got.String())
		})
	}
}

func TestCanopyHasNoConvergedFlag(t *testing.T) {
	k, err := writable.Marshal(NewWritable(&Cluster{
		Kind: KindKluster, Center: vector.NewDense(nil), Radius: vector.NewDense(nil),
	}))
	require.NoError(t, err)

	c, err := writable.Marshal(NewWritable(&Cluster{
		Kind: KindCanopy, Center: vector.NewDense(nil), Radius: vector.NewDense(nil),
	}))
	require.NoError(t, err)

	// Same layout apart from the class name and the trailing flag.
	assert.Equal(t, len(k)-len(KlusterClass)+len(CanopyClass)-1, len(c))
}

func TestMarshalErrors(t *testing.T) {
	_, err := writable.Marshal(&Writable{})
	assert.Error(t, err)

	_, err = writable.Marshal(NewWritable(&Cluster{Kind: KindKluster}))
	assert.Error(t, err)

	_, err = writable.Marshal(NewWritable(&Cluster{
		Kind: Kind(9), Center: vector.NewDense(nil), Radius: vector.NewDense(nil),
	}))
	assert.Error(t, err)
}

func TestUnmarshalUnknownClass(t *testing.T) {
	e := writable.NewEncoder(nil)
	require.NoError(t, e.PutUTF("org.example.Cluster"))

	var w Writable
	assert.Error(t, writable.Unmarshal(e.Bytes(), &w))
}

func TestNilString(t *testing.T) {
	assert.Equal(t, "null", (&Writable{}).String())
}
