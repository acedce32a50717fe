package cluster

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hupe1980/vecseq/vector"
)

// Kind identifies the concrete cluster model.
type Kind int

const (
	// KindKluster is a k-means cluster.
	KindKluster Kind = iota
	// KindSoftCluster is a fuzzy k-means cluster.
	KindSoftCluster
	// KindCanopy is a canopy cluster.
	KindCanopy
	// KindDistanceMeasure is a plain distance-measure cluster.
	KindDistanceMeasure
)

// Java class names of the supported cluster models.
const (
	KlusterClass                = "org.apache.mahout.clustering.kmeans.Kluster"
	SoftClusterClass            = "org.apache.mahout.clustering.fuzzykmeans.SoftCluster"
	CanopyClass                 = "org.apache.mahout.clustering.canopy.Canopy"
	DistanceMeasureClusterClass = "org.apache.mahout.clustering.iterator.DistanceMeasureCluster"
)

// Distance measure class names written with a cluster.
const (
	EuclideanMeasure        = "org.apache.mahout.common.distance.EuclideanDistanceMeasure"
	SquaredEuclideanMeasure = "org.apache.mahout.common.distance.SquaredEuclideanDistanceMeasure"
	ManhattanMeasure        = "org.apache.mahout.common.distance.ManhattanDistanceMeasure"
	CosineMeasure           = "org.apache.mahout.common.distance.CosineDistanceMeasure"
)

// Class returns the Java class name of the kind.
func (k Kind) Class() string {
	switch k {
	case KindKluster:
		return KlusterClass
	case KindSoftCluster:
		return SoftClusterClass
	case KindCanopy:
		return CanopyClass
	case KindDistanceMeasure:
		return DistanceMeasureClusterClass
	default:
		return ""
	}
}

func (k Kind) String() string {
	if c := k.Class(); c != "" {
		return c[strings.LastIndexByte(c, '.')+1:]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// MarshalText encodes the kind by its short class name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// KindOf returns the kind for a Java class name.
func KindOf(class string) (Kind, error) {
	switch class {
	case KlusterClass:
		return KindKluster, nil
	case SoftClusterClass:
		return KindSoftCluster, nil
	case CanopyClass:
		return KindCanopy, nil
	case DistanceMeasureClusterClass:
		return KindDistanceMeasure, nil
	default:
		return 0, fmt.Errorf("cluster: unsupported cluster class %q", class)
	}
}

// hasConverged reports whether the kind persists a converged flag.
func (k Kind) hasConverged() bool {
	return k == KindKluster || k == KindSoftCluster
}

// Cluster is a clustering model record: a center, a radius and observation
// counts, tagged with the distance measure that produced it.
type Cluster struct {
	Kind              Kind           `json:"kind"`
	ID                int32          `json:"id"`
	NumObservations   int64          `json:"n"`
	TotalObservations int64          `json:"total"`
	Center            *vector.Vector `json:"center"`
	Radius            *vector.Vector `json:"radius"`
	Measure           string         `json:"measure"`
	Converged         bool           `json:"converged"`
}

// Identifier returns the display identifier, e.g. "CL-3" for an unconverged
// k-means cluster and "VL-3" once it converged.
func (c *Cluster) Identifier() string {
	id := strconv.FormatInt(int64(c.ID), 10)
	switch c.Kind {
	case KindKluster:
		if c.Converged {
			return "VL-" + id
		}
		return "CL-" + id
	case KindSoftCluster:
		if c.Converged {
			return "SV-" + id
		}
		return "SC-" + id
	case KindCanopy:
		return "C-" + id
	default:
		return "DMC:" + id
	}
}

// String returns the cluster summary, e.g. "CL-0{n=3 c=[1.000, 2.000] r=[0.100, 0.200]}".
func (c *Cluster) String() string {
	var sb strings.Builder
	sb.WriteString(c.Identifier())
	sb.WriteString("{n=")
	sb.WriteString(strconv.FormatInt(c.NumObservations, 10))
	if c.Center != nil {
		sb.WriteString(" c=")
		sb.WriteString(FormatVector(c.Center))
	}
	if c.Radius != nil {
		sb.WriteString(" r=")
		sb.WriteString(FormatVector(c.Radius))
	}
	sb.WriteByte('}')
	return sb.String()
}

// FormatVector renders v with three decimals. Vectors with zero elements use
// index:value notation for the non-zero ones; named vectors are prefixed with
// "name = ".
func FormatVector(v *vector.Vector) string {
	var sb strings.Builder
	if v.IsNamed() {
		sb.WriteString(v.Name)
		sb.WriteString(" = ")
	}

	values := v.ToDense()
	sparse := v.NonZero() < v.Size

	sb.WriteByte('[')
	first := true
	for i, x := range values {
		if sparse && x == 0 {
			continue
		}
		if !first {
			sb.WriteString(", ")
		}
		first = false
		if sparse {
			sb.WriteString(strconv.Itoa(i))
			sb.WriteByte(':')
		}
		sb.WriteString(strconv.FormatFloat(x, 'f', 3, 64))
	}
	sb.WriteByte(']')
	return sb.String()
}
