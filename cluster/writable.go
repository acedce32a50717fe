package cluster

import (
	"errors"

	"github.com/hupe1980/vecseq/vector"
	"github.com/hupe1980/vecseq/writable"
)

// WritableClass is the Java class name of the cluster envelope.
const WritableClass = "org.apache.mahout.clustering.iterator.ClusterWritable"

func init() {
	writable.Register(WritableClass, func() writable.Writable { return new(Writable) })
}

// Writable wraps a Cluster in the ClusterWritable envelope. The envelope is
// polymorphic: the concrete cluster class name precedes the cluster fields.
type Writable struct {
	Cluster *Cluster `json:"cluster"`
}

// NewWritable wraps c.
func NewWritable(c *Cluster) *Writable {
	return &Writable{Cluster: c}
}

func (w *Writable) JavaClass() string { return WritableClass }

func (w *Writable) String() string {
	if w.Cluster == nil {
		return "null"
	}
	return w.Cluster.String()
}

// MarshalWritable implements writable.Writable.
//
// Layout: class (modified UTF-8), id int32, observations int64, total
// observations int64, center vector, radius vector, measure class, and the
// converged flag for k-means and fuzzy k-means clusters.
func (w *Writable) MarshalWritable(e *writable.Encoder) error {
	c := w.Cluster
	if c == nil {
		return errors.New("cluster: cannot encode nil cluster")
	}
	if c.Center == nil || c.Radius == nil {
		return errors.New("cluster: center and radius are required")
	}
	class := c.Kind.Class()
	if class == "" {
		return errors.New("cluster: unknown kind " + c.Kind.String())
	}

	if err := e.PutUTF(class); err != nil {
		return err
	}
	e.PutInt32(c.ID)
	e.PutInt64(c.NumObservations)
	e.PutInt64(c.TotalObservations)
	if err := vector.Encode(e, c.Center, false); err != nil {
		return err
	}
	if err := vector.Encode(e, c.Radius, false); err != nil {
		return err
	}
	if err := e.PutUTF(c.Measure); err != nil {
		return err
	}
	if c.Kind.hasConverged() {
		e.PutBool(c.Converged)
	}
	return nil
}

// UnmarshalWritable implements writable.Writable.
func (w *Writable) UnmarshalWritable(d *writable.Decoder) error {
	class, err := d.UTF()
	if err != nil {
		return err
	}
	kind, err := KindOf(class)
	if err != nil {
		return err
	}

	c := &Cluster{Kind: kind}
	if c.ID, err = d.Int32(); err != nil {
		return err
	}
	if c.NumObservations, err = d.Int64(); err != nil {
		return err
	}
	if c.TotalObservations, err = d.Int64(); err != nil {
		return err
	}
	if c.Center, _, err = vector.Decode(d); err != nil {
		return err
	}
	if c.Radius, _, err = vector.Decode(d); err != nil {
		return err
	}
	if c.Measure, err = d.UTF(); err != nil {
		return err
	}
	if kind.hasConverged() {
		if c.Converged, err = d.Bool(); err != nil {
			return err
		}
	}

	w.Cluster = c
	return nil
}
