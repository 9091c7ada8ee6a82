// Package metrics exports octree statistics and benchmark timings to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/HexaEngine/HexaEngine-sub024/octree"
)

// StatsSource is anything that can report octree statistics. Calls to Stats happen on every scrape,
// so sources shared with a writer must synchronise internally.
type StatsSource interface {
	Stats() octree.Stats
}

type octreeCollector struct {
	src StatsSource

	nodes           *prometheus.Desc
	capacity        *prometheus.Desc
	objects         *prometheus.Desc
	leaves          *prometheus.Desc
	maxDepth        *prometheus.Desc
	freeSlots       *prometheus.Desc
	internalObjects *prometheus.Desc
	poolHits        *prometheus.Desc
	poolMisses      *prometheus.Desc
	poolDrops       *prometheus.Desc
}

// NewOctreeCollector returns a collector that reads src on every scrape and exports its shape as
// gauges and its list pool counters as counters, all prefixed with namespace.
func NewOctreeCollector(namespace string, src StatsSource) prometheus.Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "octree", name), help, nil, nil)
	}
	return &octreeCollector{
		src:             src,
		nodes:           desc("nodes", "The number of live nodes."),
		capacity:        desc("capacity", "The number of node slots allocated."),
		objects:         desc("objects", "The number of tracked objects."),
		leaves:          desc("leaves", "The number of nodes without children."),
		maxDepth:        desc("max_depth", "The depth of the deepest node."),
		freeSlots:       desc("free_slots", "The number of freed node slots waiting for reuse."),
		internalObjects: desc("internal_objects", "The number of objects held by nodes with children."),
		poolHits:        desc("list_pool_hits_total", "The number of object lists served from the pool."),
		poolMisses:      desc("list_pool_misses_total", "The number of object lists allocated because the pool was empty."),
		poolDrops:       desc("list_pool_drops_total", "The number of object lists dropped because the pool was full."),
	}
}

func (c *octreeCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.nodes
	ch <- c.capacity
	ch <- c.objects
	ch <- c.leaves
	ch <- c.maxDepth
	ch <- c.freeSlots
	ch <- c.internalObjects
	ch <- c.poolHits
	ch <- c.poolMisses
	ch <- c.poolDrops
}

func (c *octreeCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.src.Stats()

	gauge := func(desc *prometheus.Desc, v int) {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, float64(v))
	}
	counter := func(desc *prometheus.Desc, v int64) {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(v))
	}

	gauge(c.nodes, stats.Nodes)
	gauge(c.capacity, stats.Capacity)
	gauge(c.objects, stats.Objects)
	gauge(c.leaves, stats.Leaves)
	gauge(c.maxDepth, stats.MaxDepth)
	gauge(c.freeSlots, stats.FreeSlots)
	gauge(c.internalObjects, stats.InternalObjects)
	counter(c.poolHits, stats.ListPool.Hits)
	counter(c.poolMisses, stats.ListPool.Misses)
	counter(c.poolDrops, stats.ListPool.Drops)
}
