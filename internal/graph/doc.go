// Package graph holds the validated in-memory knowledge graph that the
// layout engine works on.
//
// [Load] turns the loosely typed node and edge lists supplied by a data
// collaborator into a [Graph]: ids are deduplicated (last write wins),
// weights are clamped into [0,1], edges whose endpoints do not resolve are
// dropped and reported as [Warning]s, and node degree is recomputed from
// the surviving edges. Loading never fails; problems degrade the graph
// and are reported, they are not returned as errors.
//
// # Wire Format
//
//	{
//	  "nodes": [{"id": "a", "label": "Ada", "kind": "person", "score": 0.8}],
//	  "edges": [{"id": "e1", "source": "a", "target": "b", "weight": 0.9}]
//	}
//
// "links" is accepted as an alias of "edges".
package graph
