package search

import "github.com/poiesic/graphrag/core"

// QueryMonitor provides hooks to observe the hybrid retrieval process.
// Implement this interface to track intermediate steps during a query.
type QueryMonitor interface {
	Start(question string)
	AfterEmbedding(dimensions int)
	AfterVectorSearch(matches []core.VectorMatch)
	AfterGraphPlan(query string)
	GraphPlanRejected(query string, err error)
	AfterGraphFacts(facts []core.GraphFact)
	GraphBranchSkipped(reason string)
	Finish(response *core.QueryResponse)
}

// noopMonitor is a no-op implementation of QueryMonitor
type noopMonitor struct{}

var _ QueryMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                         {}
func (n *noopMonitor) AfterEmbedding(_ int)                   {}
func (n *noopMonitor) AfterVectorSearch(_ []core.VectorMatch) {}
func (n *noopMonitor) AfterGraphPlan(_ string)                {}
func (n *noopMonitor) GraphPlanRejected(_ string, _ error)    {}
func (n *noopMonitor) AfterGraphFacts(_ []core.GraphFact)     {}
func (n *noopMonitor) GraphBranchSkipped(_ string)            {}
func (n *noopMonitor) Finish(_ *core.QueryResponse)           {}
