package evaluation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkloadFlagsOverloadedEvaluator(t *testing.T) {
	var assignments []Assignment
	for i := 0; i < 10; i++ {
		assignments = append(assignments, Assignment{EvaluateeID: fmt.Sprintf("m%d", i), Managers: []string{"boss"}})
	}
	for i := 0; i < 6; i++ {
		assignments = append(assignments, Assignment{EvaluateeID: fmt.Sprintf("p%d", i), Peers: []string{"boss"}})
	}

	workload := AggregateWorkload(assignments, DefaultWorkloadThreshold)

	require.Len(t, workload, 1)
	assert.Equal(t, WorkloadEntry{EvaluatorID: "boss", Boss: 10, Peer: 6, Total: 16, Load: LoadHigh}, workload[0])
}

func TestWorkloadThresholdIsExclusive(t *testing.T) {
	var assignments []Assignment
	for i := 0; i < 15; i++ {
		assignments = append(assignments, Assignment{EvaluateeID: fmt.Sprintf("e%d", i), Subordinates: []string{"lead"}})
	}

	workload := AggregateWorkload(assignments, 15)
	require.Len(t, workload, 1)
	assert.Equal(t, 15, workload[0].Team)
	assert.Equal(t, LoadNormal, workload[0].Load)

	lowered := AggregateWorkload(assignments, 10)
	assert.Equal(t, LoadHigh, lowered[0].Load)
}

func TestWorkloadSkipsSelfAndSortsByTotal(t *testing.T) {
	assignments := []Assignment{
		{EvaluateeID: "a", Self: true, Managers: []string{"a", "b"}, Peers: []string{"c"}},
		{EvaluateeID: "b", Peers: []string{"c"}},
		{EvaluateeID: "c", Peers: []string{"b"}},
	}

	workload := AggregateWorkload(assignments, 0)

	require.Len(t, workload, 2)
	assert.Equal(t, "b", workload[0].EvaluatorID)
	assert.Equal(t, 2, workload[0].Total)
	assert.Equal(t, "c", workload[1].EvaluatorID)
	assert.Equal(t, 2, workload[1].Total)
	for _, entry := range workload {
		assert.NotEqual(t, "a", entry.EvaluatorID)
	}
}
