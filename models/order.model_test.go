package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_AllowedEdges(t *testing.T) {
	allowed := [][2]string{
		{StatusPlaced, StatusAccepted},
		{StatusPlaced, StatusCancelled},
		{StatusAccepted, StatusShipped},
		{StatusShipped, StatusDelivered},
	}
	for _, edge := range allowed {
		assert.True(t, CanTransition(edge[0], edge[1]), "%s -> %s should be allowed", edge[0], edge[1])
	}
}

func TestCanTransition_RejectsOffGraphMoves(t *testing.T) {
	rejected := [][2]string{
		{StatusDelivered, StatusPlaced},
		{StatusPlaced, StatusDelivered},
		{StatusPlaced, StatusShipped},
		{StatusAccepted, StatusCancelled},
		{StatusShipped, StatusCancelled},
		{StatusShipped, StatusAccepted},
		{StatusDelivered, StatusCancelled},
	}
	for _, edge := range rejected {
		assert.False(t, CanTransition(edge[0], edge[1]), "%s -> %s should be rejected", edge[0], edge[1])
	}
}

func TestCanTransition_TerminalStatesHaveNoExits(t *testing.T) {
	statuses := []string{StatusPlaced, StatusAccepted, StatusShipped, StatusDelivered, StatusCancelled}
	for _, terminal := range []string{StatusDelivered, StatusCancelled} {
		for _, to := range statuses {
			assert.False(t, CanTransition(terminal, to), "%s is terminal", terminal)
		}
	}
}

func TestCanTransition_NoSelfLoops(t *testing.T) {
	for _, status := range []string{StatusPlaced, StatusAccepted, StatusShipped, StatusDelivered, StatusCancelled} {
		assert.False(t, CanTransition(status, status))
	}
}

func TestValidStatus(t *testing.T) {
	for _, status := range []string{StatusPlaced, StatusAccepted, StatusShipped, StatusDelivered, StatusCancelled} {
		assert.True(t, ValidStatus(status))
	}
	assert.False(t, ValidStatus("refunded"))
	assert.False(t, ValidStatus(""))
}
