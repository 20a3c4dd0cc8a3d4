package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPendingActionMessages(t *testing.T) {
	single := PendingAction{Delete: &DeleteAction{Kind: "pod(s)", Names: []string{"web-1"}}}
	assert.Equal(t, "Delete pod(s) 'web-1'?", single.Message())

	multi := PendingAction{Delete: &DeleteAction{Kind: "pod(s)", Names: []string{"web-1", "web-2"}}}
	assert.Equal(t, "Delete 2 pod(s)?\nweb-1, web-2", multi.Message())

	restart := PendingAction{Restart: &RestartAction{Name: "api"}}
	assert.Equal(t, "Rollout restart 'api'?", restart.Message())

	scale := PendingAction{Scale: &ScaleAction{Name: "api", Replicas: 5}}
	assert.Equal(t, "Scale 'api' to 5 replicas?", scale.Message())

	scaleZero := PendingAction{Scale: &ScaleAction{Name: "api", Replicas: 0}}
	assert.Equal(t, "Scale 'api' to 0 replicas?\nThis will stop all pods.", scaleZero.Message())

	assert.Equal(t, "", PendingAction{}.Message())
}
