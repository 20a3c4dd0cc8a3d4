// Package kube wraps the client-go plumbing this tool needs: clientset
// construction per kube context, typed resource snapshots, watch
// subscriptions, and the handful of write operations the UI exposes.
package kube

import (
	"fmt"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Kind enumerates the resource types the UI browses.
type Kind int

const (
	KindPod Kind = iota
	KindDeployment
	KindSecret
)

// String is the tab title.
func (k Kind) String() string {
	switch k {
	case KindPod:
		return "Pods"
	case KindDeployment:
		return "Deployments"
	case KindSecret:
		return "Secrets"
	default:
		return "Unknown"
	}
}

// Singular is the kubectl resource name.
func (k Kind) Singular() string {
	switch k {
	case KindPod:
		return "pod"
	case KindDeployment:
		return "deployment"
	case KindSecret:
		return "secret"
	default:
		return ""
	}
}

// Plural is the count-agnostic form used in confirmation prompts.
func (k Kind) Plural() string {
	return k.Singular() + "(s)"
}

// Resource is a read-only snapshot of one cluster object. The underlying
// pointers are shared with the watch cache and must never be mutated.
type Resource interface {
	Kind() Kind
	Name() string
	CreationTime() *metav1.Time
	isResource()
}

type PodItem struct{ Pod *corev1.Pod }

func (p PodItem) Kind() Kind    { return KindPod }
func (p PodItem) Name() string  { return p.Pod.Name }
func (p PodItem) isResource()   {}
func (p PodItem) CreationTime() *metav1.Time {
	t := p.Pod.CreationTimestamp
	if t.IsZero() {
		return nil
	}
	return &t
}

type DeploymentItem struct{ Deployment *appsv1.Deployment }

func (d DeploymentItem) Kind() Kind   { return KindDeployment }
func (d DeploymentItem) Name() string { return d.Deployment.Name }
func (d DeploymentItem) isResource()  {}
func (d DeploymentItem) CreationTime() *metav1.Time {
	t := d.Deployment.CreationTimestamp
	if t.IsZero() {
		return nil
	}
	return &t
}

type SecretItem struct{ Secret *corev1.Secret }

func (s SecretItem) Kind() Kind   { return KindSecret }
func (s SecretItem) Name() string { return s.Secret.Name }
func (s SecretItem) isResource()  {}
func (s SecretItem) CreationTime() *metav1.Time {
	t := s.Secret.CreationTimestamp
	if t.IsZero() {
		return nil
	}
	return &t
}

// PodPhase returns the pod's status phase, empty when unset.
func PodPhase(p *corev1.Pod) string {
	return string(p.Status.Phase)
}

// PodRestarts sums restart counts across containers.
func PodRestarts(p *corev1.Pod) int32 {
	var n int32
	for _, cs := range p.Status.ContainerStatuses {
		n += cs.RestartCount
	}
	return n
}

// PodReady returns the ready container count and the declared total.
func PodReady(p *corev1.Pod) (ready, total int) {
	for _, cs := range p.Status.ContainerStatuses {
		if cs.Ready {
			ready++
		}
	}
	return ready, len(p.Spec.Containers)
}

// Age renders how long ago the timestamp was, kubectl style: the largest
// single unit of days, hours, minutes, or seconds. Nil yields "?".
func Age(t *metav1.Time) string {
	if t == nil {
		return "?"
	}
	d := time.Since(t.Time)
	switch {
	case d >= 24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours())/24)
	case d >= time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d >= time.Minute:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		secs := int(d.Seconds())
		if secs < 0 {
			secs = 0
		}
		return fmt.Sprintf("%ds", secs)
	}
}
