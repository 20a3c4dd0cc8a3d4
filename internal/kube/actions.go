package kube

import (
	"context"
	"fmt"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/kubernetes"
)

// fieldManager identifies this tool's writes in managedFields.
const fieldManager = "kr"

// MaxReplicas caps how far a deployment can be scaled from the UI.
const MaxReplicas = 1000

// DeleteResource deletes one object of the given kind.
func DeleteResource(ctx context.Context, client kubernetes.Interface, kind Kind, namespace, name string) error {
	var err error
	switch kind {
	case KindPod:
		err = client.CoreV1().Pods(namespace).Delete(ctx, name, metav1.DeleteOptions{})
	case KindDeployment:
		err = client.AppsV1().Deployments(namespace).Delete(ctx, name, metav1.DeleteOptions{})
	case KindSecret:
		err = client.CoreV1().Secrets(namespace).Delete(ctx, name, metav1.DeleteOptions{})
	default:
		return fmt.Errorf("unsupported kind %v", kind)
	}
	if err != nil {
		return fmt.Errorf("deleting %s %s/%s: %w", kind.Singular(), namespace, name, err)
	}
	return nil
}

// ScaleDeployment merge-patches spec.replicas.
func ScaleDeployment(ctx context.Context, client kubernetes.Interface, namespace, name string, replicas int32) error {
	patch := fmt.Sprintf(`{"spec":{"replicas":%d}}`, replicas)
	_, err := client.AppsV1().Deployments(namespace).Patch(ctx, name, types.MergePatchType,
		[]byte(patch), metav1.PatchOptions{FieldManager: fieldManager})
	if err != nil {
		return fmt.Errorf("scaling deployment %s/%s to %d: %w", namespace, name, replicas, err)
	}
	return nil
}

// RestartDeployment triggers a rolling restart the way kubectl does: by
// stamping the pod template's restartedAt annotation.
func RestartDeployment(ctx context.Context, client kubernetes.Interface, namespace, name string) error {
	patch := fmt.Sprintf(
		`{"spec":{"template":{"metadata":{"annotations":{"kubectl.kubernetes.io/restartedAt":%q}}}}}`,
		time.Now().Format(time.RFC3339))
	_, err := client.AppsV1().Deployments(namespace).Patch(ctx, name, types.MergePatchType,
		[]byte(patch), metav1.PatchOptions{FieldManager: fieldManager})
	if err != nil {
		return fmt.Errorf("restarting deployment %s/%s: %w", namespace, name, err)
	}
	return nil
}
