package kube

import (
	"context"
	"os/exec"
	"sort"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/crn4/kr/pkg/logging"
)

// Mockable for tests.
var kubectlNamespaces = func(ctx context.Context, kubeContext string) ([]string, error) {
	args := []string{"get", "namespaces", "-o", "jsonpath={.items[*].metadata.name}"}
	if kubeContext != "" {
		args = append(args, "--context", kubeContext)
	}
	out, err := exec.CommandContext(ctx, "kubectl", args...).Output()
	if err != nil {
		return nil, err
	}
	return strings.Fields(string(out)), nil
}

// ListNamespaces discovers namespaces with a three-tier fallback: the API,
// then kubectl (which may succeed where a restricted token's list call
// fails), then just the current namespace.
func ListNamespaces(ctx context.Context, client kubernetes.Interface, kubeContext, current string) []string {
	if client != nil {
		list, err := client.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
		if err == nil {
			names := make([]string, 0, len(list.Items))
			for i := range list.Items {
				names = append(names, list.Items[i].Name)
			}
			sort.Strings(names)
			return names
		}
		logging.Debug("kube", "namespace list via API failed: %v", err)
	}

	if names, err := kubectlNamespaces(ctx, kubeContext); err == nil && len(names) > 0 {
		sort.Strings(names)
		return names
	} else if err != nil {
		logging.Debug("kube", "namespace list via kubectl failed: %v", err)
	}

	if current == "" {
		return nil
	}
	return []string{current}
}
