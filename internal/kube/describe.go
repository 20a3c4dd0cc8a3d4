package kube

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Describe shells out to kubectl describe; reproducing its event-joining
// output client-side is not worth owning.
func Describe(ctx context.Context, kubeContext string, kind Kind, namespace, name string) ([]string, error) {
	args := []string{"describe", kind.Singular(), name, "-n", namespace}
	if kubeContext != "" {
		args = append(args, "--context", kubeContext)
	}
	out, err := exec.CommandContext(ctx, "kubectl", args...).CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(out))
		if detail != "" {
			return nil, fmt.Errorf("kubectl describe: %s", detail)
		}
		return nil, fmt.Errorf("kubectl describe: %w", err)
	}
	return strings.Split(strings.TrimRight(string(out), "\n"), "\n"), nil
}
