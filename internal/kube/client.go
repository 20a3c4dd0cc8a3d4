package kube

import (
	"fmt"
	"sort"

	"k8s.io/apimachinery/pkg/util/validation"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
)

// Mockable for tests.
var loadRawConfig = func() (clientcmdConfig, error) {
	cfg, err := clientcmd.NewDefaultClientConfigLoadingRules().Load()
	if err != nil {
		return clientcmdConfig{}, fmt.Errorf("loading kubeconfig: %w", err)
	}
	contexts := map[string]string{}
	for name, c := range cfg.Contexts {
		contexts[name] = c.Namespace
	}
	return clientcmdConfig{Contexts: contexts, CurrentContext: cfg.CurrentContext}, nil
}

// clientcmdConfig is the slice of kubeconfig this tool cares about.
type clientcmdConfig struct {
	// Contexts maps context name to its default namespace ("" if unset).
	Contexts       map[string]string
	CurrentContext string
}

// ClientForContext builds a clientset for the named context; empty name
// means the kubeconfig's current context. Exec-plugin auth may prompt, so
// callers in the TUI must release the terminal around this.
func ClientForContext(name string) (kubernetes.Interface, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	overrides := &clientcmd.ConfigOverrides{}
	if name != "" {
		overrides.CurrentContext = name
	}
	restCfg, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("building client config for context %q: %w", name, err)
	}
	client, err := kubernetes.NewForConfig(restCfg)
	if err != nil {
		return nil, fmt.Errorf("creating clientset: %w", err)
	}
	return client, nil
}

// ListContexts returns all kubeconfig context names (sorted) and the
// current one.
func ListContexts() (names []string, current string, err error) {
	cfg, err := loadRawConfig()
	if err != nil {
		return nil, "", err
	}
	for name := range cfg.Contexts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, cfg.CurrentContext, nil
}

// ContextNamespace returns the context's default namespace, falling back
// to "default".
func ContextNamespace(name string) string {
	cfg, err := loadRawConfig()
	if err != nil {
		return "default"
	}
	if ns := cfg.Contexts[name]; ns != "" {
		return ns
	}
	return "default"
}

// IsValidNamespaceName validates a free-typed namespace as a DNS-1123
// label, the same rule the API server applies.
func IsValidNamespaceName(name string) bool {
	return len(validation.IsDNS1123Label(name)) == 0
}
