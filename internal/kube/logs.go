package kube

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/kubernetes"
)

// OpenLogStream opens a following log stream for the pod, starting at the
// last tailLines lines. The caller owns closing the stream; cancelling ctx
// also tears it down.
func OpenLogStream(ctx context.Context, client kubernetes.Interface, namespace, pod string, tailLines int64) (io.ReadCloser, error) {
	opts := &corev1.PodLogOptions{
		Follow:    true,
		TailLines: &tailLines,
	}
	stream, err := client.CoreV1().Pods(namespace).GetLogs(pod, opts).Stream(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening log stream for %s/%s: %w", namespace, pod, err)
	}
	return stream, nil
}

// FetchLogTail fetches a non-following snapshot of the last tailLines
// lines, used for history backfill.
func FetchLogTail(ctx context.Context, client kubernetes.Interface, namespace, pod string, tailLines int64) ([]string, error) {
	opts := &corev1.PodLogOptions{
		TailLines: &tailLines,
	}
	stream, err := client.CoreV1().Pods(namespace).GetLogs(pod, opts).Stream(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching logs for %s/%s: %w", namespace, pod, err)
	}
	defer stream.Close()

	var lines []string
	scanner := bufio.NewScanner(stream)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading logs for %s/%s: %w", namespace, pod, err)
	}
	return lines, nil
}
