package common

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// CompletionIndexAnnotation holds a pod's index within an indexed batch
// job. The job controller sets it as an annotation on every supported
// cluster version; the label of the same name only exists on 1.27+.
const CompletionIndexAnnotation = "batch.kubernetes.io/job-completion-index"

// GetPodLog reads the full log of one container in one shot.
func GetPodLog(ctx context.Context, client kubernetes.Interface, podName, namespace, container string) ([]byte, error) {
	logReq := client.CoreV1().Pods(namespace).GetLogs(podName, &corev1.PodLogOptions{
		Container: container,
	})
	stream, err := logReq.Stream(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open log stream for pod %s: %w", podName, err)
	}
	defer stream.Close()
	return io.ReadAll(stream)
}

// GetPodLogStream follows a container's log and emits lines on the returned
// channel until the container exits or ctx is done. The channel is closed by
// the producer goroutine.
func GetPodLogStream(ctx context.Context, client kubernetes.Interface, podName, namespace, container string) (<-chan []byte, error) {
	logReq := client.CoreV1().Pods(namespace).GetLogs(podName, &corev1.PodLogOptions{
		Container: container,
		Follow:    true,
	})
	stream, err := logReq.Stream(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open log stream for pod %s: %w", podName, err)
	}

	ch := make(chan []byte)
	go func() {
		defer close(ch)
		defer stream.Close()
		scanner := bufio.NewScanner(stream)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := append([]byte{}, scanner.Bytes()...)
			line = append(line, '\n')
			select {
			case ch <- line:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			slog.Warn("pod log stream ended with error",
				slog.String("pod", podName), slog.Any("error", err))
		}
	}()
	return ch, nil
}

// PodByCompletionIndex returns the pod of an indexed job holding the
// given completion index, matched via annotation. When retries leave
// more than one pod at the same index, the newest wins. Returns nil
// when no pod has the index yet.
func PodByCompletionIndex(ctx context.Context, client kubernetes.Interface, namespace, jobName string, index int) (*corev1.Pod, error) {
	pods, err := client.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{
		LabelSelector: "job-name=" + jobName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pods of job %s: %w", jobName, err)
	}
	want := strconv.Itoa(index)
	var newest *corev1.Pod
	for i := range pods.Items {
		pod := &pods.Items[i]
		if pod.Annotations[CompletionIndexAnnotation] != want {
			continue
		}
		if newest == nil || newest.CreationTimestamp.Before(&pod.CreationTimestamp) {
			newest = pod
		}
	}
	return newest, nil
}

// FirstPodBySelector returns the oldest pod matching the label selector,
// or nil when none exist yet.
func FirstPodBySelector(ctx context.Context, client kubernetes.Interface, namespace, labelSelector string) (*corev1.Pod, error) {
	pods, err := client.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{
		LabelSelector: labelSelector,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pods with selector %s: %w", labelSelector, err)
	}
	if len(pods.Items) == 0 {
		return nil, nil
	}
	oldest := pods.Items[0]
	for _, pod := range pods.Items[1:] {
		if pod.CreationTimestamp.Before(&oldest.CreationTimestamp) {
			oldest = pod
		}
	}
	return &oldest, nil
}
