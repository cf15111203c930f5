package common

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func TestGetPodLog(t *testing.T) {
	clientset := fake.NewSimpleClientset(&corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "ft-sentiment-01-1-0",
			Namespace: "tunehub",
		},
	})

	// the fake clientset serves a canned log body, enough to verify the
	// stream is opened and fully drained
	logs, err := GetPodLog(context.Background(), clientset, "ft-sentiment-01-1-0", "tunehub", "pytorch")
	require.NoError(t, err)
	assert.NotEmpty(t, logs)
}

func TestFirstPodBySelector(t *testing.T) {
	now := metav1.Now()
	earlier := metav1.NewTime(now.Add(-10 * time.Minute))

	clientset := fake.NewSimpleClientset(
		&corev1.Pod{
			ObjectMeta: metav1.ObjectMeta{
				Name:              "ft-sentiment-01-1-1",
				Namespace:         "tunehub",
				Labels:            map[string]string{"job-name": "ft-sentiment-01-1"},
				CreationTimestamp: now,
			},
		},
		&corev1.Pod{
			ObjectMeta: metav1.ObjectMeta{
				Name:              "ft-sentiment-01-1-0",
				Namespace:         "tunehub",
				Labels:            map[string]string{"job-name": "ft-sentiment-01-1"},
				CreationTimestamp: earlier,
			},
		},
	)

	t.Run("returns the oldest match", func(t *testing.T) {
		pod, err := FirstPodBySelector(context.Background(), clientset, "tunehub", "job-name=ft-sentiment-01-1")
		require.NoError(t, err)
		require.NotNil(t, pod)
		assert.Equal(t, "ft-sentiment-01-1-0", pod.Name)
	})

	t.Run("nil when nothing matches", func(t *testing.T) {
		pod, err := FirstPodBySelector(context.Background(), clientset, "tunehub", "job-name=ft-chat-02-9")
		require.NoError(t, err)
		assert.Nil(t, pod)
	})
}
