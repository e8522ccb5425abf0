package k8s

import (
	"context"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/watch"
)

// NamespaceWatcher implementation

// WatchNamespaces returns an ordered namespace event stream. The current
// namespaces are listed first and replayed into the channel as synthetic
// ADDED events, then the stream continues with live watch events started
// from the list's resource version. The channel is closed when the
// underlying watch ends or the context is cancelled; no reconnect is
// attempted here.
func (c *kubernetesClient) WatchNamespaces(ctx context.Context) (<-chan watch.Event, error) {
	c.logOperation("watch-namespaces", "", "namespaces", "")

	nsList, err := c.clientset.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list namespaces: %w", err)
	}

	// The watch is deliberately opened without a timeout: it runs until the
	// stream errors or the process is terminated.
	watcher, err := c.clientset.CoreV1().Namespaces().Watch(ctx, metav1.ListOptions{
		ResourceVersion: nsList.ResourceVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to watch namespaces: %w", err)
	}

	events := make(chan watch.Event)

	go func() {
		defer close(events)
		defer watcher.Stop()

		// Replay the snapshot as ADDED events so namespaces that existed
		// before startup are reconciled too.
		for i := range nsList.Items {
			ns := nsList.Items[i]
			select {
			case events <- watch.Event{Type: watch.Added, Object: &ns}:
			case <-ctx.Done():
				return
			}
		}

		for {
			select {
			case event, ok := <-watcher.ResultChan():
				if !ok {
					if c.config.Logger != nil {
						c.config.Logger.Warn("namespace watch stream closed")
					}
					return
				}
				select {
				case events <- event:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}
