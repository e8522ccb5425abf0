package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttributeHelpers(t *testing.T) {
	tests := []struct {
		name     string
		attr     slog.Attr
		wantKey  string
		wantText string
	}{
		{"Operation", Operation("refresh"), KeyOperation, "refresh"},
		{"Namespace", Namespace("team-a"), KeyNamespace, "team-a"},
		{"ResourceType", ResourceType("rolebindings"), KeyResourceType, "rolebindings"},
		{"ResourceName", ResourceName("team-a-custom-rolebinding"), KeyResourceName, "team-a-custom-rolebinding"},
		{"EventType", EventType("ADDED"), KeyEventType, "ADDED"},
		{"Status", Status(StatusSuccess), KeyStatus, "success"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantKey, tt.attr.Key)
			assert.Equal(t, tt.wantText, tt.attr.Value.String())
		})
	}
}

func TestErr(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		attr := Err(nil)
		assert.Equal(t, KeyError, attr.Key)
		assert.Equal(t, "", attr.Value.String())
	})

	t.Run("non-nil error", func(t *testing.T) {
		attr := Err(errors.New("boom"))
		assert.Equal(t, KeyError, attr.Key)
		assert.Equal(t, "boom", attr.Value.String())
	})
}

func TestCount(t *testing.T) {
	attr := Count(42)
	assert.Equal(t, KeyCount, attr.Key)
	assert.Equal(t, int64(42), attr.Value.Int64())
}

func TestWithOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	WithOperation(logger, "reconcile").Info("processing")
	output := buf.String()
	assert.Contains(t, output, `"operation":"reconcile"`)
	assert.Contains(t, output, "processing")
}

func TestWithTargetUser(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	WithTargetUser(logger, "k8user").Info("starting")
	output := buf.String()
	assert.Contains(t, output, `"target_user":"k8user"`)
}
