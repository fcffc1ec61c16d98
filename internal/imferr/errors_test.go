package imferr

import (
	"errors"
	"os"
	"strings"
	"testing"
)

func TestConstructorsWrapSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		kind     string
		contains string
	}{
		{"invalid data", InvalidData("missing %s node", "AssetList"), ErrInvalidData, "invalid_data", "missing AssetList node"},
		{"not found", NotFound("asset %d", 7), ErrNotFound, "not_found", "asset 7"},
		{"allocation", Allocation("table full"), ErrAllocation, "allocation", "table full"},
		{"io without cause", IO("read asset map", nil), ErrIO, "io", "read asset map"},
		{"io with cause", IO("open", os.ErrNotExist), ErrIO, "io", "open"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.sentinel)
			}
			if got := Kind(tt.err); got != tt.kind {
				t.Errorf("Kind() = %s, want %s", got, tt.kind)
			}
			if !strings.Contains(tt.err.Error(), tt.contains) {
				t.Errorf("message %q does not contain %q", tt.err.Error(), tt.contains)
			}
		})
	}
}

func TestIOKeepsCause(t *testing.T) {
	err := IO("open", os.ErrNotExist)
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("cause should stay reachable through errors.Is")
	}
}

func TestKindUnclassified(t *testing.T) {
	if got := Kind(nil); got != "none" {
		t.Errorf("Kind(nil) = %s, want none", got)
	}
	if got := Kind(errors.New("boom")); got != "other" {
		t.Errorf("Kind(other) = %s, want other", got)
	}
}
