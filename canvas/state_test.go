package canvas

import (
	"testing"

	"github.com/gogpu/dlist"
	"github.com/gogpu/dlist/clip"
)

type recordingClient struct {
	viewportInits int
	restores      int
}

func (c *recordingClient) OnViewportInitialized() { c.viewportInits++ }
func (c *recordingClient) OnSnapshotRestored(removed, restored *Snapshot) {
	c.restores++
}

func newTestState(t *testing.T) (*State, *recordingClient) {
	t.Helper()
	client := &recordingClient{}
	s := NewState(client)
	s.InitializeSaveStack(200, 200, 0, 0, 200, 200)
	return s, client
}

func TestSaveRestoreMatrixIsolation(t *testing.T) {
	s, _ := newTestState(t)

	s.Save(SaveMatrixClip)
	s.Translate(10, 20)
	if got := s.CurrentTransform(); got != dlist.Translation(10, 20) {
		t.Fatalf("transform = %v", got)
	}
	s.Restore()
	if got := s.CurrentTransform(); !got.IsIdentity() {
		t.Fatalf("transform after restore = %v, want identity", got)
	}
}

func TestRestoreWriteThrough(t *testing.T) {
	s, _ := newTestState(t)

	// Without SaveMatrix, the translation persists past restore.
	s.Save(SaveClip)
	s.Translate(5, 5)
	s.Restore()
	if got := s.CurrentTransform(); got != dlist.Translation(5, 5) {
		t.Fatalf("transform = %v, want write-through translation", got)
	}

	// Without SaveClip, the clip persists past restore.
	s.Save(SaveMatrix)
	s.ClipRect(0, 0, 50, 50, clip.OpIntersect)
	s.Restore()
	if got, want := s.GetRenderTargetClipBounds(), dlist.RectLTRB(5, 5, 55, 55); got != want {
		t.Fatalf("clip = %v, want %v", got, want)
	}
}

func TestRestoreToCount(t *testing.T) {
	s, client := newTestState(t)

	count := s.Save(SaveMatrixClip)
	s.Save(SaveMatrixClip)
	s.Save(SaveMatrixClip)
	s.RestoreToCount(count)
	if got := s.SaveCount(); got != count {
		t.Fatalf("SaveCount = %d, want %d", got, count)
	}
	if client.restores != 3 {
		t.Fatalf("restores = %d, want 3", client.restores)
	}

	// Restoring past the base snapshot is a no-op.
	s.RestoreToCount(0)
	if got := s.SaveCount(); got != 1 {
		t.Fatalf("SaveCount = %d, want 1", got)
	}
}

func TestClipIntersectShrinks(t *testing.T) {
	s, _ := newTestState(t)

	s.Save(SaveMatrixClip)
	s.Translate(50, 50)
	if !s.ClipRect(0, 0, 100, 100, clip.OpIntersect) {
		t.Fatal("clip reported empty")
	}
	if got, want := s.GetRenderTargetClipBounds(), dlist.RectLTRB(50, 50, 150, 150); got != want {
		t.Fatalf("clip = %v, want %v", got, want)
	}

	// Local clip bounds map the render-target clip back through the
	// inverse transform.
	if got, want := s.GetLocalClipBounds(), dlist.RectLTRB(0, 0, 100, 100); got != want {
		t.Fatalf("local clip = %v, want %v", got, want)
	}
	s.Restore()
}

func TestQuickRejectConservative(t *testing.T) {
	s, _ := newTestState(t)
	s.ClipRect(0, 0, 100, 100, clip.OpIntersect)

	tests := []struct {
		name                     string
		left, top, right, bottom float32
		want                     bool
	}{
		{"inside", 10, 10, 20, 20, false},
		{"straddling", 90, 90, 150, 150, false},
		{"outside", 150, 150, 180, 180, true},
		{"empty rect", 50, 50, 50, 50, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.QuickRejectConservative(tt.left, tt.top, tt.right, tt.bottom); got != tt.want {
				t.Fatalf("QuickRejectConservative = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAlphaAccumulates(t *testing.T) {
	s, _ := newTestState(t)

	s.Save(SaveMatrixClip)
	s.ScaleAlpha(0.5)
	s.Save(SaveMatrixClip)
	s.ScaleAlpha(0.5)
	if got := s.CurrentSnapshot().Alpha; got != 0.25 {
		t.Fatalf("alpha = %g, want 0.25", got)
	}
	s.RestoreToCount(1)
	if got := s.CurrentSnapshot().Alpha; got != 1 {
		t.Fatalf("alpha after restore = %g, want 1", got)
	}
}

func TestInitializeSaveStackResets(t *testing.T) {
	s, client := newTestState(t)
	s.Save(SaveMatrixClip)
	s.Translate(1, 2)

	s.InitializeSaveStack(100, 50, 0, 0, 100, 50)
	if got := s.SaveCount(); got != 1 {
		t.Fatalf("SaveCount = %d, want 1", got)
	}
	if !s.CurrentTransform().IsIdentity() {
		t.Fatal("transform not reset")
	}
	if got := s.CurrentSnapshot().ViewportWidth(); got != 100 {
		t.Fatalf("viewport width = %d, want 100", got)
	}
	if client.viewportInits != 2 {
		t.Fatalf("viewport inits = %d, want 2", client.viewportInits)
	}
}
