package rerrors

import (
	"errors"
	"testing"
)

type fakeScene struct {
	camera, light, accel bool
}

func (f fakeScene) HasCamera() bool      { return f.camera }
func (f fakeScene) HasLight() bool       { return f.light }
func (f fakeScene) HasAccelerator() bool { return f.accel }

func TestRequireRenderable(t *testing.T) {
	if err := RequireRenderable(fakeScene{true, true, true}); err != nil {
		t.Fatalf("fully-formed scene should be renderable, got %v", err)
	}

	err := RequireRenderable(fakeScene{camera: false, light: true, accel: true})
	if !Is(err, Unsupported) {
		t.Fatalf("expected Unsupported, got %v", err)
	}

	err = RequireRenderable(fakeScene{camera: true, light: true, accel: false})
	if !Is(err, Unsupported) {
		t.Fatalf("missing accelerator should report Unsupported, got %v", err)
	}
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(IOError, "loading texture", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("Wrap should preserve unwrap chain to cause")
	}
	if !Is(err, IOError) {
		t.Fatalf("expected IOError kind")
	}
}
