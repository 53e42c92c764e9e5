package window

import "testing"

// newTestWindow builds a Window without spawning a real PTY child, so
// geometry/drag/hit-test/content logic can be exercised in isolation.
func newTestWindow(x, y, w, h int) *Window {
	return NewBare(x, y, w, h, "t")
}

func TestIsTouching_BorderInclusive(t *testing.T) {
	w := newTestWindow(5, 5, 60, 15)
	cases := []struct {
		x, y int
		want bool
	}{
		{5, 5, true},
		{4, 4, true},        // one cell into the border
		{5 + 60, 5 + 15, true}, // far corner of the border
		{3, 5, false},
		{5, 21, false},
	}
	for _, c := range cases {
		if got := w.IsTouching(c.x, c.y); got != c.want {
			t.Errorf("IsTouching(%d,%d) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}

func TestOnScrollY_ClampsAtZero(t *testing.T) {
	w := newTestWindow(0, 0, 10, 10)
	w.OnScrollY(5)
	if w.ScrollY() != 5 {
		t.Fatalf("ScrollY = %d, want 5", w.ScrollY())
	}
	w.OnScrollY(-20)
	if w.ScrollY() != 0 {
		t.Fatalf("ScrollY after over-negative delta = %d, want 0", w.ScrollY())
	}
}

func TestOnMouseDrag_RightEdgeResize(t *testing.T) {
	w := newTestWindow(10, 10, 20, 10)
	// Press lands on the right edge column (x+width), within vertical extent.
	w.OnMouseDown(w.x+w.width, w.y+5)
	w.OnMouseDrag(w.x+w.width+10, w.y+5)
	if w.Width() != 30 {
		t.Fatalf("Width after right-edge drag = %d, want 30", w.Width())
	}
	if w.Height() != 10 {
		t.Fatalf("Height should be unaffected, got %d", w.Height())
	}
}

func TestOnMouseDrag_BottomEdgeResize(t *testing.T) {
	w := newTestWindow(10, 10, 20, 10)
	w.OnMouseDown(w.x+5, w.y+w.height)
	w.OnMouseDrag(w.x+5, w.y+w.height+7)
	if w.Height() != 17 {
		t.Fatalf("Height after bottom-edge drag = %d, want 17", w.Height())
	}
	if w.Width() != 20 {
		t.Fatalf("Width should be unaffected, got %d", w.Width())
	}
}

func TestOnMouseDrag_TitleBarMove(t *testing.T) {
	w := newTestWindow(10, 10, 20, 10)
	// Press one row above the window, within its horizontal extent.
	w.OnMouseDown(w.x+3, w.y-1)
	w.OnMouseDrag(w.x+3+5, w.y-1+5)
	if w.X() != 15 || w.Y() != 14 {
		t.Fatalf("position after move = (%d,%d), want (15,14)", w.X(), w.Y())
	}
}

func TestOnMouseDrag_NonPositiveMoveSuppressed(t *testing.T) {
	w := newTestWindow(10, 10, 20, 10)
	w.OnMouseDown(w.x+3, w.y-1)
	// Drag to a point that would push x to <= 0.
	w.OnMouseDrag(1, w.y-1+5)
	if w.X() != 10 {
		t.Fatalf("X should be unchanged by a suppressed move, got %d", w.X())
	}
}

func TestOnMouseDrag_PlainDragIsNoOp(t *testing.T) {
	w := newTestWindow(10, 10, 20, 10)
	w.OnMouseDown(w.x+5, w.y+5) // press inside the content area
	w.OnMouseDrag(w.x+50, w.y+50)
	if w.Width() != 20 || w.Height() != 10 || w.X() != 10 || w.Y() != 10 {
		t.Fatalf("drag starting inside content should not move or resize, got x=%d y=%d w=%d h=%d",
			w.X(), w.Y(), w.Width(), w.Height())
	}
}

func TestEncodeKey(t *testing.T) {
	tests := []struct {
		name string
		k    Key
		want []byte
	}{
		{"char", Key{Code: KeyChar, Rune: 'a'}, []byte("a")},
		{"enter", Key{Code: KeyEnter}, []byte{0x0A}},
		{"backspace", Key{Code: KeyBackspace}, []byte{0x08}},
		{"arrow-left", Key{Code: KeyArrowLeft}, []byte{0x1B, '[', 'D'}},
		{"arrow-right", Key{Code: KeyArrowRight}, []byte{0x1B, '[', 'C'}},
		{"arrow-up", Key{Code: KeyArrowUp}, []byte{0x1B, '[', 'A'}},
		{"arrow-down", Key{Code: KeyArrowDown}, []byte{0x1B, '[', 'B'}},
		{"ctrl-c", Key{Code: KeyChar, Rune: 'c', Ctrl: true}, []byte{0x03}},
	}
	for _, tt := range tests {
		got := encodeKey(tt.k)
		if string(got) != string(tt.want) {
			t.Errorf("%s: encodeKey = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestGetContent_ForcesCursorReverseVideo(t *testing.T) {
	w := newTestWindow(0, 0, 5, 1)
	w.Input([]byte("hi"))
	content := w.GetContent()
	// cursor sits at col 2 after "hi"; expect an SGR switch to bg=47 there.
	if !contains(content, ";47m") {
		t.Fatalf("GetContent should force reverse video at the cursor cell: %q", content)
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
