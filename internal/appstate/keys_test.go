package appstate

import (
	"testing"

	"golang.org/x/mobile/event/key"
)

func TestKeymapLookup(t *testing.T) {
	m := defaultKeymap()
	tests := []struct {
		name string
		ev   key.Event
		want string
	}{
		{"ctrl z", key.Event{Rune: 'z', Code: key.CodeZ, Modifiers: key.ModControl}, actionUndo},
		{"meta z", key.Event{Rune: 'z', Code: key.CodeZ, Modifiers: key.ModMeta}, actionUndo},
		{"ctrl shift Z", key.Event{Rune: 'Z', Code: key.CodeZ, Modifiers: key.ModControl | key.ModShift}, actionUndo},
		{"plain z", key.Event{Rune: 'z', Code: key.CodeZ}, ""},
		{"enter", key.Event{Rune: -1, Code: key.CodeReturnEnter}, actionProcess},
		{"shift plus", key.Event{Rune: '+', Code: key.CodeEqualSign, Modifiers: key.ModShift}, actionZoomIn},
		{"bracket", key.Event{Rune: '[', Code: key.CodeLeftSquareBracket}, actionSmaller},
		{"B", key.Event{Rune: 'B', Code: key.CodeB, Modifiers: key.ModShift}, actionBrush},
		{"ctrl s", key.Event{Rune: 's', Code: key.CodeS, Modifiers: key.ModControl}, actionSave},
		{"zero", key.Event{Rune: '0', Code: key.Code0}, actionFit},
		{"escape", key.Event{Rune: -1, Code: key.CodeEscape}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.lookup(tt.ev)
			if got != tt.want || ok != (tt.want != "") {
				t.Errorf("lookup = %q, %v; want %q", got, ok, tt.want)
			}
		})
	}
}

func TestEveryShortcutHasAction(t *testing.T) {
	known := map[string]bool{}
	for _, a := range []string{actionOpen, actionPaste, actionCapture, actionBrush, actionHand,
		actionSmaller, actionBigger, actionUndo, actionReset, actionProcess, actionSave,
		actionCopy, actionZoomIn, actionZoomOut, actionFit, actionQuit} {
		known[a] = true
	}
	for sc, a := range defaultKeymap() {
		if !known[a] {
			t.Errorf("shortcut %+v maps to unknown action %q", sc, a)
		}
	}
}
