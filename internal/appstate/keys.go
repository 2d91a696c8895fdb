package appstate

import (
	"unicode"

	"golang.org/x/mobile/event/key"
)

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// Action names shared by the keyboard map and the toolbar.
const (
	actionOpen    = "open"
	actionPaste   = "paste"
	actionCapture = "capture"
	actionBrush   = "brush"
	actionHand    = "hand"
	actionSmaller = "smaller"
	actionBigger  = "bigger"
	actionUndo    = "undo"
	actionReset   = "reset"
	actionProcess = "process"
	actionSave    = "save"
	actionCopy    = "copy"
	actionZoomIn  = "zoomin"
	actionZoomOut = "zoomout"
	actionFit     = "fit"
	actionQuit    = "quit"
)

func ctrl(r rune) KeyShortcut { return KeyShortcut{Rune: r, Modifiers: key.ModControl} }

var defaultShortcuts = []struct {
	action string
	keys   shortcutList
}{
	{actionOpen, shortcutList{ctrl('o')}},
	{actionPaste, shortcutList{ctrl('v')}},
	{actionCapture, shortcutList{ctrl('n')}},
	{actionBrush, shortcutList{{Rune: 'b'}}},
	{actionHand, shortcutList{{Rune: 'h'}}},
	{actionSmaller, shortcutList{{Rune: '['}}},
	{actionBigger, shortcutList{{Rune: ']'}}},
	{actionUndo, shortcutList{ctrl('z'), {Rune: 'z', Modifiers: key.ModMeta}}},
	{actionProcess, shortcutList{{Code: key.CodeReturnEnter}, {Code: key.CodeKeypadEnter}, {Rune: '\r'}, {Rune: '\n'}}},
	{actionSave, shortcutList{ctrl('s'), {Rune: 's', Modifiers: key.ModMeta}}},
	{actionCopy, shortcutList{ctrl('c'), {Rune: 'c', Modifiers: key.ModMeta}}},
	{actionZoomIn, shortcutList{{Rune: '+'}, {Rune: '='}}},
	{actionZoomOut, shortcutList{{Rune: '-'}}},
	{actionFit, shortcutList{{Rune: '0'}}},
	{actionQuit, shortcutList{{Rune: 'q'}}},
}

// keymap maps shortcuts to action names.
type keymap map[KeyShortcut]string

func (m keymap) register(action string, keys KeyboardShortcuts) {
	for _, sc := range keys.KeyboardShortcuts() {
		m[sc] = action
	}
}

func defaultKeymap() keymap {
	m := keymap{}
	for _, s := range defaultShortcuts {
		m.register(s.action, s.keys)
	}
	return m
}

// lookup resolves a key press. Shift is ignored for printable keys so that
// "+" works whether or not the layout needs Shift for it.
func (m keymap) lookup(e key.Event) (string, bool) {
	ks := KeyShortcut{Rune: unicode.ToLower(e.Rune), Code: e.Code, Modifiers: e.Modifiers}
	if e.Rune > 0 {
		ks.Code = key.CodeUnknown
	} else {
		ks.Rune = 0
	}
	if a, ok := m[ks]; ok {
		return a, true
	}
	if e.Rune > 0 && ks.Modifiers&key.ModShift != 0 {
		ks.Modifiers &^= key.ModShift
		a, ok := m[ks]
		return a, ok
	}
	return "", false
}
