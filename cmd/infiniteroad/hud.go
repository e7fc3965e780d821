package main

import (
	"fmt"
	"strings"
)

// titleHUD collects per-frame stats for the window title.
type titleHUD struct {
	fields []string
}

func (h *titleHUD) Add(format string, args ...interface{}) {
	h.fields = append(h.fields, fmt.Sprintf(format, args...))
}

func (h *titleHUD) Clear() {
	h.fields = h.fields[:0]
}

func (h *titleHUD) String() string {
	return strings.Join(h.fields, " | ")
}
