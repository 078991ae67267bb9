package masterpages

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

var skeletonSlots = []string{SlotHead, SlotHeader, SlotNavigation, SlotContent, SlotFooter, SlotScripts}

func isSkeletonSlot(name string) bool {
	for _, slot := range skeletonSlots {
		if slot == name {
			return true
		}
	}
	return false
}

// documentOrder lists schema slots as they appear in the document: the fixed
// skeleton, with any other schema slots after content and before footer.
func documentOrder(schema *Schema) []ContentSlot {
	bySlot := make(map[string]ContentSlot, len(schema.Slots))
	var extras []ContentSlot
	for _, slot := range schema.Slots {
		key := canonicalKey(slot.Name)
		bySlot[key] = slot
		if !isSkeletonSlot(key) {
			extras = append(extras, slot)
		}
	}

	out := make([]ContentSlot, 0, len(schema.Slots))
	for _, name := range skeletonSlots {
		if name == SlotFooter {
			out = append(out, extras...)
		}
		if slot, ok := bySlot[name]; ok {
			out = append(out, slot)
		}
	}
	return out
}

func (s *service) compose(ctx context.Context, schema *Schema, rc RenderContext, supplied map[string]templ.Component) (string, error) {
	var body strings.Builder
	var head string

	for _, slot := range documentOrder(schema) {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("render cancelled before slot %q: %w", slot.Name, err)
		}
		key := canonicalKey(slot.Name)
		content, present := s.resolve(key, slot, rc, supplied)
		if !present {
			continue
		}
		fragment, err := renderSlot(ctx, slot.Name, content)
		if err != nil {
			return "", err
		}

		switch key {
		case SlotHead:
			head = fragment
		case SlotContent:
			body.WriteString("<main>")
			if strings.TrimSpace(fragment) == "" {
				body.WriteString(emptyContentComment)
			} else {
				body.WriteString(fragment)
			}
			body.WriteString("</main>")
		case SlotHeader, SlotNavigation, SlotFooter, SlotScripts:
			body.WriteString(fragment)
		default:
			fmt.Fprintf(&body, `<div class="slot slot-%s">`, templ.EscapeString(key))
			body.WriteString(fragment)
			body.WriteString("</div>")
		}
	}

	var doc strings.Builder
	doc.Grow(body.Len() + len(head) + 64)
	doc.WriteString("<!DOCTYPE html><html><head>")
	doc.WriteString(head)
	doc.WriteString("</head><body>")
	doc.WriteString(body.String())
	doc.WriteString("</body></html>")
	return doc.String(), nil
}

// resolve picks a slot's content: request content first, then a shared
// provider, then the schema default. A request entry with a nil component
// still counts as present.
func (s *service) resolve(key string, slot ContentSlot, rc RenderContext, supplied map[string]templ.Component) (templ.Component, bool) {
	if content, ok := supplied[key]; ok {
		return content, true
	}
	if provider, ok := s.provider(key); ok {
		return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			content := provider(ctx, rc)
			if content == nil {
				return nil
			}
			return content.Render(ctx, w)
		}), true
	}
	if slot.DefaultContent != "" {
		return templ.Raw(slot.DefaultContent), true
	}
	return nil, false
}

func renderSlot(ctx context.Context, name string, content templ.Component) (fragment string, err error) {
	if content == nil {
		return "", nil
	}
	defer func() {
		if r := recover(); r != nil {
			fragment = ""
			err = fmt.Errorf("slot %q panicked: %v", name, r)
		}
	}()
	var sb strings.Builder
	if err := content.Render(ctx, &sb); err != nil {
		return "", fmt.Errorf("slot %q: %w", name, err)
	}
	return sb.String(), nil
}
