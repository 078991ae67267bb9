package masterpages

const (
	Standard  = "standard"
	FullWidth = "full-width"
	Blog      = "blog"
)

func slot(name, description string, required bool) ContentSlot {
	return ContentSlot{Name: name, Description: description, IsRequired: required}
}

// BuiltinSchemas returns the master pages every registry starts with.
func BuiltinSchemas() []*Schema {
	return []*Schema{
		{
			Name: Standard,
			Slots: []ContentSlot{
				slot(SlotHead, "Document head: meta tags and stylesheets", false),
				slot(SlotHeader, "Site header and branding", false),
				slot(SlotNavigation, "Primary navigation", false),
				slot(SlotContent, "Main page content", true),
				slot(SlotFooter, "Site footer", false),
				slot(SlotScripts, "Scripts loaded at the end of the body", false),
			},
		},
		{
			Name: FullWidth,
			Slots: []ContentSlot{
				slot(SlotHead, "Document head: meta tags and stylesheets", false),
				slot(SlotContent, "Edge to edge page content", true),
				slot(SlotScripts, "Scripts loaded at the end of the body", false),
			},
		},
		{
			Name: Blog,
			Slots: []ContentSlot{
				slot(SlotHead, "Document head: meta tags and stylesheets", false),
				slot(SlotHeader, "Blog header and branding", false),
				slot(SlotNavigation, "Primary navigation", false),
				slot(SlotContent, "Post or listing content", true),
				slot("sidebar", "Archive, tags and related posts", false),
				slot(SlotFooter, "Site footer", false),
				slot(SlotScripts, "Scripts loaded at the end of the body", false),
			},
		},
	}
}
