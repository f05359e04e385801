package templates

// LayoutData is the header state shared by every page
type LayoutData struct {
	Title          string
	User           string
	AuthEnabled    bool
	SelectionCount int
	DemoKey        bool
}

func withTitle(l LayoutData, title string) LayoutData {
	l.Title = title
	return l
}
