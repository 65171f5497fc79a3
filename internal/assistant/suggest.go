package assistant

// QuickReply is a topic shortcut. Selecting one submits its canonical
// sentence through the exact same send path as typed input.
type QuickReply struct {
	Label   string
	Message string
}

var baseQuickReplies = []QuickReply{
	{Label: "About Ahmet", Message: "Tell me about Ahmet"},
	{Label: "Services", Message: "What services does Ahmet offer?"},
	{Label: "Experience", Message: "What is Ahmet's professional experience?"},
	{Label: "Contact", Message: "How can I get in touch with Ahmet?"},
}

var pageQuickReplies = map[string][]QuickReply{
	"projects": {
		{Label: "Recent projects", Message: "What projects has Ahmet worked on recently?"},
	},
	"testimonials": {
		{Label: "Client feedback", Message: "What do clients say about working with Ahmet?"},
	},
	"pricing": {
		{Label: "Rates", Message: "How does Ahmet structure his pricing?"},
		{Label: "Estimate", Message: "How do I get a project estimate?"},
	},
}

// Suggestions returns the fixed base set plus page-specific extras.
func Suggestions(ctx Context) []QuickReply {
	out := append([]QuickReply(nil), baseQuickReplies...)
	out = append(out, pageQuickReplies[ctx.CurrentPage]...)
	return out
}
