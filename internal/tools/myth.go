package tools

// Slide is one step of the 70% myth story.
type Slide struct {
	Title          string
	Content        string
	Highlight      string
	HighlightLabel string
}

// MythSlides is the fixed slideshow.
var MythSlides = []Slide{
	{Title: "The 70% Myth", Content: "You've heard it: '70% of change initiatives fail.' It's cited everywhere.", Highlight: "70%", HighlightLabel: "of changes fail"},
	{Title: "But where does it come from?", Content: "It traces back to a 1993 book. They didn't cite a source. They estimated.", Highlight: "1993", HighlightLabel: "Origin year"},
	{Title: "It's been passed around ever since", Content: "Researchers tried to verify it. They can't. The citation chain leads nowhere.", Highlight: "0", HighlightLabel: "Studies confirming it"},
	{Title: "What we actually know", Content: "Change success is contextual. A single statistic can't capture this complexity.", Highlight: "∞", HighlightLabel: "Variables at play"},
	{Title: "Why does the myth persist?", Content: "It's useful. For consultants, urgency. For change managers, justification. But useful isn't true.", Highlight: "💰", HighlightLabel: "Follow the incentives"},
	{Title: "What to do instead", Content: "Focus on your specific context. Your organisation's history is more predictive.", Highlight: "📊", HighlightLabel: "Use real data"},
	{Title: "The real question", Content: "Instead of 'will we be in the 70%?' ask: 'What would make this succeed or fail here?'", Highlight: "?", HighlightLabel: "Ask better questions"},
}

// MythReading is the further-reading citation shown under the slides.
const MythReading = `Hughes, M. (2011). "Do 70 Per Cent of All Organizational Change Initiatives Really Fail?" Journal of Change Management, 11(4), 451-464.`

// Deck is a position in the slideshow.
type Deck struct {
	Index int
}

// Current returns the slide at the deck position.
func (d Deck) Current() Slide { return MythSlides[d.clamp(d.Index)] }

// Next advances one slide, stopping at the last.
func (d Deck) Next() Deck { return Deck{Index: d.clamp(d.Index + 1)} }

// Prev goes back one slide, stopping at the first.
func (d Deck) Prev() Deck { return Deck{Index: d.clamp(d.Index - 1)} }

// Goto jumps to slide i, clamped to the deck.
func (d Deck) Goto(i int) Deck { return Deck{Index: d.clamp(i)} }

func (d Deck) IsFirst() bool { return d.clamp(d.Index) == 0 }

func (d Deck) IsLast() bool { return d.clamp(d.Index) == len(MythSlides)-1 }

func (Deck) clamp(i int) int {
	return min(max(i, 0), len(MythSlides)-1)
}
