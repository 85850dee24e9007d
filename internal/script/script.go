// Package script holds the canned assistant replies and the static
// outfit catalog. It stands in for a streaming backend: the engine
// reveals a selected script over time instead of consuming network
// tokens, and the two are interchangeable behind the same contract.
package script

// Script is one canned assistant reply.
type Script struct {
	// Text is revealed one character at a time.
	Text string
	// HasSuggestions marks scripts followed by a structured outfit
	// message after a short delay.
	HasSuggestions bool
}

// StatusLabels is the rotation shown while waiting for the first
// character of a reply.
var StatusLabels = []string{"Thinking", "Generating", "Searching", "Browsing"}

var scripts = []Script{
	{
		Text: "Love it — let's build you a look. Based on what you've told me, " +
			"I'd lean into something relaxed but intentional: clean lines, one " +
			"statement piece, and shoes you can actually walk in. I've pulled " +
			"together a few complete outfits below, each one ready to wear as-is " +
			"or mix into what you already own.",
		HasSuggestions: true,
	},
	{
		Text: "Good question! A quick rule of thumb: pick one hero piece and keep " +
			"everything else quiet. If the jacket is doing the talking, the rest " +
			"of the outfit should stay neutral — think tonal layers and simple " +
			"silhouettes. Want me to put together a few options around a piece " +
			"you already have?",
	},
	{
		Text: "Here's another direction. I went slightly dressier this time — a " +
			"structured layer over something soft reads polished without feeling " +
			"like effort. I've assembled the full outfits below with pieces that " +
			"work across seasons.",
		HasSuggestions: true,
	},
	{
		Text: "Totally doable. The trick with that palette is texture: when the " +
			"colors are close together, mixing knits, leather, and crisp cotton " +
			"keeps the outfit from going flat. Tell me the occasion and I'll " +
			"pull specific pieces for you.",
	},
}

// Select picks a script from the fixed rotation. Callers pass an
// increasing per-session turn index so consecutive turns cycle through
// different replies instead of repeating the first.
func Select(index int) Script {
	n := len(scripts)
	i := index % n
	if i < 0 {
		i += n
	}
	return scripts[i]
}

// Count returns the number of scripts in the rotation.
func Count() int {
	return len(scripts)
}
