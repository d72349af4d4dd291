package extraction

import (
	"fmt"
	"strings"

	"amplify/pipeline"
)

// IdeaCount is the number of candidate ideas every extraction yields.
const IdeaCount = 2

type ideasEnvelope struct {
	Ideas []ideaEnvelope `json:"ideas"`
}

type ideaEnvelope struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	KeyPoints          []string `json:"key_points"`
	TargetAudience     string   `json:"target_audience"`
	InspirationSources []string `json:"inspiration_sources"`
}

// Ideas extracts exactly two content ideas from raw model output. When
// the envelope is missing or malformed, ideas are reconstructed from
// paragraph sections and padded with clearly labeled placeholders so the
// two-idea invariant always holds. The returned bool reports whether a
// structured envelope was decoded.
func Ideas(content, topic string) ([]pipeline.ContentIdea, bool) {
	env, err := Parse[ideasEnvelope](content)
	if err == nil && len(env.Ideas) > 0 {
		ideas := make([]pipeline.ContentIdea, 0, IdeaCount)
		for _, e := range env.Ideas {
			ideas = append(ideas, pipeline.ContentIdea{
				Title:              e.Title,
				Description:        e.Description,
				KeyPoints:          e.KeyPoints,
				TargetAudience:     e.TargetAudience,
				InspirationSources: e.InspirationSources,
			})
			if len(ideas) == IdeaCount {
				break
			}
		}
		return pad(ideas, topic), true
	}

	return pad(reconstructIdeas(content, topic), topic), false
}

// reconstructIdeas splits raw text into paragraph sections and treats
// each substantial section as one idea: first line as the title (list
// prefixes stripped), the rest as the description.
func reconstructIdeas(raw, topic string) []pipeline.ContentIdea {
	var ideas []pipeline.ContentIdea

	for _, section := range strings.Split(raw, "\n\n") {
		section = strings.TrimSpace(section)
		if len(section) <= 50 {
			continue
		}

		lines := strings.Split(section, "\n")
		title := stripListPrefix(strings.TrimSpace(lines[0]))

		desc := clip(strings.TrimSpace(strings.Join(lines[1:], " ")), 200)
		if desc == "" {
			desc = "Generated from source material on " + topic
		}

		ideas = append(ideas, pipeline.ContentIdea{
			Title:              title,
			Description:        desc,
			KeyPoints:          keyPoints(section),
			TargetAudience:     "Business professionals and thought leaders",
			InspirationSources: []string{"source material"},
		})
		if len(ideas) == IdeaCount {
			break
		}
	}

	return ideas
}

// pad fills the idea list up to IdeaCount with placeholder entries that
// an operator can recognize and reject.
func pad(ideas []pipeline.ContentIdea, topic string) []pipeline.ContentIdea {
	for len(ideas) < IdeaCount {
		n := len(ideas) + 1
		ideas = append(ideas, pipeline.ContentIdea{
			Title:              fmt.Sprintf("Draft idea %d (needs review)", n),
			Description:        "The model response did not contain enough material for a second idea. Regenerate or refine the topic: " + topic,
			KeyPoints:          []string{"placeholder"},
			TargetAudience:     "unspecified",
			InspirationSources: []string{"none"},
		})
	}
	return ideas[:IdeaCount]
}

// keyPoints pulls bullet lines out of a section, if any.
func keyPoints(section string) []string {
	var points []string
	for _, line := range strings.Split(section, "\n")[1:] {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") {
			points = append(points, strings.TrimSpace(strings.TrimLeft(line, "-* ")))
		}
	}
	if len(points) == 0 {
		points = []string{"see description"}
	}
	return points
}

func stripListPrefix(s string) string {
	for _, prefix := range []string{"1.", "2.", "3.", "4.", "5.", "-", "*"} {
		if strings.HasPrefix(s, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(s, prefix))
		}
	}
	return s
}
