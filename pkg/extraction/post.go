package extraction

import (
	"regexp"
	"strings"

	"amplify/pipeline"
)

// PlaceholderContent substitutes an empty post body when nothing usable
// can be recovered from the raw text. Callers surface it for operator
// inspection rather than treating it as a failure.
const PlaceholderContent = "Content could not be recovered from the model response. Review the raw output and regenerate."

const defaultEngagement = "Medium"

var hashtagPattern = regexp.MustCompile(`#\w+`)

type postEnvelope struct {
	Title               string   `json:"title"`
	Content             string   `json:"content"`
	Hashtags            []string `json:"hashtags"`
	CallToAction        string   `json:"call_to_action"`
	EstimatedEngagement string   `json:"estimated_engagement"`
}

// Post extracts a GeneratedPost from raw model output. The returned bool
// reports whether a structured envelope was decoded; false means the
// record was reconstructed heuristically and is worth logging.
func Post(content string) (pipeline.GeneratedPost, bool) {
	env, err := Parse[postEnvelope](content)
	if err == nil {
		return pipeline.GeneratedPost{
			Title:               env.Title,
			Content:             env.Content,
			Hashtags:            env.Hashtags,
			CallToAction:        env.CallToAction,
			EstimatedEngagement: orDefault(env.EstimatedEngagement, defaultEngagement),
		}, true
	}

	return reconstructPost(content), false
}

// reconstructPost rebuilds a post from unstructured text: first non-empty
// line becomes the title, hashtag tokens are collected in order of first
// appearance and stripped from the body, and the remaining non-empty
// lines join as the content.
func reconstructPost(raw string) pipeline.GeneratedPost {
	lines := strings.Split(raw, "\n")

	title := ""
	titleIdx := -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			title = strings.TrimSpace(line)
			titleIdx = i
			break
		}
	}

	var hashtags []string
	seen := make(map[string]bool)
	var bodyLines []string

	for i, line := range lines {
		if i <= titleIdx {
			continue
		}

		stripped := hashtagPattern.ReplaceAllStringFunc(line, func(tag string) string {
			if !seen[tag] {
				seen[tag] = true
				hashtags = append(hashtags, tag)
			}
			return ""
		})

		if s := strings.TrimSpace(stripped); s != "" {
			bodyLines = append(bodyLines, s)
		}
	}

	body := strings.Join(bodyLines, "\n")
	if body == "" && titleIdx >= 0 {
		body = strings.TrimSpace(strings.Join(lines[titleIdx+1:], "\n"))
	}
	if body == "" {
		body = PlaceholderContent
	}

	if len(hashtags) == 0 {
		hashtags = synthesizeHashtags(title)
	}

	return pipeline.GeneratedPost{
		Title:               title,
		Content:             body,
		Hashtags:            hashtags,
		CallToAction:        "What are your thoughts? Share them in the comments.",
		EstimatedEngagement: defaultEngagement,
	}
}

// synthesizeHashtags derives up to three tags from the leading title
// words, lower-cased and filtered to alphanumerics.
func synthesizeHashtags(title string) []string {
	var tags []string
	for _, word := range strings.Fields(title) {
		var b strings.Builder
		for _, r := range strings.ToLower(word) {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				b.WriteRune(r)
			}
		}
		if b.Len() == 0 {
			continue
		}
		tags = append(tags, "#"+b.String())
		if len(tags) == 3 {
			break
		}
	}
	return tags
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
