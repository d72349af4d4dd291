package prompts

const ideasSpec = `Respond with a JSON object matching this exact structure:

{
  "ideas": [
    {
      "title": "<catchy title>",
      "description": "<brief description>",
      "key_points": ["<point 1>", "<point 2>", "<point 3>"],
      "target_audience": "<specific audience>",
      "inspiration_sources": ["<source 1>"]
    }
  ]
}

Behavioral constraints:
- The ideas array contains exactly 2 entries
- Always respond with valid JSON, no markdown fencing
- Escape line breaks inside string values`

const postSpec = `Respond with a JSON object matching this exact structure:

{
  "title": "<post title>",
  "content": "<full post content with formatting and line breaks>",
  "hashtags": ["#tag1", "#tag2", "#tag3"],
  "call_to_action": "<clear call-to-action statement>",
  "estimated_engagement": "<High, Medium, or Low>"
}

Behavioral constraints:
- Hashtags appear only in the hashtags field, never in content
- Always respond with valid JSON, no markdown fencing
- Escape line breaks inside string values`

var specs = map[Stage]string{
	StageIdeas: ideasSpec,
	StageDraft: postSpec,
	StagePromo: postSpec,
}

// Spec returns the response-format text for a stage.
// Returns ErrInvalidStage if the stage is not recognized.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
