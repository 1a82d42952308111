package recipe

import "fmt"

const intentSystemPrompt = `You are a culinary assistant that matches a person's mood to a style of dish.
You always answer with a single JSON object and nothing else.`

// buildIntentPrompt 以序列化後的心情狀態建立分類 prompt
func buildIntentPrompt(moodJSON, primaryEmotion string) string {
	return fmt.Sprintf(`Based on the following mood analysis, recommend a type of recipe.

Mood analysis:
%s

Aggregated primary emotion: %s

Requirements:
1. "type" is a short recipe category that works as a recipe search query, for example "comfort food" or "fresh and vibrant"
2. "reason" is one or two sentences addressed to the user explaining why this type matches their mood
3. "preparationTime" must be one of "quick", "medium", "lengthy"
4. "complexity" must be one of "simple", "moderate", "complex"
5. "comfort" is an integer from 1 to 10
6. Return only one JSON object with exactly these five fields

Example (do not copy the values):
{"type":"comfort food","reason":"...","preparationTime":"medium","complexity":"simple","comfort":8}`,
		moodJSON, primaryEmotion)
}

// videoPrompts 依序嘗試的影片查詢措辭
var videoPrompts = []string{
	`Find a YouTube video that shows how to cook "%s". Reply with only the full video URL.`,
	`What is a popular YouTube or Vimeo cooking tutorial for the recipe "%s"? Include the complete link to the video.`,
	`Give me one link to a video demonstrating how to make %s. A youtube.com, youtu.be or vimeo.com URL is required.`,
}
