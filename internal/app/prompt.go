package app

import (
	"fmt"

	"travela/internal/domain"
)

// guideSchema is appended verbatim so the model knows the exact shape we parse.
const guideSchema = `{
  "history": "string",
  "trivia": ["fact1", "fact2", "fact3"],
  "places": [{"name": "string", "description": "string"}, {"name": "string", "description": "string"}],
  "hotels": [{"name": "string", "priceRange": "string"}, {"name": "string", "priceRange": "string"}],
  "cuisine": [{"dish": "string", "description": "string"}, {"dish": "string", "description": "string"}],
  "tips": ["tip1", "tip2", "tip3"]
}`

const guidePromptTemplate = `Create a comprehensive travel guide for %s with the following details:
1. A brief history of the location (2-3 sentences)
2. Three interesting facts about the place
3. Two must-visit places with brief descriptions
4. Two recommended hotels with price ranges
5. Two local dishes with brief descriptions
6. Three important travel tips

Please provide the response in this exact JSON format:
%s`

// BuildPrompt is a pure function of q.
func BuildPrompt(q domain.GuideQuery) string {
	return fmt.Sprintf(guidePromptTemplate, q.Location(), guideSchema)
}
