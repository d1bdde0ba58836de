/*
Package mentor generates canned AI-mentor replies for the chat surface.

Replies are keyword-matched first, then drawn from a general pool. The
responder is pure and stateless apart from its random source.
*/
package mentor

import (
	"math/rand"
	"strings"
)

var generalResponses = []string{
	"That's a great question! Let me help you understand this concept better.",
	"I can see you're curious about this topic. Here's what I recommend...",
	"Based on your question, I think you'd benefit from focusing on the fundamentals first.",
	"Excellent point! This is a common challenge that many learners face.",
	"Let me break this down for you in simpler terms...",
	"That's an advanced topic! You're making great progress in your learning journey.",
}

type keywordResponse struct {
	keyword  string
	response string
}

// keywordResponses is ordered so multi-keyword messages answer deterministically.
var keywordResponses = []keywordResponse{
	{"help", "I'm here to help! What specific area would you like me to explain?"},
	{"difficult", "I understand this can be challenging. Let's approach it step by step."},
	{"confused", "No worries! Confusion is part of learning. Let me clarify this for you."},
	{"example", "Great question! Here's a practical example that might help illustrate the concept."},
	{"practice", "Practice is key to mastering any skill. I recommend starting with basic exercises."},
}

// Respond returns the mentor reply for a user message.
// Keyword matches take priority over the general pool.
func Respond(userMessage string) string {
	lower := strings.ToLower(userMessage)

	for _, kr := range keywordResponses {
		if strings.Contains(lower, kr.keyword) {
			return kr.response
		}
	}

	return generalResponses[rand.Intn(len(generalResponses))]
}
