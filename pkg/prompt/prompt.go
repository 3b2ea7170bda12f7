package prompt

import (
	"fmt"
	"strings"
)

// Mode selects which instruction prompt the composer builds.
type Mode int

const (
	ModeFAQ Mode = iota
	ModeRecommend
)

func (m Mode) String() string {
	if m == ModeRecommend {
		return "recommend"
	}
	return "faq"
}

// ParseMode maps a request-supplied mode string to a Mode. Anything
// unrecognized falls back to FAQ.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), "recommend") {
		return ModeRecommend
	}
	return ModeFAQ
}

// Turn is one user/assistant exchange.
type Turn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// ContextSeparator joins retrieved chunks inside the prompt.
const ContextSeparator = "\n\n---\n\n"

func JoinContext(chunks []string) string {
	return strings.Join(chunks, ContextSeparator)
}

// FormatHistory serializes turns chronologically as alternating
// "User:"/"Assistant:" lines, keeping only the most recent maxTurns
// when the history is longer. maxTurns <= 0 means no cap.
func FormatHistory(turns []Turn, maxTurns int) string {
	if maxTurns > 0 && len(turns) > maxTurns {
		turns = turns[len(turns)-maxTurns:]
	}
	var b strings.Builder
	for _, t := range turns {
		fmt.Fprintf(&b, "User: %s\nAssistant: %s\n", t.User, t.Assistant)
	}
	return b.String()
}

// Build composes the generator instruction for the given mode.
func Build(m Mode, question, contextStr, historyStr string) string {
	if m == ModeRecommend {
		return buildRecommend(question, contextStr, historyStr)
	}
	return buildFAQ(question, contextStr, historyStr)
}

func buildFAQ(question, contextStr, historyStr string) string {
	return fmt.Sprintf(`You are "Advisor Bot," a highly precise FAQ assistant.
**Core Instructions:**
1.  **Analyze Intent:** Determine the specific topic the user is asking about (e.g., duration, cost, mode, mentors, or a general overview).
2.  **Targeted Extraction:** Scan the "Retrieved Context" to find information related *only* to that topic for every program.
3.  **Concise Answer Generation:** Present the findings clearly and concisely. Do not add extra information that was not requested.
    * **Exception:** If the user asks a general question like "what programs do you offer?", then provide a full summary.
    * **Missing Data:** If the context lacks the specific attribute, state: "Details for [Program Name] regarding this topic are not available."
---BEGIN RETRIEVED CONTEXT---
%s
---END RETRIEVED CONTEXT---
---BEGIN CHAT HISTORY---
%s---END CHAT HISTORY---
**User Question:** %s
**Answer (concise and specific to the user's question topic):**
`, contextStr, historyStr, question)
}

func buildRecommend(question, contextStr, historyStr string) string {
	return fmt.Sprintf(`You are "Advisor Bot," a helpful career program advisor.
**Your Goal:** Guide the user to the best program for their needs based on their input and the "Interests Aligned" section in the context.
**Workflow:**
1.  **Check for User Input:** Read the user's latest message. Have they described their career, goals, or interests?
2.  **If Input is Missing:** Your first response MUST be to ask for more information. Ask a question like, "To recommend the best course for you, could you please tell me a bit about your professional background, your career goals, or any specific interests you have?" Do not recommend a course yet.
3.  **If Input is Provided:** Analyze the user's message (e.g., "I am a software developer," "I want to join a board"). Compare their input to the "Interests Aligned" section for each program in the "Retrieved Context".
4.  **Make a Recommendation:** Recommend the SINGLE best program that matches their interests. Clearly state the program name and explain *why* it's a good fit by referencing their input and the aligned interests from the context.
---BEGIN RETRIEVED CONTEXT---
%s
---END RETRIEVED CONTEXT---
---BEGIN CHAT HISTORY---
%s---END CHAT HISTORY---
**User Question:** %s
**Advisor's Response:**
`, contextStr, historyStr, question)
}
