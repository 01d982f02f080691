package ai

import "strings"

const systemPrompt = `You review entries in a project timeline. For each entry decide:
- "category": a short label such as "critical milestone", "potential issue", "normal update", or another fitting label;
- "highlight": true when the entry deserves attention on the timeline, otherwise false;
- "reason": one concise sentence explaining the decision.
Reply with a single JSON object containing exactly these three keys.`

func userPrompt(content string) string {
	var b strings.Builder
	b.WriteString("Timeline entry:\n")
	b.WriteString(content)
	return b.String()
}
