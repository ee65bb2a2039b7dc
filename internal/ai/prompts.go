package ai

import (
	"bytes"
	"strings"
	"text/template"
)

// MaxBodyChars is the character budget for the issue body embedded in the
// classification prompt.
const MaxBodyChars = 2000

type promptData struct {
	Title  string
	Body   string
	Labels string
}

var classifyTemplate = template.Must(template.New("classifyPrompt").Parse(
	`Analyze this GitHub issue and estimate its complexity, hours needed, and development cost.

**Issue Title:** {{.Title}}

**Description:**
{{.Body}}

**Labels:** {{.Labels}}

Based on the information above, provide:
1. **Complexity**: Classify as "Low", "Medium", or "High" based on:
   - Low: Simple bug fixes, documentation updates, minor UI changes (1-6 hours)
   - Medium: Feature additions, moderate refactoring, integration tasks (6-15 hours)
   - High: Complex features, architectural changes, major refactoring (15-25 hours)

2. **Estimated Hours**: Provide realistic development hours:
   - Low complexity: 1-6 hours
   - Medium complexity: 6-15 hours
   - High complexity: 15-25 hours

3. **Detailed Reasoning**: Provide a well-structured analysis using HTML formatting with:
   - Use <h3> tags for main sections
   - Use <h4> tags for sub-sections
   - Use <strong> tags for emphasis on important points
   - Use <ul> and <li> tags for bullet points
   - Use <p> tags for paragraphs

   Include these sections:
   - **Overview**: Brief summary of the task
   - **Main Tasks Required**: Bulleted list of key tasks
   - **Technical Challenges**: Specific technical hurdles (if any)
   - **Components Affected**: Which parts of the codebase will change
   - **Testing Requirements**: What needs to be tested
   - **Assumptions**: Any assumptions made in the estimate

Respond ONLY with a valid JSON object in this exact format:
{
    "complexity": "Low|Medium|High",
    "estimated_hours": <number>,
    "reasoning": "<h3>Overview</h3><p>Brief summary here...</p><h3>Main Tasks Required</h3><ul><li>Task 1</li><li>Task 2</li></ul>..."
}

Make the reasoning well-formatted HTML with proper structure, headers, and bullet points.`))

// BuildClassifyPrompt renders the classification prompt for one issue.
func BuildClassifyPrompt(title, body string, labels []string) string {
	data := promptData{
		Title:  title,
		Body:   TruncateBody(body),
		Labels: joinLabels(labels),
	}

	var buf bytes.Buffer
	if err := classifyTemplate.Execute(&buf, data); err != nil {
		return ""
	}
	return buf.String()
}

// TruncateBody caps the issue body at MaxBodyChars and substitutes a
// placeholder for empty descriptions.
func TruncateBody(body string) string {
	if body == "" {
		return "No description provided"
	}
	if len(body) > MaxBodyChars {
		return body[:MaxBodyChars]
	}
	return body
}

func joinLabels(labels []string) string {
	if len(labels) == 0 {
		return "None"
	}
	return strings.Join(labels, ", ")
}
