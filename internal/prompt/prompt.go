// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompt builds the fixed prompts for the draft and refine stages.
// Each builder interpolates the topic and the previous stage's text into its
// template and returns a fresh string per call.
package prompt

import (
	"bytes"
	"fmt"
	"text/template"
)

// Builder renders the prompt for one stage from the topic and the previous
// stage's text.
type Builder func(topic, input string) (string, error)

// draftPromptTmpl asks for a LinkedIn blog post grounded only in the research.
var draftPromptTmpl = template.Must(template.New("draft").Parse(`You are a professional content creator specializing in technology blog posts for LinkedIn.
Your task is to write an engaging and informative blog post on the topic: "{{.Topic}}".
You have been provided with the following research material:
--- RESEARCH ---
{{.Input}}
--- END OF RESEARCH ---
Please write a well-structured blog post based *only* on the provided research.
The post should have a catchy title, a brief introduction, a main body with key points, a conclusion, and relevant hashtags.
`))

// refinePromptTmpl asks for an SEO rewrite with the topic as primary keyword.
var refinePromptTmpl = template.Must(template.New("refine").Parse(`You are an expert SEO analyst. Your task is to improve the following LinkedIn blog post draft for better search engine visibility.
The primary keyword for the post is "{{.Topic}}".

--- BLOG POST DRAFT ---
{{.Input}}
--- END OF DRAFT ---

Please perform the following actions:
1. Create a new, compelling title for the blog post. The title must be under 60 characters and contain the primary keyword.
2. Write a meta description for the post. The description must be under 160 characters, be engaging, and contain the primary keyword.
3. Review the entire blog post. Ensure the primary keyword appears naturally in the introduction and at least once in the main body.
4. Rewrite the entire blog post, incorporating all of the above improvements.

Your final output should be the improved blog post, starting with the new title, followed by the meta description, and then the full rewritten article with hashtags.
Format it like this:
New Title: [Your new title here]
Meta Description: [Your meta description here]
---
[Full rewritten blog post text here]
`))

// Draft renders the draft-stage prompt from the topic and the research block.
func Draft(topic, research string) (string, error) {
	return render(draftPromptTmpl, topic, research)
}

// Refine renders the refine-stage prompt from the topic and the draft text.
func Refine(topic, draft string) (string, error) {
	return render(refinePromptTmpl, topic, draft)
}

func render(tmpl *template.Template, topic, input string) (string, error) {
	var buf bytes.Buffer
	data := struct{ Topic, Input string }{Topic: topic, Input: input}
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
