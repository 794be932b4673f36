// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/author-brief/pkg/types"
)

// systemPrompt is the shared instruction for every summarization call.
const systemPrompt = "You are an expert research assistant who writes concise academic summaries."

// htmlSystemPrompt is the instruction for the HTML formatting call.
const htmlSystemPrompt = "You are an expert at formatting academic content for clean HTML display."

// abstractPromptTmpl digests one paper abstract down to its research direction.
var abstractPromptTmpl = template.Must(template.New("abstract").Parse(
	`Summarize the following abstract in a maximum of 3 short sentences or keywords. Focus mainly on the research direction and avoid long formulations:

{{.Abstract}}
`))

// scholarPromptTmpl summarizes the academic impact of all authors together.
// It asks the model not to repeat the shared paper for every author so the
// reader can tell who has independent impactful work.
var scholarPromptTmpl = template.Must(template.New("scholar").Parse(
	`Summarize the academic impact of the following authors in a short paragraph each.
They coauthored the paper {{.PaperTitle}}.
If they coauthored an impactful paper together, do not list it for every author; state once that they coauthored it.
It should be clear from your summary which authors have other impactful papers and which only have the common one.

{{.AuthorsInfo}}
`))

// webPromptTmpl summarizes one author's web search results.
var webPromptTmpl = template.Must(template.New("web").Parse(
	`Summarize the public research profile and affiliations of {{.AuthorName}} based on this search:

{{.SearchText}}
`))

// finalPromptTmpl merges the scholar and web summaries into the final
// per-author biography document.
var finalPromptTmpl = template.Must(template.New("final").Parse(
	`From the scholar summary and the web search summary below about these researchers, create a final summary of each author.
Highlight their affiliations, the focus of their research, and important papers or projects they worked on; specifically mention their citation counts.
Do not highlight the paper {{.PaperTitle}}, as the reader already knows the authors coauthored it.

Scholar summary:
{{.ScholarSummary}}

Web search summary:
{{.WebSummary}}
`))

// htmlPromptTmpl formats the final document as semantic HTML.
var htmlPromptTmpl = template.Must(template.New("html").Parse(
	`Format the following author summary into clean, semantic HTML for use on a webpage.

- Use <h2> for each author name.
- Display the text content for each author unchanged below the author name.
- Do not include any text outside the HTML.

Author summary:

{{.Summary}}
`))

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

// AbstractPrompt returns the system and user messages for an abstract digest.
func AbstractPrompt(abstract string) (system, user string, err error) {
	user, err = render(abstractPromptTmpl, struct{ Abstract string }{abstract})
	return systemPrompt, user, err
}

// ScholarPrompt returns the messages for the combined scholar profile summary.
func ScholarPrompt(paperTitle, authorsInfo string) (system, user string, err error) {
	user, err = render(scholarPromptTmpl, struct{ PaperTitle, AuthorsInfo string }{paperTitle, authorsInfo})
	return systemPrompt, user, err
}

// WebPrompt returns the messages for one author's web search summary.
func WebPrompt(authorName, searchText string) (system, user string, err error) {
	user, err = render(webPromptTmpl, struct{ AuthorName, SearchText string }{authorName, searchText})
	return systemPrompt, user, err
}

// FinalPrompt returns the messages for the final biography merge.
func FinalPrompt(paperTitle, scholarSummary, webSummary string) (system, user string, err error) {
	user, err = render(finalPromptTmpl, struct{ PaperTitle, ScholarSummary, WebSummary string }{
		paperTitle, scholarSummary, webSummary,
	})
	return systemPrompt, user, err
}

// HTMLPrompt returns the messages for the HTML formatting call.
func HTMLPrompt(summary string) (system, user string, err error) {
	user, err = render(htmlPromptTmpl, struct{ Summary string }{summary})
	return htmlSystemPrompt, user, err
}

// AuthorProfileText renders one author's scholar profile as plain text for
// the scholar summary prompt: name, totals, and the kept papers with their
// abstract digests.
func AuthorProfileText(a types.Author) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Author: %s\n", a.Name)
	if len(a.Affiliations) > 0 {
		fmt.Fprintf(&b, "Affiliations: %s\n", strings.Join(a.Affiliations, ", "))
	}
	fmt.Fprintf(&b, "Total citations: %d\n", a.CitationCount)
	fmt.Fprintf(&b, "h-index: %d\n", a.HIndex)
	b.WriteString("Their most cited papers:\n")
	for _, p := range a.Papers {
		fmt.Fprintf(&b, "paper title: %s, year: %d, citations: %d.", p.Title, p.Year, p.Citations)
		if p.AbstractDigest != "" {
			fmt.Fprintf(&b, " Summary of abstract: %s", p.AbstractDigest)
		}
		b.WriteString("\n")
	}
	return b.String()
}
