// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompts holds the fixed catalog of classification system prompts.
// Every prompt is assembled from a six-section COSTAR template (Context,
// Objective, Style, Tone, Audience, Response); Context, Style, and Tone are
// shared, the other three sections vary per tag. Assembled text is passed
// through the 80-column Markdown wrapper so the stored form is byte-stable.
package prompts

import (
	"bytes"
	"encoding/json"
	"text/template"

	"github.com/pdiddy/ptm-survey/internal/mdwrap"
	"github.com/pdiddy/ptm-survey/pkg/types"
)

// Tags used by the analyze stage and the per-tag analysis tables.
const (
	TagUsesDL            = "uses_dl"
	TagUsesPTMs          = "uses_ptms"
	TagIdentifyPTMs      = "identify_ptms"
	TagIdentifyPTMReuse  = "identify_ptm_reuse"
	TagIdentifyPTMImpact = "identify_ptm_impact"
)

// Tags returns the prompt tags in catalog order.
func Tags() []string {
	return []string{TagUsesDL, TagUsesPTMs, TagIdentifyPTMs, TagIdentifyPTMReuse, TagIdentifyPTMImpact}
}

// Shared COSTAR sections.
const (
	sharedContext = `You are reading the full Markdown text of a peer-reviewed academic paper
from a natural-science journal. The paper may or may not use machine
learning anywhere in its methodology.`

	sharedStyle = `Answer strictly from the text of the paper. Do not speculate about methods
the authors might have used but did not describe. Quote or paraphrase the
passages that support your answer.`

	sharedTone = `Neutral and precise, as a systematic reviewer recording evidence.`
)

// costar is one prompt definition: the three per-tag COSTAR sections.
type costar struct {
	Tag       string `json:"tag"`
	Context   string `json:"context"`
	Objective string `json:"objective"`
	Style     string `json:"style"`
	Tone      string `json:"tone"`
	Audience  string `json:"audience"`
	Response  string `json:"response"`
}

var definitions = []costar{
	{
		Tag: TagUsesDL,
		Objective: `Decide whether the paper uses deep learning anywhere in its own
methodology. Deep learning means multi-layer neural networks trained or
applied by the authors, including convolutional, recurrent, graph, and
transformer architectures. A paper that only cites deep-learning work
without applying it does not qualify.`,
		Audience: `A meta-research pipeline that aggregates boolean judgments across
thousands of papers.`,
		Response: `Respond with a single JSON object and nothing else:
{"result": true or false, "prose": "the supporting passage, or null"}
Set "prose" to null when "result" is false.`,
	},
	{
		Tag: TagUsesPTMs,
		Objective: `Decide whether the paper reuses one or more pre-trained models: neural
networks whose weights were trained elsewhere and are loaded, fine-tuned,
or queried by the authors. Training a model from scratch does not qualify.`,
		Audience: `A meta-research pipeline that aggregates boolean judgments across
thousands of papers.`,
		Response: `Respond with a single JSON object and nothing else:
{"result": true or false, "prose": "the supporting passage, or null"}
Set "prose" to null when "result" is false.`,
	},
	{
		Tag: TagIdentifyPTMs,
		Objective: `List every pre-trained model the paper reuses, by the name the authors
use for it (for example AlphaFold2, BERT, ResNet-50, ESM-2).`,
		Audience: `A meta-research pipeline that counts named pre-trained models across
thousands of papers.`,
		Response: `Respond with a single JSON array and nothing else. One element per model:
{"model": "name", "prose": "the passage naming the model"}
Respond with [] when the paper reuses no pre-trained model.`,
	},
	{
		Tag: TagIdentifyPTMReuse,
		Objective: `For each pre-trained model the paper reuses, classify the form of reuse:
conceptual_reuse (the model's ideas or architecture inform the work),
adaptation_reuse (the model is fine-tuned or retrained on new data), or
deployment_reuse (the model is applied as-is to produce results).`,
		Audience: `A meta-research pipeline that tabulates reuse classifications across
thousands of papers.`,
		Response: `Respond with a single JSON array and nothing else. One element per model:
{"model": "name", "form": "how the model enters the work",
"classification": "conceptual_reuse" or "adaptation_reuse" or
"deployment_reuse", "prose": "the supporting passage"}
Respond with [] when the paper reuses no pre-trained model.`,
	},
	{
		Tag: TagIdentifyPTMImpact,
		Objective: `For each pre-trained model the paper reuses, identify the step of the
scientific method where it appears: observation, hypothesis, experiment,
analysis, or conclusion.`,
		Audience: `A meta-research pipeline that maps pre-trained models onto steps of the
scientific method across thousands of papers.`,
		Response: `Respond with a single JSON array and nothing else. One element per model:
{"model": "name", "step": "the step of the scientific method",
"prose": "the supporting passage"}
Respond with [] when the paper reuses no pre-trained model.`,
	},
}

// promptTmpl renders the six COSTAR sections as Markdown.
var promptTmpl = template.Must(template.New("costar").Parse(`# CONTEXT

{{.Context}}

# OBJECTIVE

{{.Objective}}

# STYLE

{{.Style}}

# TONE

{{.Tone}}

# AUDIENCE

{{.Audience}}

# RESPONSE

{{.Response}}
`))

// Catalog returns the five prompts in seed order. Text is the wrapped COSTAR
// rendering; JSONDump is the structured self-description of the template.
func Catalog() ([]types.Prompt, error) {
	var out []types.Prompt
	for _, def := range definitions {
		def.Context = sharedContext
		def.Style = sharedStyle
		def.Tone = sharedTone

		var buf bytes.Buffer
		if err := promptTmpl.Execute(&buf, def); err != nil {
			return nil, err
		}

		dump, err := json.Marshal(def)
		if err != nil {
			return nil, err
		}

		out = append(out, types.Prompt{
			Tag:      def.Tag,
			Text:     mdwrap.Rewrap(buf.String()),
			JSONDump: string(dump),
		})
	}
	return out, nil
}
