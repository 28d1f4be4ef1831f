package coach

import (
	"fmt"
	"strings"

	"github.com/abhisek/akaun/internal/llm"
)

const systemPrompt = `You are a patient accounting teacher for Malaysian Form 4 and Form 5 (SPM) Prinsip Perakaunan students. A student answered a drill question wrongly. Reply in Bahasa Melayu, in plain text without markdown.`

// Schema is the structured output the coach asks for.
var Schema = &llm.Schema{
	Name:        "coach-tip",
	Description: "A short hint and worked steps explaining an accounting adjustment",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tip": map[string]any{
				"type":        "string",
				"description": "One or two sentences naming the student's likely mistake",
			},
			"steps": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Numbered calculation steps leading to the expected answer",
			},
		},
		"required":             []string{"tip", "steps"},
		"additionalProperties": false,
	},
}

func userMessage(in Input) string {
	var b strings.Builder
	v := in.View

	fmt.Fprintf(&b, "Topik: %s\n", v.Title)
	if v.Narrative != "" {
		fmt.Fprintf(&b, "Soalan: %s\n", v.Narrative)
	}
	b.WriteString("\nMaklumat diberi:\n")
	for _, f := range v.Facts {
		fmt.Fprintf(&b, "- %s: %s\n", f.Label, f.Value)
	}
	if v.Table != nil {
		fmt.Fprintf(&b, "\nJadual: %s\n", strings.Join(v.Table.Header, " | "))
		for _, row := range v.Table.Rows {
			fmt.Fprintf(&b, "  %s\n", strings.Join(row, " | "))
		}
	}

	wrong := make(map[string]bool, len(in.Verdict.Mismatched))
	for _, k := range in.Verdict.Mismatched {
		wrong[k] = true
	}
	b.WriteString("\nJawapan pelajar:\n")
	for _, f := range v.Form {
		mark := "betul"
		if wrong[f.Key] {
			mark = "SALAH"
		}
		fmt.Fprintf(&b, "- %s: %q (%s)\n", f.Label, in.Answer[f.Key], mark)
	}

	b.WriteString("\nJawapan sebenar:\n")
	for _, f := range in.Verdict.Explanation.Expected {
		fmt.Fprintf(&b, "- %s: %s\n", f.Label, f.Value)
	}
	b.WriteString("\nPengiraan rujukan:\n")
	for _, s := range in.Verdict.Explanation.Steps {
		fmt.Fprintf(&b, "- %s\n", s)
	}

	b.WriteString(`
Arahan:
1. Dalam "tip", kenal pasti kesilapan yang paling mungkin berdasarkan jawapan SALAH di atas.
2. Dalam "steps", tunjukkan pengiraan langkah demi langkah hingga jawapan sebenar. Gunakan angka daripada soalan.
3. Jangan ubah jawapan sebenar. Gunakan format RM dengan dua tempat perpuluhan.`)
	return b.String()
}
