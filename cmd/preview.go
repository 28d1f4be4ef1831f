package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/akaun/internal/random"
	"github.com/abhisek/akaun/internal/scenario"
)

var previewCmd = &cobra.Command{
	Use:   "preview FAMILY",
	Short: "Print generated questions for a family (no database)",
	Long: `Generate questions of one family and print them with their answers.

FAMILY is one of phr, sn, accrual, baddebt, loan, disposal or tpm.
With --interactive the answers are hidden and read from stdin instead.
This is a stateless developer tool: no database, no score, no leaderboard.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().Int("count", 3, "Number of questions to generate")
	previewCmd.Flags().Uint64("seed", 0, "Random seed, 0 for a fresh one")
	previewCmd.Flags().Int("level", 1, "Accrual bank or disposal level (1 or 2)")
	previewCmd.Flags().Bool("new-loan", false, "Loan taken out during the current year")
	previewCmd.Flags().String("presentation", "", "Break-even layout: ZERO_POINT, ITEMIZED_LIST or HIGH_LOW")
	previewCmd.Flags().BoolP("interactive", "i", false, "Answer each question on stdin")
}

func runPreview(cmd *cobra.Command, args []string) error {
	family, ok := scenario.ParseFamily(args[0])
	if !ok {
		return fmt.Errorf("unknown family %q", args[0])
	}
	count, _ := cmd.Flags().GetInt("count")
	seed, _ := cmd.Flags().GetUint64("seed")
	level, _ := cmd.Flags().GetInt("level")
	newLoan, _ := cmd.Flags().GetBool("new-loan")
	pres, _ := cmd.Flags().GetString("presentation")
	interactive, _ := cmd.Flags().GetBool("interactive")

	variant := scenario.Variant{
		Family:       family,
		Level:        level,
		NewLoan:      newLoan,
		Presentation: scenario.Presentation(strings.ToUpper(pres)),
	}

	src := random.New()
	if seed != 0 {
		src = random.NewSeeded(seed)
	}

	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Fprintf(out, "%s (%s), %d soalan\n\n", family.Label(), variant, count)

	var correct int
	for i := 1; i <= count; i++ {
		q, err := scenario.Generate(src, variant)
		if err != nil {
			return fmt.Errorf("generate: %w", err)
		}
		v := q.View()

		fmt.Fprintf(out, "── Soalan %d/%d ──\n", i, count)
		printView(out, v)

		if !interactive {
			printAnswers(out, v.Form, q.Solution())
			fmt.Fprintln(out)
			continue
		}

		in, ok := readAnswers(out, scanner, v.Form)
		if !ok {
			fmt.Fprintln(out, "\n(input closed)")
			break
		}
		verdict := scenario.Validate(q, in)
		if verdict.Correct {
			correct++
			fmt.Fprintln(out, "\033[32m✓ Betul!\033[0m")
		} else {
			fmt.Fprintf(out, "\033[31m✗ Salah.\033[0m %s\n", strings.Join(verdict.Mismatched, ", "))
			for _, f := range verdict.Explanation.Expected {
				fmt.Fprintf(out, "  %s: %s\n", f.Label, f.Value)
			}
		}
		for _, step := range verdict.Explanation.Steps {
			fmt.Fprintf(out, "  · %s\n", step)
		}
		fmt.Fprintln(out)
	}

	if interactive {
		fmt.Fprintf(out, "── Ringkasan: %d/%d betul ──\n", correct, count)
	}
	return nil
}

func printView(w io.Writer, v scenario.View) {
	fmt.Fprintln(w, v.Title)
	if v.Narrative != "" {
		fmt.Fprintln(w, v.Narrative)
	}
	for _, f := range v.Facts {
		fmt.Fprintf(w, "  %-32s %s\n", f.Label, f.Value)
	}
	if v.Table != nil {
		fmt.Fprintf(w, "  %s\n", strings.Join(v.Table.Header, " | "))
		for _, row := range v.Table.Rows {
			fmt.Fprintf(w, "  %s\n", strings.Join(row, " | "))
		}
	}
}

func printAnswers(w io.Writer, form []scenario.FieldSpec, sol scenario.Input) {
	fmt.Fprintln(w, "Jawapan:")
	for _, f := range form {
		fmt.Fprintf(w, "  %-32s %s\n", f.Label, choiceLabel(f, sol[f.Key]))
	}
}

func choiceLabel(f scenario.FieldSpec, value string) string {
	for _, c := range f.Choices {
		if c.Value == value {
			return c.Label
		}
	}
	return value
}

// readAnswers prompts for every field. Choice fields accept the option
// number or its value.
func readAnswers(w io.Writer, scanner *bufio.Scanner, form []scenario.FieldSpec) (scenario.Input, bool) {
	in := scenario.Input{}
	for _, f := range form {
		if f.Kind == scenario.FieldChoice {
			for j, c := range f.Choices {
				fmt.Fprintf(w, "  %d) %s\n", j+1, c.Label)
			}
		}
		fmt.Fprintf(w, "%s: ", f.Label)
		if !scanner.Scan() {
			return nil, false
		}
		answer := strings.TrimSpace(scanner.Text())
		if f.Kind == scenario.FieldChoice {
			var n int
			if _, err := fmt.Sscanf(answer, "%d", &n); err == nil && n >= 1 && n <= len(f.Choices) {
				answer = f.Choices[n-1].Value
			}
		}
		in[f.Key] = answer
	}
	return in, true
}
