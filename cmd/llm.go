package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/akaun/internal/coach"
	"github.com/abhisek/akaun/internal/llm"
	"github.com/abhisek/akaun/internal/logger"
	"github.com/abhisek/akaun/internal/random"
	"github.com/abhisek/akaun/internal/scenario"
	"github.com/abhisek/akaun/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Test the coach provider and inspect recorded LLM requests",
}

var llmTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send one coach request for a sample wrong answer",
	RunE: func(cmd *cobra.Command, args []string) error {
		family, _ := cmd.Flags().GetString("family")
		f, ok := scenario.ParseFamily(family)
		if !ok {
			return fmt.Errorf("unknown family %q", family)
		}

		e, err := openEnv(cmd, logger.Options{})
		if err != nil {
			return err
		}
		defer e.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		provider, err := e.provider(ctx)
		if err != nil {
			return fmt.Errorf("LLM provider: %w", err)
		}
		fmt.Printf("Provider:  %s\n", provider.Name())
		fmt.Printf("Model:     %s\n\n", provider.ModelID())

		q, err := scenario.Generate(random.New(), scenario.Variant{Family: f, Level: 1})
		if err != nil {
			return err
		}
		// A blank form is always wrong, which is when the coach is used.
		answer := scenario.Input{}
		verdict := scenario.Validate(q, answer)

		svc := coach.New(provider, coach.DefaultConfig(), e.log)
		start := time.Now()
		advice := svc.Explain(ctx, coach.Input{View: q.View(), Answer: answer, Verdict: verdict})
		if !advice.FromModel {
			return fmt.Errorf("provider request failed after %s, see the log or `akaun llm list`", time.Since(start).Round(time.Millisecond))
		}

		fmt.Println(q.View().Title)
		fmt.Println(strings.Repeat("─", 60))
		fmt.Println(advice.Tip)
		for i, s := range advice.Steps {
			fmt.Printf("%d. %s\n", i+1, s)
		}
		fmt.Printf("\nOK in %s\n", time.Since(start).Round(time.Millisecond))
		return nil
	},
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		return withEvents(cmd, func(ctx context.Context, events store.EventRepo) error {
			reqs, err := events.QueryLLMRequests(ctx, store.QueryOpts{Limit: limit, Purpose: purpose})
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			if len(reqs) == 0 {
				fmt.Println("No LLM requests found.")
				return nil
			}

			fmt.Printf("%-5s  %-19s  %-10s  %-28s  %-6s  %-6s  %-7s  %s\n",
				"Seq", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
			fmt.Println(strings.Repeat("─", 96))
			for _, r := range reqs {
				ok := "✓"
				if !r.Success {
					ok = "✗"
				}
				fmt.Printf("%-5d  %-19s  %-10s  %-28s  %-6d  %-6d  %-7d  %s\n",
					r.Sequence,
					r.Timestamp.Local().Format("2006-01-02 15:04:05"),
					r.Purpose,
					truncate(r.Model, 28),
					r.InputTokens,
					r.OutputTokens,
					r.LatencyMs,
					ok,
				)
			}
			return nil
		})
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <seq>",
	Short: "View the full request and response of an LLM request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seq, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid sequence %q: %w", args[0], err)
		}

		return withEvents(cmd, func(ctx context.Context, events store.EventRepo) error {
			r, err := events.GetLLMRequest(ctx, seq)
			if err != nil {
				return err
			}
			if r == nil {
				return fmt.Errorf("request %d not found", seq)
			}

			sep := strings.Repeat("─", 60)
			fmt.Printf("Seq:       %d\n", r.Sequence)
			fmt.Printf("Time:      %s\n", r.Timestamp.Local().Format("2006-01-02 15:04:05"))
			fmt.Printf("Provider:  %s\n", r.Provider)
			fmt.Printf("Model:     %s\n", r.Model)
			fmt.Printf("Purpose:   %s\n", r.Purpose)
			fmt.Printf("Tokens:    %d in / %d out\n", r.InputTokens, r.OutputTokens)
			fmt.Printf("Latency:   %dms\n", r.LatencyMs)
			fmt.Printf("Success:   %v\n", r.Success)
			if r.ErrorMessage != "" {
				fmt.Printf("Error:     %s\n", r.ErrorMessage)
			}

			for _, part := range []struct{ name, body string }{
				{"REQUEST", r.RequestBody},
				{"RESPONSE", r.ResponseBody},
			} {
				fmt.Println()
				fmt.Println(sep)
				fmt.Println(part.name)
				fmt.Println(sep)
				if part.body != "" {
					fmt.Println(part.body)
				} else {
					fmt.Println("(not captured)")
				}
			}
			return nil
		})
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage and estimated cost per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEvents(cmd, func(ctx context.Context, events store.EventRepo) error {
			usage, err := events.LLMUsageByModel(ctx)
			if err != nil {
				return fmt.Errorf("query usage: %w", err)
			}
			if len(usage) == 0 {
				fmt.Println("No LLM usage recorded yet.")
				return nil
			}

			fmt.Println("Estimated Cost (USD)")
			fmt.Println(strings.Repeat("─", 80))
			fmt.Printf("%-32s  %6s  %10s  %10s  %7s  %9s\n",
				"Model", "Calls", "Input", "Output", "Avg Ms", "Cost")
			fmt.Println(strings.Repeat("─", 80))

			var totalCost float64
			var unknown []string
			for _, u := range usage {
				cost := "?"
				if price, ok := llm.PriceOf(u.Model); ok {
					c := price.Cost(llm.Usage{InputTokens: u.InputTokens, OutputTokens: u.OutputTokens})
					totalCost += c
					cost = formatCost(c)
				} else {
					unknown = append(unknown, u.Model)
				}
				fmt.Printf("%-32s  %6d  %10d  %10d  %7d  %9s\n",
					truncate(u.Model, 32), u.Calls, u.InputTokens, u.OutputTokens, u.AvgLatencyMs, cost)
			}

			fmt.Println(strings.Repeat("─", 80))
			label := "TOTAL"
			if len(unknown) > 0 {
				label = "TOTAL (partial)"
			}
			fmt.Printf("%-32s  %6s  %10s  %10s  %7s  %9s\n", label, "", "", "", "", formatCost(totalCost))
			if len(unknown) > 0 {
				fmt.Printf("\nPricing unavailable for: %s\n", strings.Join(unknown, ", "))
			}
			return nil
		})
	},
}

// withEvents opens the store and hands its event repo to fn.
func withEvents(cmd *cobra.Command, fn func(context.Context, store.EventRepo) error) error {
	e, err := openEnv(cmd, logger.Options{})
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(cmd.Context(), e.store.EventRepo())
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmTestCmd.Flags().String("family", "sn", "Question family of the sample")
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. coach)")

	llmCmd.AddCommand(llmTestCmd)
	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
