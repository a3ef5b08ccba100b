package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/clinic-quiz/internal/catalog"
	"github.com/sells-group/clinic-quiz/internal/model"
	"github.com/sells-group/clinic-quiz/internal/scorer"
)

var recommendCmd = &cobra.Command{
	Use:     "recommend",
	Short:   "Score quiz answers and print the recommended solution",
	Example: `  clinic-quiz recommend --answer 1=basic --answer 2=referral --answer 4=content,conversion`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		raw, _ := cmd.Flags().GetStringArray("answer")
		answers, err := parseAnswerFlags(raw)
		if err != nil {
			return err
		}

		cat, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return eris.Wrap(err, "load catalog")
		}
		eng, err := scorer.New(cat)
		if err != nil {
			return err
		}

		formatRecommendation(cmd.OutOrStdout(), eng.Recommend(answers), eng.Scores(answers))
		return nil
	},
}

// parseAnswerFlags turns "questionId=value" pairs into answers.
func parseAnswerFlags(raw []string) ([]model.Answer, error) {
	answers := make([]model.Answer, 0, len(raw))
	for _, r := range raw {
		idStr, value, ok := strings.Cut(r, "=")
		if !ok || value == "" {
			return nil, eris.Errorf("invalid --answer %q, want <questionId>=<value>", r)
		}
		id, err := strconv.Atoi(strings.TrimSpace(idStr))
		if err != nil {
			return nil, eris.Errorf("invalid question id in --answer %q", r)
		}
		answers = append(answers, model.Answer{QuestionID: id, Answer: value})
	}
	return answers, nil
}

func formatRecommendation(out io.Writer, best model.Solution, scores []scorer.SolutionScore) {
	_, _ = fmt.Fprintf(out, "Recommended: %s (%s)\n", best.Name, best.ID)
	if best.Description != "" {
		_, _ = fmt.Fprintf(out, "  %s\n", best.Description)
	}
	_, _ = fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SOLUTION\tSCORE\tBASE\tWEIGHT\tMATCHED")
	_, _ = fmt.Fprintln(w, "--------\t-----\t----\t------\t-------")
	for _, s := range scores {
		_, _ = fmt.Fprintf(w, "%s\t%.1f\t%.0f\t%.1f\t%s\n",
			s.Solution.ID, s.Score, s.Base, s.Weighted, strings.Join(s.Matched, ","))
	}
	_ = w.Flush()
}

func init() {
	recommendCmd.Flags().StringArray("answer", nil, "answer as <questionId>=<value>, repeatable")
	rootCmd.AddCommand(recommendCmd)
}
