package cli

import (
	"errors"
	"fmt"
	"strings"

	"FitAICoach/internal/imagemodal"
	"FitAICoach/internal/models"
	"FitAICoach/internal/pdfexport"
	"FitAICoach/internal/ui"
	"github.com/spf13/cobra"
)

func (r *root) generateCmd() *cobra.Command {
	var (
		profile       models.UserProfile
		noInteractive bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Collect your profile and generate a new plan",
		Long: `Generate asks for every profile field not given as a flag, submits the
profile and renders the plan. The plan replaces the saved one. Afterwards the
interactive session menu opens unless --no-interactive is set.`,
		RunE: r.withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			var err error
			if noInteractive {
				err = profile.Validate()
			} else {
				e.println(e.renderer.Quote(e.session.RefreshQuote(cmd.Context())))
				profile, err = ui.Wizard{Prompter: e.prompter, AskOptional: true}.Run(profile)
			}
			if err != nil {
				return err
			}

			plan, err := e.session.Submit(cmd.Context(), profile)
			if err != nil {
				return errReported
			}
			e.println(e.renderer.Plan(plan))

			if noInteractive {
				return nil
			}
			return runSession(cmd, e)
		}),
	}

	f := cmd.Flags()
	f.StringVar(&profile.Name, "name", "", "your name")
	f.IntVar(&profile.Age, "age", 0, "age in years")
	f.StringVar(&profile.Gender, "gender", "", "one of: "+strings.Join(models.Genders, ", "))
	f.Float64Var(&profile.HeightCm, "height", 0, "height in cm")
	f.Float64Var(&profile.WeightKg, "weight", 0, "weight in kg")
	f.StringVar(&profile.FitnessGoal, "goal", "", "one of: "+strings.Join(models.FitnessGoals, ", "))
	f.StringVar(&profile.FitnessLevel, "level", "", "one of: "+strings.Join(models.FitnessLevels, ", "))
	f.StringVar(&profile.WorkoutLocation, "location", "", "one of: "+strings.Join(models.WorkoutLocations, ", "))
	f.StringVar(&profile.DietaryPreference, "diet", "", "one of: "+strings.Join(models.DietaryPreferences, ", "))
	f.StringVar(&profile.MedicalHistory, "medical-history", "", "injuries or conditions to take into account")
	f.StringVar(&profile.StressLevel, "stress", "", "optional, one of: "+strings.Join(models.StressLevels, ", "))
	f.BoolVar(&noInteractive, "no-interactive", false, "never prompt; fail when a required field is missing")
	return cmd
}

func (r *root) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the saved plan",
		Args:  cobra.NoArgs,
		RunE: r.withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			if err := e.session.Bootstrap(cmd.Context(), true); err != nil {
				return err
			}
			e.println(e.renderer.Quote(e.session.Quote()))

			plan, ok := e.session.Plan()
			if !ok {
				return errReported
			}
			e.println(e.renderer.Plan(plan))
			return nil
		}),
	}
}

func (r *root) sessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Open the interactive menu over the saved plan",
		Args:  cobra.NoArgs,
		RunE: r.withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			if err := e.session.Bootstrap(cmd.Context(), true); err != nil {
				return err
			}
			e.println(e.renderer.Quote(e.session.Quote()))
			if plan, ok := e.session.Plan(); ok {
				e.println(e.renderer.Plan(plan))
			}
			return runSession(cmd, e)
		}),
	}
}

func (r *root) readCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "read <workout|diet|tips>",
		Short:     "Read one section of the saved plan aloud",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(models.SectionWorkout), string(models.SectionDiet), string(models.SectionTips)},
		RunE: r.withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			section, ok := models.ParseSection(args[0])
			if !ok {
				return fmt.Errorf("unknown section %q", args[0])
			}
			if _, err := requirePlan(e); err != nil {
				return err
			}
			if err := e.session.ReadAloud(section); err != nil {
				if errors.Is(err, models.ErrUnsupported) {
					return errReported
				}
				return err
			}
			if err := e.session.WaitForVoice(cmd.Context()); err != nil {
				if cmd.Context().Err() != nil {
					return err
				}
				return errReported
			}
			return nil
		}),
	}
}

func (r *root) imageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "image <exercise|meal> <text>",
		Short: "Generate an image for one plan item",
		Args:  cobra.MinimumNArgs(2),
		RunE: r.withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			category := models.ImageCategory(args[0])
			if category != models.CategoryExercise && category != models.CategoryMeal {
				return fmt.Errorf("unknown image type %q", args[0])
			}

			e.session.ShowImage(cmd.Context(), strings.Join(args[1:], " "), category)
			e.session.WaitForImages()

			view := e.session.Image()
			if view.Phase == imagemodal.Failed {
				return errReported
			}
			e.println(e.renderer.Modal(view))
			return nil
		}),
	}
}

func (r *root) exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the saved plan as a PDF",
		Args:  cobra.NoArgs,
		RunE: r.withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			if _, err := requirePlan(e); err != nil {
				return err
			}
			if err := e.session.ExportPDF(out); err != nil {
				return errReported
			}
			return nil
		}),
	}
	cmd.Flags().StringVarP(&out, "out", "o", pdfexport.DefaultFileName, "output file")
	return cmd
}

func (r *root) quoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quote",
		Short: "Print a motivational quote",
		Args:  cobra.NoArgs,
		RunE: r.withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			e.println(e.renderer.Quote(e.session.RefreshQuote(cmd.Context())))
			return nil
		}),
	}
}
